package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/econdash/internal/model"
)

var countries = []model.Country{
	{ID: "ARG", Name: "Argentina"},
	{ID: "BRA", Name: "Brazil"},
	{ID: "USA", Name: "United States"},
	{ID: "GBR", Name: "United Kingdom"},
}

func TestResolveCountry(t *testing.T) {
	t.Parallel()
	tests := []struct {
		query string
		want  string
	}{
		{"BRA", "BRA"},
		{"bra", "BRA"},
		{"Brazil", "BRA"},
		{"  united states ", "USA"},
		{"Brazl", "BRA"},
		{"Argentinia", "ARG"},
		{"United Kingdon", "GBR"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveCountry(countries, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestResolveCountryNotFound(t *testing.T) {
	t.Parallel()
	_, err := ResolveCountry(countries, "Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "country", nf.Kind)
	assert.Len(t, nf.Suggestions, 3)
	assert.Contains(t, err.Error(), "did you mean")

	_, err = ResolveCountry(countries, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ResolveCountry(nil, "Brazil")
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, nf.Suggestions)
}

func TestResolveIndicator(t *testing.T) {
	t.Parallel()
	indicators := []model.Indicator{
		{ID: "NY.GDP.MKTP.CD", Name: "GDP (current US$)"},
		{ID: "SP.POP.TOTL", Name: "Population, total"},
	}

	got, err := ResolveIndicator(indicators, "sp.pop.totl")
	require.NoError(t, err)
	assert.Equal(t, "SP.POP.TOTL", got.ID)

	got, err = ResolveIndicator(indicators, "population total")
	require.NoError(t, err)
	assert.Equal(t, "SP.POP.TOTL", got.ID)

	_, err = ResolveIndicator(indicators, "unemployment")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveCountryMeasuresRunes(t *testing.T) {
	t.Parallel()
	accented := []model.Country{
		{ID: "STP", Name: "São Tomé and Principe"},
		{ID: "CIV", Name: "Côte d'Ivoire"},
		{ID: "EEE", Name: "ÉÉÉÉÉ"},
	}

	got, err := ResolveCountry(accented, "Sao Tome and Principe")
	require.NoError(t, err)
	assert.Equal(t, "STP", got.ID)

	got, err = ResolveCountry(accented, "Cote d'Ivoire")
	require.NoError(t, err)
	assert.Equal(t, "CIV", got.ID)

	// Two edits out of five characters is past the typo threshold even
	// though the name is ten bytes long.
	_, err = ResolveCountry(accented, "ÉÉÉxx")
	assert.ErrorIs(t, err, ErrNotFound)
}
