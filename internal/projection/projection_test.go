package projection

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/econdash/internal/model"
)

func TestChartSeriesSkipsAbsentValues(t *testing.T) {
	t.Parallel()
	points := ChartSeries([]model.SeriesPoint{
		{Year: 2000, Value: model.Float(100)},
		{Year: 2001, Value: nil},
		{Year: 2002, Value: model.Float(0)},
	})

	require.Len(t, points, 3)
	assert.Equal(t, ChartPoint{X: 2000, Y: 100}, points[0])
	assert.True(t, points[1].Skip)
	assert.True(t, math.IsNaN(points[1].Y), "gap must not be plotted as zero")
	assert.Equal(t, 2001.0, points[1].X)
	assert.Equal(t, ChartPoint{X: 2002, Y: 0}, points[2], "a real zero is still drawn")
}

func TestForecastChartSeries(t *testing.T) {
	t.Parallel()
	points := ForecastChartSeries([]model.ForecastPoint{{Year: 2024, Forecast: 1.5}, {Year: 2023, Forecast: 2}})
	assert.Equal(t, []ChartPoint{{X: 2024, Y: 1.5}, {X: 2023, Y: 2}}, points, "input order is preserved")
	assert.Empty(t, ForecastChartSeries(nil))
}

func TestBounds(t *testing.T) {
	t.Parallel()
	hist := ChartSeries([]model.SeriesPoint{
		{Year: 2000, Value: model.Float(5)},
		{Year: 2001},
	})
	fc := ForecastChartSeries([]model.ForecastPoint{{Year: 2003, Forecast: -1}})

	minX, maxX, minY, maxY, ok := Bounds(hist, fc)
	require.True(t, ok)
	assert.Equal(t, []float64{2000, 2003, -1, 5}, []float64{minX, maxX, minY, maxY})

	_, _, _, _, ok = Bounds(ChartSeries([]model.SeriesPoint{{Year: 2000}}))
	assert.False(t, ok)
}

func TestSeriesRows(t *testing.T) {
	t.Parallel()
	rows := SeriesRows([]model.SeriesPoint{
		{Country: "BRA", Indicator: "GDP", Year: 2000, Value: model.Float(1)},
		{Year: 2001},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"country", "indicator", "year", "value"}, rows[0].Names())
	assert.Equal(t, []string{"year", "value"}, rows[1].Names())
	v, ok := rows[1].Get("value")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestToCSV(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rows []Row
		want string
	}{
		{
			name: "nil input",
			want: "",
		},
		{
			name: "empty input",
			rows: []Row{},
			want: "",
		},
		{
			name: "null becomes empty cell",
			rows: SeriesRows([]model.SeriesPoint{
				{Year: 2000, Value: model.Float(100)},
				{Year: 2001},
			}),
			want: "year,value\n2000,100\n2001,",
		},
		{
			name: "strings are json quoted",
			rows: SeriesRows([]model.SeriesPoint{
				{Country: "BRA", Indicator: "NY.GDP.MKTP.CD", Year: 2000, Value: model.Float(655.4e9)},
			}),
			want: "country,indicator,year,value\n\"BRA\",\"NY.GDP.MKTP.CD\",2000,655400000000",
		},
		{
			name: "first row defines columns",
			rows: []Row{
				{{Name: "year", Value: 2000}, {Name: "value", Value: 1.5}},
				{{Name: "year", Value: 2001}, {Name: "extra", Value: "x"}},
			},
			want: "year,value\n2000,1.5\n2001,",
		},
		{
			name: "no html escaping",
			rows: []Row{{{Name: "name", Value: "a<b & c"}}},
			want: "name\n\"a<b & c\"",
		},
		{
			name: "line and paragraph separators stay escaped",
			rows: []Row{{{Name: "name", Value: "a\u2028b\u2029c"}}},
			want: "name\n\"a\\u2028b\\u2029c\"",
		},
		{
			name: "nan exports empty",
			rows: []Row{{{Name: "v", Value: math.NaN()}}},
			want: "v\n",
		},
		{
			name: "forecast rows",
			rows: ForecastRows([]model.ForecastPoint{{Year: 2023, Forecast: 2.25}}),
			want: "year,forecast\n2023,2.25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ToCSV(tt.rows))
		})
	}
}

func TestParseCSVRoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"year,value\n2000,100\n2001,",
		"country,indicator,year,value\n\"BRA\",\"NY.GDP.MKTP.CD\",2000,655400000000\n\"BRA\",\"NY.GDP.MKTP.CD\",2001,1.25e-7",
		"name,note\n\"a,b\",\"say \\\"hi\\\"\"",
		"v\n",
		"name\n\"a\\u2028b\"",
	}
	for _, in := range inputs {
		rows, err := ParseCSV(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, ToCSV(rows))
	}
}

func TestParseCSVValues(t *testing.T) {
	t.Parallel()
	rows, err := ParseCSV("country,year,value\n\"BRA\",2000,\n\"a,b\",2001,3.5")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	country, _ := rows[0].Get("country")
	assert.Equal(t, "BRA", country)
	year, _ := rows[0].Get("year")
	assert.Equal(t, json.Number("2000"), year)
	value, _ := rows[0].Get("value")
	assert.Nil(t, value)

	country, _ = rows[1].Get("country")
	assert.Equal(t, "a,b", country)

	empty, err := ParseCSV("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseCSVErrors(t *testing.T) {
	t.Parallel()
	for _, in := range []string{
		"a,b\n1",
		"a\n\"open",
		"a\nnot-json",
		"a\n1 2",
	} {
		_, err := ParseCSV(in)
		assert.Error(t, err, in)
	}
}

func TestSaveCSV(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rows := SeriesRows([]model.SeriesPoint{{Year: 2000, Value: model.Float(1)}, {Year: 2001}})

	path, err := SaveCSV(filepath.Join(dir, "out"), "", rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", model.DefaultExportName+".csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ToCSV(rows), string(data))

	path, err = SaveCSV(dir, "brazil.csv", rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "brazil.csv"), path)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSaveCSVRefusesEmpty(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := SaveCSV(dir, "empty", nil)
	assert.ErrorIs(t, err, ErrNothingToExport)
	_, err = os.Stat(filepath.Join(dir, "empty.csv"))
	assert.True(t, os.IsNotExist(err))
}
