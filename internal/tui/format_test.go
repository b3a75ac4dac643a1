package tui

import (
	"math"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/tinytelemetry/econdash/internal/model"
	"github.com/tinytelemetry/econdash/internal/projection"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()
	tests := map[float64]string{
		0:          "0.00",
		1234.567:   "1,234.57",
		-0.5:       "-0.50",
		655.4e9:    "655,400,000,000.00",
		-1234567.1: "-1,234,567.10",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatValue(in), "%v", in)
	}
	assert.Equal(t, "n/a", formatValue(math.NaN()))
}

func TestScale(t *testing.T) {
	t.Parallel()
	div, suffix := scale(655.4e9)
	assert.Equal(t, 1e9, div)
	assert.Equal(t, "B", suffix)

	div, suffix = scale(-3.2e12)
	assert.Equal(t, 1e12, div)
	assert.Equal(t, "T", suffix)

	div, suffix = scale(12.5)
	assert.Equal(t, 1.0, div)
	assert.Empty(t, suffix)
}

func TestSeriesSummary(t *testing.T) {
	t.Parallel()
	points := []model.SeriesPoint{
		{Year: 2000, Value: model.Float(1000)},
		{Year: 2001},
		{Year: 2002, Value: model.Float(2500.5)},
	}
	assert.Equal(t, "Latest 2002: 2,500.50  •  3 points (1 missing)", seriesSummary(points))
	assert.Equal(t, "1 points, none with a value", seriesSummary([]model.SeriesPoint{{Year: 2000}}))
}

func TestForecastSummary(t *testing.T) {
	t.Parallel()
	assert.Empty(t, forecastSummary(nil))
	got := forecastSummary([]model.ForecastPoint{{Year: 2024, Forecast: 2}, {Year: 2023, Forecast: 1}})
	assert.Equal(t, "2024: 2.00  •  2 years ahead", got)
}

func TestSegmentsSplitAtGaps(t *testing.T) {
	t.Parallel()
	points := projection.ChartSeries([]model.SeriesPoint{
		{Year: 2000, Value: model.Float(1)},
		{Year: 2001, Value: model.Float(2)},
		{Year: 2002},
		{Year: 2003},
		{Year: 2004, Value: model.Float(3)},
	})

	runs := segments(points)
	assert.Len(t, runs, 2)
	assert.Len(t, runs[0], 2)
	assert.Equal(t, 2004.0, runs[1][0].X)
	assert.Empty(t, segments(nil))
}

func TestRenderLineChartWithoutValues(t *testing.T) {
	t.Parallel()
	out := renderLineChart("Historical", projection.ChartSeries([]model.SeriesPoint{{Year: 2000}}), 40, 10, lipgloss.NewStyle())
	assert.Contains(t, out, "No values to plot")
}

func TestRenderLineChartLabelsWholeYears(t *testing.T) {
	t.Parallel()
	points := projection.ChartSeries([]model.SeriesPoint{
		{Year: 2000, Value: model.Float(1)},
		{Year: 2001, Value: model.Float(2)},
		{Year: 2002},
		{Year: 2003, Value: model.Float(3)},
	})
	out := renderLineChart("Historical", points, 60, 12, lipgloss.NewStyle())
	assert.Contains(t, out, "Historical")
	assert.Contains(t, out, "2000")
	assert.NotContains(t, out, "2000.0")

	assert.Equal(t, "2001", yearLabel(0, 2000.6))
	assert.Equal(t, "1999", yearLabel(3, 1999.2))
}

func TestParseYear(t *testing.T) {
	t.Parallel()
	y, err := parseYear(" 1999 ")
	assert.NoError(t, err)
	assert.Equal(t, 1999, y)

	_, err = parseYear("19x9")
	assert.Error(t, err)
	_, err = parseYear("")
	assert.Error(t, err)
}
