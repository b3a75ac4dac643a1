// Package projection turns series payloads into chart points and CSV text.
// Every function here is pure except SaveCSV.
package projection

import (
	"math"

	"github.com/tinytelemetry/econdash/internal/model"
)

// ChartPoint is one plotted point. Skip marks a gap; Y is NaN for gaps and
// must not be drawn.
type ChartPoint struct {
	X    float64
	Y    float64
	Skip bool
}

// ChartSeries maps historical points to chart points in input order. Absent
// values become gaps, never zero.
func ChartSeries(points []model.SeriesPoint) []ChartPoint {
	out := make([]ChartPoint, len(points))
	for i, p := range points {
		if p.Value == nil {
			out[i] = ChartPoint{X: float64(p.Year), Y: math.NaN(), Skip: true}
			continue
		}
		out[i] = ChartPoint{X: float64(p.Year), Y: *p.Value}
	}
	return out
}

// ForecastChartSeries maps forecast points to chart points in input order.
func ForecastChartSeries(points []model.ForecastPoint) []ChartPoint {
	out := make([]ChartPoint, len(points))
	for i, p := range points {
		out[i] = ChartPoint{X: float64(p.Year), Y: p.Forecast}
	}
	return out
}

// Bounds returns the extent of the drawable points. ok is false when every
// point is a gap.
func Bounds(series ...[]ChartPoint) (minX, maxX, minY, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s {
			if p.Skip {
				continue
			}
			ok = true
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return minX, maxX, minY, maxY, true
}
