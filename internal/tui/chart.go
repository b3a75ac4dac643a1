package tui

import (
	"fmt"
	"math"
	"strconv"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/wavelinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/econdash/internal/projection"
)

const minChartWidth = 20

// segments splits points at gaps into runs that can each be drawn as one
// connected line. Gaps are never bridged.
func segments(points []projection.ChartPoint) [][]projection.ChartPoint {
	var (
		out [][]projection.ChartPoint
		run []projection.ChartPoint
	)
	for _, p := range points {
		if p.Skip {
			if len(run) > 0 {
				out = append(out, run)
				run = nil
			}
			continue
		}
		run = append(run, p)
	}
	if len(run) > 0 {
		out = append(out, run)
	}
	return out
}

// yearLabel prints X axis ticks as whole years.
func yearLabel(_ int, v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

// renderLineChart draws points as a line chart of the given size. The title
// line carries the unit suffix chosen for the Y axis.
func renderLineChart(title string, points []projection.ChartPoint, width, height int, lineStyle lipgloss.Style) string {
	width = max(width, minChartWidth)
	header := chartTitleStyle.Render(title)

	minX, maxX, minY, maxY, ok := projection.Bounds(points)
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, header, helpStyle.Render("No values to plot"))
	}

	div, suffix := scale(math.Max(math.Abs(minY), math.Abs(maxY)))
	if suffix != "" {
		header = chartTitleStyle.Render(fmt.Sprintf("%s (%s)", title, suffix))
	}
	minY, maxY = minY/div, maxY/div
	if minX == maxX {
		minX, maxX = minX-1, maxX+1
	}
	if minY == maxY {
		pad := math.Max(math.Abs(maxY)*0.1, 1)
		minY, maxY = minY-pad, maxY+pad
	}

	chart := wavelinechart.New(width, max(height-1, 3),
		wavelinechart.WithXRange(minX, maxX),
		wavelinechart.WithYRange(minY, maxY),
		wavelinechart.WithStyles(runes.ArcLineStyle, lineStyle),
	)
	chart.Model.XLabelFormatter = yearLabel
	for i, run := range segments(points) {
		name := "run" + strconv.Itoa(i)
		chart.SetDataSetStyles(name, runes.ArcLineStyle, lineStyle)
		for _, p := range run {
			chart.PlotDataSet(name, canvas.Float64Point{X: p.X, Y: p.Y / div})
		}
	}
	chart.DrawAll()

	return lipgloss.JoinVertical(lipgloss.Left, header, chart.View())
}
