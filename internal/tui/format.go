package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tinytelemetry/econdash/internal/model"
)

// printer is the locale-aware message printer for number formatting.
var printer = message.NewPrinter(language.English)

// formatValue renders v with thousand separators and two decimals.
func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	formatted := strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(formatted, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + formatted
	}
	return sign + printer.Sprintf("%d", n) + "." + frac
}

// scale picks a divisor and suffix so that peak reads in one to three digits.
func scale(peak float64) (float64, string) {
	a := math.Abs(peak)
	switch {
	case a >= 1e12:
		return 1e12, "T"
	case a >= 1e9:
		return 1e9, "B"
	case a >= 1e6:
		return 1e6, "M"
	case a >= 1e3:
		return 1e3, "K"
	default:
		return 1, ""
	}
}

// seriesSummary describes the latest valued point and how many are missing.
func seriesSummary(points []model.SeriesPoint) string {
	var (
		latest  *model.SeriesPoint
		missing int
	)
	for i := range points {
		if !points[i].HasValue() {
			missing++
			continue
		}
		if latest == nil || points[i].Year > latest.Year {
			latest = &points[i]
		}
	}
	if latest == nil {
		return fmt.Sprintf("%d points, none with a value", len(points))
	}
	s := fmt.Sprintf("Latest %d: %s  •  %d points", latest.Year, formatValue(*latest.Value), len(points))
	if missing > 0 {
		s += fmt.Sprintf(" (%d missing)", missing)
	}
	return s
}

// forecastSummary describes the last forecast year.
func forecastSummary(points []model.ForecastPoint) string {
	if len(points) == 0 {
		return ""
	}
	last := points[0]
	for _, p := range points[1:] {
		if p.Year > last.Year {
			last = p
		}
	}
	return fmt.Sprintf("%d: %s  •  %d years ahead", last.Year, formatValue(last.Forecast), len(points))
}
