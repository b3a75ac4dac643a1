package model

import "time"

// Shared defaults used by the CLI, the dashboard and the data service.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultTimeout       = 15 * time.Second
	DefaultForecastYears = 5
	DefaultStartYear     = 2000
	DefaultEndYear       = 2022
	DefaultExportName    = "historical_data"
)

// User-visible messages derived by the orchestrator.
const (
	MsgNoData         = "No data available for the selected parameters."
	MsgNoForecast     = "No forecast data available."
	MsgLoadFailed     = "Failed to load data"
	MsgForecastFailed = "Failed to generate forecast"
)

// DefaultRange returns the range the dashboard starts with.
func DefaultRange() YearRange {
	return YearRange{Start: DefaultStartYear, End: DefaultEndYear}
}
