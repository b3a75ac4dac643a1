package model

import "context"

// ReferenceSource lists the session reference data.
type ReferenceSource interface {
	ListCountries(ctx context.Context) ([]Country, error)
	ListIndicators(ctx context.Context) ([]Indicator, error)
}

// SeriesSource fetches historical and forecast series.
//
// Implementations classify every failure as *TransportError, *ProtocolError
// or *NoDataError. A zero YearRange bound and a yearsAhead <= 0 leave the
// corresponding query parameter to the backend default.
type SeriesSource interface {
	FetchSeries(ctx context.Context, countryID, indicatorID string, r YearRange) ([]SeriesPoint, error)
	FetchForecast(ctx context.Context, countryID, indicatorID string, yearsAhead int) ([]ForecastPoint, error)
}

// DataService is the full read contract consumed by the orchestrator.
type DataService interface {
	ReferenceSource
	SeriesSource
}
