package orchestrator

import "github.com/tinytelemetry/econdash/internal/model"

// ReferenceKind names one of the two reference lists.
type ReferenceKind int

const (
	RefCountries ReferenceKind = iota
	RefIndicators
)

func (k ReferenceKind) String() string {
	if k == RefIndicators {
		return "indicators"
	}
	return "countries"
}

// ReferenceLoadedMsg carries the result of one reference list request.
type ReferenceLoadedMsg struct {
	Kind       ReferenceKind
	Countries  []model.Country
	Indicators []model.Indicator
	Err        error
}

// SeriesLoadedMsg carries the result of a historical fetch tagged with the
// generation it was dispatched under.
type SeriesLoadedMsg struct {
	Gen       uint64
	Selection model.Selection
	Points    []model.SeriesPoint
	Err       error
}

// ForecastLoadedMsg carries the result of a forecast fetch tagged with the
// forecast generation it was dispatched under.
type ForecastLoadedMsg struct {
	Gen       uint64
	Selection model.Selection
	Points    []model.ForecastPoint
	Err       error
}
