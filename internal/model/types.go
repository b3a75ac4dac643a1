package model

// Country is one entry of the reference country list.
type Country struct {
	ID     string
	Name   string
	Region string // empty when the backend does not report it
}

// Indicator is one entry of the reference indicator list.
type Indicator struct {
	ID   string
	Name string
}

// YearRange bounds a series request. Start > End is passed through to the
// backend unchanged. A zero bound omits the query parameter.
type YearRange struct {
	Start int
	End   int
}

// SeriesPoint is one year of a historical series.
// A nil Value means the backend reported no value for that year.
type SeriesPoint struct {
	Country   string // echoed by the backend, may be empty
	Indicator string // echoed by the backend, may be empty
	Year      int
	Value     *float64
}

// HasValue reports whether the point carries a value.
func (p SeriesPoint) HasValue() bool { return p.Value != nil }

// ForecastPoint is one projected year.
type ForecastPoint struct {
	Year     int
	Forecast float64
}

// Float returns a pointer to v. Handy for building SeriesPoint literals.
func Float(v float64) *float64 { return &v }
