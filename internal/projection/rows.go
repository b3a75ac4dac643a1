package projection

import "github.com/tinytelemetry/econdash/internal/model"

// Field is one named cell of a Row.
type Field struct {
	Name  string
	Value any
}

// Row is an ordered field list. Order defines CSV column order.
type Row []Field

// Get returns the value of the named field.
func (r Row) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// SeriesRows builds export rows for historical points. Country and indicator
// columns appear only when the point carries them; absent values stay nil.
func SeriesRows(points []model.SeriesPoint) []Row {
	rows := make([]Row, 0, len(points))
	for _, p := range points {
		row := make(Row, 0, 4)
		if p.Country != "" {
			row = append(row, Field{Name: "country", Value: p.Country})
		}
		if p.Indicator != "" {
			row = append(row, Field{Name: "indicator", Value: p.Indicator})
		}
		var value any
		if p.Value != nil {
			value = *p.Value
		}
		row = append(row, Field{Name: "year", Value: p.Year}, Field{Name: "value", Value: value})
		rows = append(rows, row)
	}
	return rows
}

// ForecastRows builds export rows for forecast points.
func ForecastRows(points []model.ForecastPoint) []Row {
	rows := make([]Row, 0, len(points))
	for _, p := range points {
		rows = append(rows, Row{
			{Name: "year", Value: p.Year},
			{Name: "forecast", Value: p.Forecast},
		})
	}
	return rows
}
