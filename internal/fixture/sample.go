package fixture

import "github.com/tinytelemetry/econdash/internal/model"

// Indicator ids used by Sample.
const (
	GDP        = "NY.GDP.MKTP.CD"
	Population = "SP.POP.TOTL"
	Inflation  = "FP.CPI.TOTL.ZG"
)

// Sample returns a small dataset: three countries, three indicators, a few
// series with gaps, and one pair (ARG inflation) with no data at all.
func Sample() Dataset {
	return Dataset{
		Countries: []model.Country{
			{ID: "ARG", Name: "Argentina", Region: "Latin America & Caribbean"},
			{ID: "BRA", Name: "Brazil", Region: "Latin America & Caribbean"},
			{ID: "USA", Name: "United States", Region: "North America"},
		},
		Indicators: []model.Indicator{
			{ID: GDP, Name: "GDP (current US$)"},
			{ID: Population, Name: "Population, total"},
			{ID: Inflation, Name: "Inflation, consumer prices (annual %)"},
		},
		Series: map[Key][]model.SeriesPoint{
			{Country: "BRA", Indicator: GDP}: {
				{Year: 2000, Value: model.Float(655.4e9)},
				{Year: 2001, Value: model.Float(559.4e9)},
				{Year: 2002, Value: nil},
				{Year: 2003, Value: model.Float(558.2e9)},
				{Year: 2004, Value: model.Float(669.3e9)},
			},
			{Country: "ARG", Indicator: GDP}: {
				{Year: 2000, Value: model.Float(284.2e9)},
				{Year: 2001, Value: model.Float(268.7e9)},
				{Year: 2002, Value: model.Float(97.7e9)},
			},
			{Country: "USA", Indicator: GDP}: {
				{Year: 2000, Value: model.Float(10.25e12)},
				{Year: 2001, Value: model.Float(10.58e12)},
				{Year: 2002, Value: model.Float(10.94e12)},
			},
			{Country: "BRA", Indicator: Population}: {
				{Year: 2000, Value: model.Float(174790340)},
				{Year: 2001, Value: model.Float(177196051)},
			},
		},
	}
}
