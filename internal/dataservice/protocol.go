package dataservice

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tinytelemetry/econdash/internal/model"
)

// Endpoint Reference
//
//   Op           Request                                                  200 body
//   ──────────   ──────────────────────────────────────────────────────   ─────────────────────────────────────────
//   countries    GET /countries                                           [{id, name, "region.value"?}]
//   indicators   GET /indicators                                          [{id, name}]
//   data         GET /data?country=&indicator=&start=&end=                [{country?, indicator?, year, value|null}]
//   forecast     GET /forecast?country=&indicator=&years_ahead=           [{year, forecast}]  (value accepted for forecast)
//
// Status classification:
//   200          decoded against the schema above; mismatch -> ProtocolError
//   404, 400     data/forecast only: NoDataError (empty result / invalid range)
//   5xx          TransportError
//   other        ProtocolError
//
// Error bodies follow the backend convention {"detail": "..."}; detail is
// surfaced in the error when present.

// Operation names, also used as log fields and cache key prefixes.
const (
	OpCountries  = "countries"
	OpIndicators = "indicators"
	OpData       = "data"
	OpForecast   = "forecast"
)

// noDataOps are the operations for which 404/400 mean "nothing to show".
var noDataOps = map[string]bool{
	OpData:     true,
	OpForecast: true,
}

// referenceRecord is one element of /countries or /indicators.
type referenceRecord struct {
	ID     *string `json:"id"`
	Name   *string `json:"name"`
	Region *string `json:"region.value"`
}

// seriesRecord is one element of /data.
type seriesRecord struct {
	Country   *string  `json:"country"`
	Indicator *string  `json:"indicator"`
	Year      wireYear `json:"year"`
	Value     *float64 `json:"value"`
}

// forecastRecord is one element of /forecast.
type forecastRecord struct {
	Year     wireYear `json:"year"`
	Forecast *float64 `json:"forecast"`
	Value    *float64 `json:"value"`
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// wireYear accepts a JSON integer, an integral float or a numeric string.
type wireYear struct {
	value int
	set   bool
}

func (y *wireYear) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("year %s is not a number", string(b))
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("year %s is not an integer", string(b))
	}
	y.value = int(f)
	y.set = true
	return nil
}

var errMissingID = errors.New("missing id")

func decodeCountries(body []byte) ([]model.Country, error) {
	var records []referenceRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	out := make([]model.Country, 0, len(records))
	for i, r := range records {
		if err := validateReference(r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		c := model.Country{ID: *r.ID, Name: *r.Name}
		if r.Region != nil {
			c.Region = *r.Region
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeIndicators(body []byte) ([]model.Indicator, error) {
	var records []referenceRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	out := make([]model.Indicator, 0, len(records))
	for i, r := range records {
		if err := validateReference(r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, model.Indicator{ID: *r.ID, Name: *r.Name})
	}
	return out, nil
}

func validateReference(r referenceRecord) error {
	if r.ID == nil || *r.ID == "" {
		return errMissingID
	}
	if r.Name == nil {
		return errors.New("missing name")
	}
	return nil
}

func decodeSeries(body []byte) ([]model.SeriesPoint, error) {
	var records []seriesRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	out := make([]model.SeriesPoint, 0, len(records))
	for i, r := range records {
		if !r.Year.set {
			return nil, fmt.Errorf("record %d: missing year", i)
		}
		p := model.SeriesPoint{Year: r.Year.value, Value: r.Value}
		if r.Country != nil {
			p.Country = *r.Country
		}
		if r.Indicator != nil {
			p.Indicator = *r.Indicator
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeForecast(body []byte) ([]model.ForecastPoint, error) {
	var records []forecastRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	out := make([]model.ForecastPoint, 0, len(records))
	for i, r := range records {
		if !r.Year.set {
			return nil, fmt.Errorf("record %d: missing year", i)
		}
		v := r.Forecast
		if v == nil {
			v = r.Value
		}
		if v == nil {
			return nil, fmt.Errorf("record %d: missing forecast", i)
		}
		out = append(out, model.ForecastPoint{Year: r.Year.value, Forecast: *v})
	}
	return out, nil
}

// errorDetail extracts the backend's detail text from an error body.
// Non-JSON bodies are returned trimmed.
func errorDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return s
		}
		return string(eb.Detail)
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
