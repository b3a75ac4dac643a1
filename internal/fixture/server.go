// Package fixture serves the backend's four read endpoints from an in-memory
// dataset. It lets every layer above the HTTP boundary be tested against a
// real socket without the real backend.
package fixture

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/econdash/internal/model"
)

// Key identifies one country/indicator series.
type Key struct {
	Country   string
	Indicator string
}

// Dataset is the content served by a Server.
type Dataset struct {
	Countries  []model.Country
	Indicators []model.Indicator
	Series     map[Key][]model.SeriesPoint
}

// Override replaces the normal response of one endpoint.
type Override struct {
	Status int
	Body   string // raw body; empty means {"detail": http.StatusText(Status)}
}

// Server is an httptest-backed fake of the data backend.
type Server struct {
	data Dataset

	mu        sync.Mutex
	overrides map[string]Override
	holds     map[string]chan struct{} // country id -> gate for /data
	delay     time.Duration
	calls     map[string]int

	engine *gin.Engine
	srv    *httptest.Server
}

// New creates a fixture serving data. Call Start to listen.
func New(data Dataset) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		data:      data,
		overrides: make(map[string]Override),
		holds:     make(map[string]chan struct{}),
		calls:     make(map[string]int),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.countCalls)
	r.GET("/countries", s.handleCountries)
	r.GET("/indicators", s.handleIndicators)
	r.GET("/data", s.handleData)
	r.GET("/forecast", s.handleForecast)
	s.engine = r

	return s
}

// Start begins serving on a loopback port and returns the base URL.
func (s *Server) Start() string {
	s.srv = httptest.NewServer(s.engine)
	return s.srv.URL
}

// URL returns the base URL of a started server.
func (s *Server) URL() string {
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

// Handler exposes the router for in-process use with httptest.NewRecorder.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Close releases held requests and stops the server.
func (s *Server) Close() {
	s.mu.Lock()
	for id, gate := range s.holds {
		close(gate)
		delete(s.holds, id)
	}
	s.mu.Unlock()
	if s.srv != nil {
		s.srv.Close()
	}
}

// Override forces the response of endpoint ("countries", "indicators",
// "data", "forecast") until cleared with a zero Override.
func (s *Server) Override(endpoint string, o Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.Status == 0 {
		delete(s.overrides, endpoint)
		return
	}
	s.overrides[endpoint] = o
}

// SetDelay delays every response by d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Hold blocks /data requests for country until the returned release func is
// called. Used to force out-of-order completion.
func (s *Server) Hold(country string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.holds[country] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[country] == gate {
				delete(s.holds, country)
				close(gate)
			}
			s.mu.Unlock()
		})
	}
}

// Calls returns how many requests hit endpoint.
func (s *Server) Calls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

func (s *Server) countCalls(c *gin.Context) {
	endpoint := endpointName(c.Request.URL.Path)
	s.mu.Lock()
	s.calls[endpoint]++
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	c.Next()
}

// applyOverride writes the forced response for endpoint, if any.
func (s *Server) applyOverride(c *gin.Context, endpoint string) bool {
	s.mu.Lock()
	o, ok := s.overrides[endpoint]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if o.Body == "" {
		c.JSON(o.Status, gin.H{"detail": http.StatusText(o.Status)})
		return true
	}
	c.Data(o.Status, "application/json", []byte(o.Body))
	return true
}

func (s *Server) handleCountries(c *gin.Context) {
	if s.applyOverride(c, "countries") {
		return
	}
	out := make([]gin.H, 0, len(s.data.Countries))
	for _, country := range s.data.Countries {
		row := gin.H{"id": country.ID, "name": country.Name}
		if country.Region != "" {
			row["region.value"] = country.Region
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleIndicators(c *gin.Context) {
	if s.applyOverride(c, "indicators") {
		return
	}
	out := make([]gin.H, 0, len(s.data.Indicators))
	for _, ind := range s.data.Indicators {
		out = append(out, gin.H{"id": ind.ID, "name": ind.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleData(c *gin.Context) {
	country := c.Query("country")

	s.mu.Lock()
	gate := s.holds[country]
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			return
		}
	}

	if s.applyOverride(c, "data") {
		return
	}

	indicator := c.Query("indicator")
	if country == "" || indicator == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "country and indicator are required"})
		return
	}
	start, okStart := queryInt(c, "start", model.DefaultStartYear)
	end, okEnd := queryInt(c, "end", model.DefaultEndYear)
	if !okStart || !okEnd {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "start and end must be integers"})
		return
	}
	if start > end {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "start year cannot be greater than end year"})
		return
	}

	var out []gin.H
	for _, p := range s.data.Series[Key{Country: country, Indicator: indicator}] {
		if p.Year < start || p.Year > end {
			continue
		}
		row := gin.H{"country": country, "indicator": indicator, "year": p.Year, "value": nil}
		if p.Value != nil {
			row["value"] = *p.Value
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "no data found for the given parameters"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleForecast(c *gin.Context) {
	if s.applyOverride(c, "forecast") {
		return
	}

	country := c.Query("country")
	indicator := c.Query("indicator")
	yearsAhead, ok := queryInt(c, "years_ahead", model.DefaultForecastYears)
	if !ok || yearsAhead < 1 || yearsAhead > 50 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "years_ahead must be between 1 and 50"})
		return
	}

	points := valued(s.data.Series[Key{Country: country, Indicator: indicator}])
	if len(points) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "series too short to forecast"})
		return
	}

	// Linear drift from the last two observations.
	last, prev := points[len(points)-1], points[len(points)-2]
	slope := (*last.Value - *prev.Value) / float64(last.Year-prev.Year)
	out := make([]gin.H, 0, yearsAhead)
	for i := 1; i <= yearsAhead; i++ {
		out = append(out, gin.H{
			"year":     last.Year + i,
			"forecast": *last.Value + slope*float64(i),
		})
	}
	c.JSON(http.StatusOK, out)
}

// valued returns the points that carry a value, ordered by year.
func valued(series []model.SeriesPoint) []model.SeriesPoint {
	out := make([]model.SeriesPoint, 0, len(series))
	for _, p := range series {
		if p.Value != nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func endpointName(path string) string {
	if len(path) > 0 && path[0] == '/' {
		return path[1:]
	}
	return path
}
