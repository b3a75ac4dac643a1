package dataservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tinytelemetry/econdash/internal/model"
)

const (
	userAgent       = "econdash/1.0"
	maxBodyBytes    = 16 << 20
	requestIDHeader = "X-Request-ID"
)

// Client implements model.DataService over the backend's HTTP API.
// Every call is a single round trip bounded by the client timeout.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-call timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = model.DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("dataservice: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("dataservice: base url %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		timeout: model.DefaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListCountries returns the reference country list.
func (c *Client) ListCountries(ctx context.Context) ([]model.Country, error) {
	body, err := c.get(ctx, OpCountries, "countries", nil)
	if err != nil {
		return nil, err
	}
	countries, err := decodeCountries(body)
	if err != nil {
		return nil, &model.ProtocolError{Op: OpCountries, Status: http.StatusOK, Err: err}
	}
	return countries, nil
}

// ListIndicators returns the reference indicator list.
func (c *Client) ListIndicators(ctx context.Context) ([]model.Indicator, error) {
	body, err := c.get(ctx, OpIndicators, "indicators", nil)
	if err != nil {
		return nil, err
	}
	indicators, err := decodeIndicators(body)
	if err != nil {
		return nil, &model.ProtocolError{Op: OpIndicators, Status: http.StatusOK, Err: err}
	}
	return indicators, nil
}

// FetchSeries returns the historical series for one country/indicator pair.
func (c *Client) FetchSeries(ctx context.Context, countryID, indicatorID string, r model.YearRange) ([]model.SeriesPoint, error) {
	q := url.Values{}
	q.Set("country", countryID)
	q.Set("indicator", indicatorID)
	if r.Start != 0 {
		q.Set("start", strconv.Itoa(r.Start))
	}
	if r.End != 0 {
		q.Set("end", strconv.Itoa(r.End))
	}

	body, err := c.get(ctx, OpData, "data", q)
	if err != nil {
		return nil, err
	}
	points, err := decodeSeries(body)
	if err != nil {
		return nil, &model.ProtocolError{Op: OpData, Status: http.StatusOK, Err: err}
	}
	return points, nil
}

// FetchForecast returns yearsAhead projected points for one pair.
func (c *Client) FetchForecast(ctx context.Context, countryID, indicatorID string, yearsAhead int) ([]model.ForecastPoint, error) {
	q := url.Values{}
	q.Set("country", countryID)
	q.Set("indicator", indicatorID)
	if yearsAhead > 0 {
		q.Set("years_ahead", strconv.Itoa(yearsAhead))
	}

	body, err := c.get(ctx, OpForecast, "forecast", q)
	if err != nil {
		return nil, err
	}
	points, err := decodeForecast(body)
	if err != nil {
		return nil, &model.ProtocolError{Op: OpForecast, Status: http.StatusOK, Err: err}
	}
	return points, nil
}

// requestCtx bounds one call by the client timeout.
func (c *Client) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, c.timeout)
}

// get performs one GET and returns the body of a 200 response. Every other
// outcome is classified into the model error taxonomy.
func (c *Client) get(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	ctx, cancel := c.requestCtx(ctx)
	defer cancel()

	u := c.baseURL.JoinPath(path)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &model.TransportError{Op: op, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("op", op).Str("request_id", requestID).Err(err).Msg("request failed")
		return nil, &model.TransportError{Op: op, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &model.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug().
		Str("op", op).
		Str("request_id", requestID).
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	return body, classifyStatus(op, resp.StatusCode, body)
}

// classifyStatus maps a non-200 status to the error taxonomy.
func classifyStatus(op string, status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case noDataOps[op] && (status == http.StatusNotFound || status == http.StatusBadRequest):
		return &model.NoDataError{Op: op, Status: status, Detail: errorDetail(body)}
	case status >= 500:
		return &model.TransportError{Op: op, Status: status, Err: errors.New(detailOrStatus(status, body))}
	default:
		return &model.ProtocolError{Op: op, Status: status, Err: errors.New(detailOrStatus(status, body))}
	}
}

func detailOrStatus(status int, body []byte) string {
	if d := errorDetail(body); d != "" {
		return d
	}
	return strings.ToLower(http.StatusText(status))
}

// unwrapURLError drops the *url.Error wrapper, whose message repeats the URL.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
