package dataservice

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tinytelemetry/econdash/internal/model"
)

// Cached wraps a DataService with a TTL response cache. Identical calls in
// flight at the same time share one backend round trip. Errors are never
// cached, so a failed call is retried by simply calling again.
type Cached struct {
	next  model.DataService
	cache *cache.Cache
	group singleflight.Group
	log   zerolog.Logger
}

// NewCached wraps next with a cache whose entries live for ttl.
func NewCached(next model.DataService, ttl time.Duration, log zerolog.Logger) *Cached {
	return &Cached{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
		log:   log,
	}
}

// Flush drops every cached response.
func (c *Cached) Flush() {
	c.cache.Flush()
}

func (c *Cached) ListCountries(ctx context.Context) ([]model.Country, error) {
	v, err := c.do(OpCountries, func() (any, error) {
		return c.next.ListCountries(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]model.Country(nil), v.([]model.Country)...), nil
}

func (c *Cached) ListIndicators(ctx context.Context) ([]model.Indicator, error) {
	v, err := c.do(OpIndicators, func() (any, error) {
		return c.next.ListIndicators(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]model.Indicator(nil), v.([]model.Indicator)...), nil
}

func (c *Cached) FetchSeries(ctx context.Context, countryID, indicatorID string, r model.YearRange) ([]model.SeriesPoint, error) {
	key := fmt.Sprintf("%s:%s:%s:%d:%d", OpData, countryID, indicatorID, r.Start, r.End)
	v, err := c.do(key, func() (any, error) {
		return c.next.FetchSeries(ctx, countryID, indicatorID, r)
	})
	if err != nil {
		return nil, err
	}
	return cloneSeries(v.([]model.SeriesPoint)), nil
}

func (c *Cached) FetchForecast(ctx context.Context, countryID, indicatorID string, yearsAhead int) ([]model.ForecastPoint, error) {
	key := fmt.Sprintf("%s:%s:%s:%d", OpForecast, countryID, indicatorID, yearsAhead)
	v, err := c.do(key, func() (any, error) {
		return c.next.FetchForecast(ctx, countryID, indicatorID, yearsAhead)
	})
	if err != nil {
		return nil, err
	}
	return append([]model.ForecastPoint(nil), v.([]model.ForecastPoint)...), nil
}

// do serves key from the cache or runs fetch once for all concurrent callers.
// The shared call runs under the context of whichever caller started it.
func (c *Cached) do(key string, fetch func() (any, error)) (any, error) {
	if v, ok := c.cache.Get(key); ok {
		c.log.Debug().Str("key", key).Msg("cache hit")
		return v, nil
	}
	v, err, shared := c.group.Do(key, func() (any, error) {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		c.cache.SetDefault(key, v)
		return v, nil
	})
	if shared {
		c.log.Debug().Str("key", key).Msg("coalesced with in-flight request")
	}
	return v, err
}

func cloneSeries(in []model.SeriesPoint) []model.SeriesPoint {
	if in == nil {
		return nil
	}
	out := make([]model.SeriesPoint, len(in))
	for i, p := range in {
		if p.Value != nil {
			p.Value = model.Float(*p.Value)
		}
		out[i] = p
	}
	return out
}
