package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tinytelemetry/econdash/internal/dataservice"
	"github.com/tinytelemetry/econdash/internal/model"
	"github.com/tinytelemetry/econdash/internal/orchestrator"
)

// newService builds the data service, wrapped in the response cache when
// cache-ttl is set.
func newService(cfg cliConfig, log zerolog.Logger) (model.DataService, error) {
	client, err := dataservice.New(cfg.BaseURL,
		dataservice.WithTimeout(cfg.Timeout),
		dataservice.WithLogger(componentLogger(log, "dataservice")),
	)
	if err != nil {
		return nil, err
	}
	if cfg.CacheTTL > 0 {
		return dataservice.NewCached(client, cfg.CacheTTL, componentLogger(log, "cache")), nil
	}
	return client, nil
}

func newOrchestrator(ctx context.Context, cfg cliConfig, svc model.DataService, log zerolog.Logger) *orchestrator.Orchestrator {
	return orchestrator.New(svc,
		orchestrator.WithContext(ctx),
		orchestrator.WithLogger(componentLogger(log, "orchestrator")),
		orchestrator.WithForecastYears(cfg.ForecastYears),
		orchestrator.WithInitialSelection(model.NewSelection(cfg.Range())),
	)
}
