package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/econdash/internal/model"
)

// cliConfig holds every setting the commands read.
type cliConfig struct {
	BaseURL       string        `mapstructure:"base-url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ForecastYears int           `mapstructure:"forecast-years"`
	StartYear     int           `mapstructure:"start-year"`
	EndYear       int           `mapstructure:"end-year"`
	CacheTTL      time.Duration `mapstructure:"cache-ttl"`
	LogLevel      string        `mapstructure:"log-level"`
	LogFile       string        `mapstructure:"log-file"`
	ExportDir     string        `mapstructure:"export-dir"`
}

// Range returns the configured default year range.
func (c cliConfig) Range() model.YearRange {
	return model.YearRange{Start: c.StartYear, End: c.EndYear}
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("ECONDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("base-url", model.DefaultBaseURL)
	v.SetDefault("timeout", model.DefaultTimeout)
	v.SetDefault("forecast-years", model.DefaultForecastYears)
	v.SetDefault("start-year", model.DefaultStartYear)
	v.SetDefault("end-year", model.DefaultEndYear)
	v.SetDefault("cache-ttl", time.Duration(0))
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", filepath.Join(home, ".local", "state", "econdash", "econdash.log"))
	v.SetDefault("export-dir", ".")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "econdash", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	cfg.LogFile = expandHome(cfg.LogFile, home)
	cfg.ExportDir = expandHome(cfg.ExportDir, home)
	return cfg, cfg.validate()
}

func (c cliConfig) validate() error {
	switch {
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	case c.ForecastYears < 1 || c.ForecastYears > 50:
		return fmt.Errorf("forecast-years must be between 1 and 50, got %d", c.ForecastYears)
	case c.CacheTTL < 0:
		return fmt.Errorf("cache-ttl must be >= 0, got %s", c.CacheTTL)
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
