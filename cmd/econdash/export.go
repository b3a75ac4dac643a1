package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tinytelemetry/econdash/internal/catalog"
	"github.com/tinytelemetry/econdash/internal/model"
	"github.com/tinytelemetry/econdash/internal/orchestrator"
	"github.com/tinytelemetry/econdash/internal/projection"
)

type exportOptions struct {
	country   string
	indicator string
	start     int
	end       int
	forecast  bool
	output    string
}

func newExportCmd(e *env) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch a series and write it as CSV",
		Example: `  # Brazil GDP with the configured year range
  econdash export --country Brazil --indicator NY.GDP.MKTP.CD

  # Print to stdout and add a five-year forecast file
  econdash export --country BRA --indicator "GDP (current US$)" --start 1990 --end 2020 --forecast --output brazil.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("start") {
				opts.start = e.cfg.StartYear
			}
			if !cmd.Flags().Changed("end") {
				opts.end = e.cfg.EndYear
			}
			log := newConsoleLogger(cmd.ErrOrStderr(), e.cfg.LogLevel, e.debug)
			return runExport(cmd, e.cfg, opts, log)
		},
	}

	cmd.Flags().StringVar(&opts.country, "country", "", "country id or name")
	cmd.Flags().StringVar(&opts.indicator, "indicator", "", "indicator id or name")
	cmd.Flags().IntVar(&opts.start, "start", model.DefaultStartYear, "first year (default from config)")
	cmd.Flags().IntVar(&opts.end, "end", model.DefaultEndYear, "last year (default from config)")
	cmd.Flags().BoolVar(&opts.forecast, "forecast", false, "also write a forecast file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or - for stdout (default <export-dir>/historical_data.csv)")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("indicator")

	return cmd
}

func runExport(cmd *cobra.Command, cfg cliConfig, opts exportOptions, log zerolog.Logger) error {
	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}
	orch := newOrchestrator(cmd.Context(), cfg, svc, log)

	orch.Drive(orch.Init())
	country, indicator, err := resolveSelection(orch.Reference(), opts, log)
	if err != nil {
		return err
	}

	sel := model.NewSelection(model.YearRange{Start: opts.start, End: opts.end}).
		WithCountry(&country).
		WithIndicator(&indicator)
	orch.Drive(orch.SetSelection(sel))

	v := orch.View()
	if v.MessageKind == model.MessageError {
		return errors.New(v.Message)
	}
	if len(v.Historical) == 0 {
		return errors.New(v.Message)
	}

	toStdout := opts.output == "-"
	dir, name := exportTarget(cfg.ExportDir, opts.output)
	if err := writeRows(cmd, toStdout, dir, name, projection.SeriesRows(v.Historical)); err != nil {
		return err
	}

	if !opts.forecast {
		return nil
	}

	orch.Drive(orch.RequestForecast())
	v = orch.View()
	if v.MessageKind == model.MessageError {
		return errors.New(v.Message)
	}
	if len(v.Forecast) == 0 {
		log.Warn().Msg(v.Message)
		return nil
	}
	return writeRows(cmd, toStdout, dir, name+"_forecast", projection.ForecastRows(v.Forecast))
}

// resolveSelection maps the flag values onto reference entries. When a
// reference list could not be loaded the value is used as an id verbatim.
func resolveSelection(ref orchestrator.Reference, opts exportOptions, log zerolog.Logger) (model.Country, model.Indicator, error) {
	var (
		country   model.Country
		indicator model.Indicator
		err       error
	)

	if ref.CountriesErr != nil {
		log.Warn().Err(ref.CountriesErr).Msg("country list unavailable, using --country as an id")
		country = model.Country{ID: opts.country, Name: opts.country}
	} else if country, err = catalog.ResolveCountry(ref.Countries, opts.country); err != nil {
		return country, indicator, err
	}

	if ref.IndicatorsErr != nil {
		log.Warn().Err(ref.IndicatorsErr).Msg("indicator list unavailable, using --indicator as an id")
		indicator = model.Indicator{ID: opts.indicator, Name: opts.indicator}
	} else if indicator, err = catalog.ResolveIndicator(ref.Indicators, opts.indicator); err != nil {
		return country, indicator, err
	}

	log.Debug().Str("country", country.ID).Str("indicator", indicator.ID).Msg("selection resolved")
	return country, indicator, nil
}

// exportTarget splits --output into a directory and a base name without
// the .csv extension.
func exportTarget(exportDir, output string) (string, string) {
	if output == "" || output == "-" {
		return exportDir, model.DefaultExportName
	}
	return filepath.Dir(output), strings.TrimSuffix(filepath.Base(output), ".csv")
}

func writeRows(cmd *cobra.Command, toStdout bool, dir, name string, rows []projection.Row) error {
	if toStdout {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), projection.ToCSV(rows))
		return err
	}
	path, err := projection.SaveCSV(dir, name, rows)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	cmd.PrintErrf("Wrote %s (%d rows)\n", path, len(rows))
	return nil
}
