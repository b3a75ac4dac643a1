package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/econdash/internal/model"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var printer = message.NewPrinter(language.English)

// listEntry is the output shape shared by countries and indicators.
type listEntry struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

func newListCmd(e *env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:       "list countries|indicators",
		Short:     "List the reference data offered by the data service",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"countries", "indicators"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatTable, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
			}

			log := newConsoleLogger(cmd.ErrOrStderr(), e.cfg.LogLevel, e.debug)
			svc, err := newService(e.cfg, log)
			if err != nil {
				return err
			}

			var entries []listEntry
			switch args[0] {
			case "countries":
				countries, err := svc.ListCountries(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing countries: %w", err)
				}
				entries = countryEntries(countries)
			default:
				indicators, err := svc.ListIndicators(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing indicators: %w", err)
				}
				entries = indicatorEntries(indicators)
			}
			return writeEntries(cmd.OutOrStdout(), format, entries)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	return cmd
}

func countryEntries(countries []model.Country) []listEntry {
	out := make([]listEntry, len(countries))
	for i, c := range countries {
		out[i] = listEntry{ID: c.ID, Name: c.Name, Region: c.Region}
	}
	return out
}

func indicatorEntries(indicators []model.Indicator) []listEntry {
	out := make([]listEntry, len(indicators))
	for i, ind := range indicators {
		out[i] = listEntry{ID: ind.ID, Name: ind.Name}
	}
	return out
}

func writeEntries(w io.Writer, format string, entries []listEntry) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tREGION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Name, e.Region)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := printer.Fprintf(w, "\n%d entries\n", len(entries))
	return err
}
