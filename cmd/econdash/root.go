package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tinytelemetry/econdash/internal/tui"
)

// env carries what PersistentPreRunE resolved to the subcommands.
type env struct {
	cfg   cliConfig
	debug bool
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func newRootCmd() *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:           "econdash",
		Short:         "Browse economic indicators by country",
		Long:          "econdash charts a country's economic indicator over a year range, forecasts it forward and exports it as CSV.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := loadCLIConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("base-url") {
				cfg.BaseURL, _ = cmd.Flags().GetString("base-url")
			}
			e.cfg = cfg
			e.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, e)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default is $HOME/.config/econdash/config.yml)")
	cmd.PersistentFlags().String("base-url", "", "data service base URL (overrides config)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(newExportCmd(e), newListCmd(e), newVersionCmd())
	return cmd
}

func runDashboard(cmd *cobra.Command, e *env) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errors.New("the dashboard needs a terminal; use 'econdash export' or 'econdash list' instead")
	}

	log, closer, err := newFileLogger(e.cfg.LogFile, e.cfg.LogLevel, e.debug)
	if err != nil {
		cmd.PrintErrf("Warning: logging disabled: %v\n", err)
		log = zerolog.Nop()
	} else {
		defer closer.Close()
	}
	log.Info().Str("base_url", e.cfg.BaseURL).Str("version", version).Msg("dashboard starting")

	svc, err := newService(e.cfg, log)
	if err != nil {
		return err
	}
	orch := newOrchestrator(cmd.Context(), e.cfg, svc, log)

	if err := tui.Run(cmd.Context(), orch, tui.Options{
		ExportDir: e.cfg.ExportDir,
		Logger:    componentLogger(log, "tui"),
	}); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "econdash\n")
			fmt.Fprintf(out, "  Version:    %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", buildTime)
			fmt.Fprintf(out, "  Go version: %s\n", goVersion)
		},
	}
}
