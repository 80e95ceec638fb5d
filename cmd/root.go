package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/codegen"
	"github.com/agentic-research/potoo/internal/config"
	"github.com/agentic-research/potoo/internal/envelope"
	"github.com/agentic-research/potoo/internal/logging"
	"github.com/spf13/cobra"
)

// cfg is resolved once per invocation in rootCmd's PersistentPreRunE.
var cfg *config.Config

var (
	logLevel    string
	logFormat   string
	dbPath      string
	bevyVersion string
	prelude     string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	pf.StringVar(&dbPath, "db", "", "Path to the project store database")
	pf.StringVar(&bevyVersion, "bevy-version", "", "Bevy version written to generated manifests")
	pf.StringVar(&prelude, "prelude", "", `Glob import emitted first in generated files ("none" to disable)`)
}

var rootCmd = &cobra.Command{
	Use:           "potoo",
	Short:         "Potoo: structural editor and code generator for Bevy projects",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			c.LogLevel = logLevel
		}
		if flags.Changed("log-format") {
			c.LogFormat = logFormat
		}
		if flags.Changed("db") {
			c.DB = dbPath
		}
		if flags.Changed("bevy-version") {
			c.BevyVersion = bevyVersion
		}
		if flags.Changed("prelude") {
			c.Prelude = prelude
			if c.Prelude == "none" {
				c.Prelude = ""
			}
		}

		logger, err := logging.New(c.LogLevel, c.LogFormat, os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		cfg = c
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func generator() *codegen.Generator {
	return codegen.NewGenerator(codegen.Options{Prelude: cfg.Prelude})
}

// loadProject reads a project envelope. Version mismatches are logged by
// the envelope package and do not fail the load.
func loadProject(path string) (*api.Model, error) {
	loaded, err := envelope.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return loaded.Model, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
