// Package main provides the emission_render CLI: render, preview and
// classify emission templates, or serve them over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/jonathan/emission-renderer/internal/config"
	"github.com/jonathan/emission-renderer/internal/observability"
)

var (
	configPath string
	verbose    bool

	// set by PersistentPreRunE
	logger *zap.Logger
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "emission_render",
	Short: "Emission template rendering and pagination",
	Long:  "emission_render fills emission templates with record data and paginates the result into a numbered PDF.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// maxprocs.Set only fails on an invalid GOMAXPROCS value; the runtime default then applies.
		if verbose {
			_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
				fmt.Fprintf(os.Stderr, format+"\n", args...)
			}))
		} else {
			_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
		}

		loaded, err := loadConfig(configPath, os.Getenv)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Verbose = true
		}
		cfg = loaded

		logger, err = observability.NewLogger(cfg.Verbose)
		if err != nil {
			return err
		}
		logger.Debug("configuration loaded",
			zap.String("command", cmd.Name()),
			zap.String("page_size", cfg.PageSize),
			zap.String("engine", cfg.Engine),
		)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging and detailed output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
