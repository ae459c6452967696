package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/emission-renderer/internal/db"
	"github.com/jonathan/emission-renderer/internal/server"
	"github.com/jonathan/emission-renderer/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that renders, previews and classifies templates. Routes for stored emissions need DATABASE_URL.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: port from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}

	engine, err := newEngine(cfg, logger, true, nil)
	if err != nil {
		return err
	}

	var store server.Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		store = database
	} else {
		logger.Warn("DATABASE_URL not set, stored template and emission routes are disabled")
	}

	srv := server.New(server.Config{
		Port:      port,
		Logger:    logger,
		RateLimit: ratelimit.LoadConfig(os.Getenv),
	}, engine, store)

	return srv.Start(ctx)
}
