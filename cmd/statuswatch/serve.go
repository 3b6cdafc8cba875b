package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/statuswatch/statuswatch"
	"github.com/statuswatch/statuswatch/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use. Operational logs go to
// stderr so the event stream on stdout stays clean.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// serveCmd starts the statuswatch server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start watching providers and serving the event stream",
	Long: `Start the statuswatch server.

The server will:
  - Load configuration from the specified YAML file
  - Start polling every configured provider's incidents and components
  - Print each detected change to stdout
  - Serve the viewer and the SSE/WebSocket stream on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Without a config file the server watches the OpenAI status page with
default settings (port 8080, 30s interval).

Example:
  statuswatch serve
  statuswatch serve -c config.yaml
  statuswatch serve --config /etc/statuswatch/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file")
}

// defaultConfig is used when no config file is given: a single
// well-known public status page with stock settings.
func defaultConfig() *config.Config {
	return &config.Config{
		Port:         8080,
		PollInterval: config.Duration(30 * time.Second),
		Providers: []config.ProviderConfig{
			{Name: "OpenAI API", URL: "https://status.openai.com/api/v2"},
		},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	var cfg *config.Config
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		cfg = defaultConfig()
		logger.Info("no config file given, using defaults")
	} else {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	logger.Info("config loaded",
		"providers", len(cfg.Providers),
		"poll_interval", cfg.PollInterval.Duration().String(),
		"port", cfg.Port,
	)

	providers, err := config.BuildProviders(cfg)
	if err != nil {
		return fmt.Errorf("failed to build providers: %w", err)
	}

	opts := []statuswatch.Option{
		statuswatch.WithProviders(providers...),
		statuswatch.WithPort(cfg.Port),
		statuswatch.WithPollInterval(cfg.PollInterval.Duration()),
		statuswatch.WithLogger(logger),
	}
	if cfg.Title != "" {
		opts = append(opts, statuswatch.WithTitle(cfg.Title))
	}

	w, err := statuswatch.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
