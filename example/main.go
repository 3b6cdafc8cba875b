package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/statuswatch/statuswatch"
)

func main() {
	// start mock status page (see mock_server.go)
	go StartMockStatusServer(":9999")
	time.Sleep(100 * time.Millisecond)

	local, err := statuswatch.NewProvider("Demo Cloud", "http://localhost:9999/api/v2")
	if err != nil {
		slog.Error("failed to create provider", "error", err)
		os.Exit(1)
	}

	// a real public status page alongside the mock one
	openai, _ := statuswatch.NewProvider("OpenAI API", "https://status.openai.com/api/v2")

	w, err := statuswatch.New(
		statuswatch.WithProviders(local, openai),
		statuswatch.WithPollInterval(10*time.Second),
		statuswatch.WithPort(8080),
		statuswatch.WithEventCallback(func(ev statuswatch.StatusEvent) {
			slog.Info("status event", "provider", ev.Provider, "product", ev.Product)
		}),
	)
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  statuswatch demo")
	fmt.Println("  open http://localhost:8080 to watch the stream")
	fmt.Println("  press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		slog.Error("statuswatch error", "error", err)
		os.Exit(1)
	}
}
