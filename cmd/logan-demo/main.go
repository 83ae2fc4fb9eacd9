// Command logan-demo starts the viewer and emits sample events so the
// streaming page has something to show.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/merijjeyn/logan"
	"github.com/merijjeyn/logan/internal/logging"
)

func main() {
	logging.InitLogger(os.Getenv("LOGAN_LOG_LEVEL"), os.Getenv("LOGAN_LOG_FORMAT"))

	viewer, err := logan.Init()
	if err != nil {
		logging.WithError(err).Error("Failed to start Logan")
		os.Exit(1)
	}

	viewer.Info("Application started")
	viewer.Debug("This is a debug message")
	viewer.Warn("This is a warning")
	viewer.Error("This is an error message", errors.New("disk quota exceeded"))
	viewer.Log("Demo service came up", logan.SeverityInfo, "demo", nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	logging.WithNamespace("demo").Info("Logan demo running, press Ctrl+C to stop", "url", viewer.URL())

	for {
		select {
		case <-ticker.C:
			viewer.Log("Periodic demo event", logan.SeverityInfo, "demo", nil)
		case <-sigCh:
			slog.Info("Shutdown signal received, cleaning up...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := viewer.Close(shutdownCtx); err != nil {
				slog.Error("Viewer shutdown error", "error", err)
			}
			return
		}
	}
}
