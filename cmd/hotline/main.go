package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sebas/hotline/internal/banner"
	"github.com/sebas/hotline/internal/config"
	"github.com/sebas/hotline/internal/dial"
	"github.com/sebas/hotline/internal/logger"
	"github.com/sebas/hotline/internal/metrics"
	"github.com/sebas/hotline/internal/pipeline"
	"github.com/sebas/hotline/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.InitLogger(os.Stdout)
	logger.SetLevel(cfg.LogLevel)

	banner.Print("Hotline Call Connector", []banner.ConfigLine{
		{Label: "Room", Value: cfg.RoomURL},
		{Label: "Dial-out destinations", Value: fmt.Sprint(len(cfg.DialOutSettings))},
		{Label: "Attempt budget", Value: fmt.Sprint(cfg.MaxDialAttempts)},
		{Label: "Metrics", Value: cfg.MetricsAddr},
		{Label: "Log level", Value: cfg.LogLevel},
	})

	if err := run(cfg); err != nil {
		slog.Error("Connector error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tr, err := transport.DialDaily(ctx, transport.DailyConfig{
		RoomURL: cfg.RoomURL,
		APIKey:  cfg.APIKey,
	})
	if err != nil {
		return err
	}

	task := pipeline.NewTask(cancel, tr)

	// Dial-in tracking plus one outbound tracker per configured destination.
	dial.NewInboundTracker(tr, task)

	outbound := make([]*dial.OutboundTracker, 0, len(cfg.DialOutSettings))
	for _, setting := range cfg.DialOutSettings {
		tracker, err := dial.NewOutboundTracker(tr, setting, dial.WithMaxAttempts(cfg.MaxDialAttempts))
		if err != nil {
			task.Cancel()
			return err
		}
		outbound = append(outbound, tracker)
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	for _, tracker := range outbound {
		tracker.Start(ctx)
	}

	// Wait for signal or gateway disconnect
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig)
	case <-tr.Done():
		slog.Info("Gateway connection closed, shutting down")
	}

	task.Cancel()
	time.Sleep(1 * time.Second)
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	slog.Info("Metrics available", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics server error", "error", err)
	}
}
