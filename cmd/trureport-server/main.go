// Command trureport-server runs the report generator as an HTTP
// service: report runs, the team/player catalog, and a health probe.
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

	"github.com/afbaseball/trureport/api"
	"github.com/afbaseball/trureport/browser"
	"github.com/afbaseball/trureport/cache"
	"github.com/afbaseball/trureport/catalog"
	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/report"
	"github.com/afbaseball/trureport/trumedia"
)

func main() {
	cfg := config.Load()
	initLogger(cfg.Log)
	slog.Info("trureport-server starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"sitename", cfg.Vendor.Sitename,
	)

	if cfg.Vendor.MasterToken == "" || cfg.Vendor.Username == "" {
		slog.Error("TRUMEDIA_USERNAME and TRUMEDIA_MASTER_TOKEN must be set")
		os.Exit(1)
	}

	// Browser sessions open per report run; at startup only probe, so
	// the service comes up (degraded) without Chrome.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if browser.Probe(probeCtx, cfg.Browser) {
		slog.Info("browser debugger reachable",
			"host", cfg.Browser.DebugHost, "port", cfg.Browser.DebugPort)
	} else {
		slog.Warn("browser debugger unreachable, chart capture will fail until it is up")
	}
	probeCancel()

	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		slog.Error("failed to open catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := trumedia.NewClient(cfg.Vendor, cache.New(cfg.Cache.TokenTTL), cfg.RateLimit)
	gen := report.NewGenerator(cfg, client)
	cat := catalog.NewService(store, client)

	startTime := time.Now()
	router := api.NewRouter(gen, cat, cfg, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// In-flight report runs can take minutes; give them a short drain
	// window, the async ones deliver via webhook anyway.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}
	slog.Info("trureport-server stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
