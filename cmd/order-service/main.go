package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/app/background"
	"github.com/dungtienne2108/marketplace-order-service/internal/app/setup"
	"github.com/dungtienne2108/marketplace-order-service/internal/config"
	"github.com/dungtienne2108/marketplace-order-service/internal/delivery/http/handlers"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(&cfg.LogConfig)

	// Wire the object graph
	deps := setup.MustBuild(cfg)

	// Periodic sweeps
	sweeper, err := background.Start(cfg, deps.Payments, deps.Cashbacks, deps.Metrics)
	if err != nil {
		log.Fatalf("failed to start sweeps: %v", err)
	}

	// Metrics endpoint
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.MetricsServer.Host, cfg.MetricsServer.Port),
		Handler: metricsMux,
	}
	go func() {
		log.Printf("metrics server started on %s\n", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server failed: %v", err)
		}
	}()

	// Webhook + health endpoint
	apiServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: handlers.NewRouter(deps.Payments),
	}
	go func() {
		log.Printf("http server started on %s\n", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sweeper.Stop(); err != nil {
		slog.Error("sweeper shutdown failed", "error", err.Error())
	}
	if err := apiServer.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown failed", "error", err.Error())
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", "error", err.Error())
	}
	if err := deps.Publisher.Close(); err != nil {
		slog.Error("kafka publisher close failed", "error", err.Error())
	}
}

func setupLogger(cfg *config.LogConfig) {
	var level slog.Level
	switch cfg.LogLevel {
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
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
