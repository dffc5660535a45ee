package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"square-area-client/internal/areaapi"
	"square-area-client/internal/calculator"
	"square-area-client/internal/config"
	"square-area-client/internal/observability"
	"square-area-client/internal/server"

	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(os.Getenv("DEBUG") != ""); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing, metrics and OTLP logs
	telemetryShutdown, err := initTelemetry(ctx, cfg.OTelEnabled)
	if err != nil {
		observability.Logger.Fatal("telemetry init failed", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetryShutdown(shutdownCtx)
	}()

	api := areaapi.New(cfg.APIURL,
		areaapi.WithTimeout(cfg.RequestTimeout),
		areaapi.WithRateLimit(cfg.APIRPS, cfg.APIBurst),
	)
	client := calculator.NewClient(api, calculator.Options{
		HistoryLimit:    cfg.HistoryLimit,
		RefreshInterval: cfg.RefreshInterval,
		Location:        cfg.Location,
	})

	refresherDone := make(chan struct{})
	go func() {
		defer close(refresherDone)
		client.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.NewRouter(calculator.NewHandlers(client)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.ListenAddr),
			zap.String("api_url", cfg.APIURL),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	waitForShutdown(srv)
	<-refresherDone
}

func waitForShutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
