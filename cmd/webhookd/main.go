package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"elasticroute-client/internal/adapters/elasticroute"
	"elasticroute-client/internal/adapters/store"
	"elasticroute-client/internal/api"
	"elasticroute-client/internal/config"
	"elasticroute-client/internal/metrics"
	"elasticroute-client/internal/platform/logger"
	"elasticroute-client/internal/platform/obs"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// main receives planner webhooks and serves the archived solutions.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Logger)
	obs.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	solutions, closeStore, err := store.Open(ctx, cfg.SolutionStore, cfg.SolutionTTL)
	if err != nil {
		log.WithError(err).Fatal("open solution store")
	}
	defer closeStore()

	// Without an API key the receiver still accepts webhooks; only the
	// refresh route needs the planner.
	var planner *elasticroute.Client
	if strings.TrimSpace(cfg.APIKey) != "" || strings.TrimSpace(cfg.DefaultAPIKey) != "" {
		planner = elasticroute.NewClient(elasticroute.Config{
			APIKey:            cfg.APIKey,
			DefaultAPIKey:     cfg.DefaultAPIKey,
			PlannerURL:        cfg.PlannerURL,
			DashboardURL:      cfg.DashboardURL,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			MaxAttempts:       cfg.MaxAttempts,
		})
	} else {
		log.Warn("no ElasticRoute API key set, refresh route disabled")
	}

	metrics.RegisterDefault()
	metricsHandler := promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})

	var router http.Handler
	if planner != nil {
		router = api.NewRouter(solutions, planner, metricsHandler)
	} else {
		router = api.NewRouter(solutions, nil, metricsHandler)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	log.WithField("addr", srv.Addr).WithField("store", cfg.SolutionStore).Info("webhook receiver listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("serve")
	}
}
