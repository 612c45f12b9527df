package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rb-dev78/tillpos/api/routes"
	"github.com/rb-dev78/tillpos/internal/catalog"
	"github.com/rb-dev78/tillpos/internal/register"
	"github.com/rb-dev78/tillpos/pkg/config"
	"github.com/rb-dev78/tillpos/pkg/instance"
	"github.com/rb-dev78/tillpos/pkg/logger"
	"github.com/rb-dev78/tillpos/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	taxRate, err := cfg.Sale.TaxRate()
	if err != nil {
		logg.Error(context.Background(), "invalid tax rate", err)
		os.Exit(1)
	}

	catalogService := catalog.NewService()
	if cfg.Catalog.SeedDemo {
		if err := catalog.Seed(context.Background(), catalogService); err != nil {
			logg.Error(context.Background(), "failed to seed demo catalog", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	registerService, err := register.NewService(register.ServiceParams{
		Catalog: catalogService,
		TaxRate: taxRate,
		Metrics: checkoutMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"till_id":  instance.GetID(),
		"tax_rate": taxRate.String(),
	})
	logg.Info(ctx, "starting pos api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, catalogService, registerService, registry),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down")
		timeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(timeout); err != nil {
			logg.Error(ctx, "shutdown error", err)
			os.Exit(1)
		}
	}
}
