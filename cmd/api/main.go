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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/ordena-app/ordena-backend/api/routes"
	orderitem "github.com/ordena-app/ordena-backend/internal/orderitems"
	ordersvc "github.com/ordena-app/ordena-backend/internal/orders"
	org "github.com/ordena-app/ordena-backend/internal/orgs"
	"github.com/ordena-app/ordena-backend/internal/pricing"
	productsvc "github.com/ordena-app/ordena-backend/internal/products"
	"github.com/ordena-app/ordena-backend/pkg/config"
	"github.com/ordena-app/ordena-backend/pkg/db"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/metrics"
	"github.com/ordena-app/ordena-backend/pkg/migrate"
	"github.com/ordena-app/ordena-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pricingMetrics := metrics.NewPricingMetrics(registry)

	gormDB := dbClient.DB()
	orgRepo := org.NewRepository(gormDB)
	productRepo := productsvc.NewRepository(gormDB)
	orderRepo := ordersvc.NewRepository(gormDB)
	orderItemRepo := orderitem.NewRepository(gormDB)
	pricingRepo := pricing.NewRepository(gormDB)

	var ruleStore pricing.RuleStore = pricingRepo
	var invalidator *pricing.CachedRuleStore
	if cfg.Pricing.RuleCacheEnabled {
		cached := pricing.NewCachedRuleStore(pricingRepo, redisClient, cfg.Pricing.RuleCacheTTL, logg)
		ruleStore = cached
		invalidator = cached
	}

	orgService, err := org.NewService(orgRepo)
	exitOnErr(logg, "failed to create org service", err)

	productService, err := productsvc.NewService(productRepo, orgRepo)
	exitOnErr(logg, "failed to create product service", err)

	orderService, err := ordersvc.NewService(orderRepo, orgRepo)
	exitOnErr(logg, "failed to create order service", err)

	pricingService, err := pricing.NewService(pricingRepo, ruleStore, productRepo, invalidatorOrNil(invalidator), pricingMetrics)
	exitOnErr(logg, "failed to create pricing service", err)

	orderItemService, err := orderitem.NewService(orderItemRepo, dbClient, productRepo, orderRepo, pricingService, pricingMetrics)
	exitOnErr(logg, "failed to create order item service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient,
			orgService, productService, orderService, orderItemService, pricingService,
			registry,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
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
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeErr := multierr.Combine(redisClient.Close(), dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing backing services", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

// invalidatorOrNil avoids handing the service a typed nil interface.
func invalidatorOrNil(c *pricing.CachedRuleStore) pricing.RuleInvalidator {
	if c == nil {
		return nil
	}
	return c
}

func exitOnErr(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
