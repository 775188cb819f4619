package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/llanero/admin-backend/api/routes"
	"github.com/llanero/admin-backend/internal/banners"
	"github.com/llanero/admin-backend/internal/catalog"
	"github.com/llanero/admin-backend/internal/customers"
	"github.com/llanero/admin-backend/internal/gateway"
	"github.com/llanero/admin-backend/internal/members"
	"github.com/llanero/admin-backend/internal/notifications"
	"github.com/llanero/admin-backend/internal/orders"
	"github.com/llanero/admin-backend/internal/paymentmethods"
	"github.com/llanero/admin-backend/internal/realtime"
	"github.com/llanero/admin-backend/internal/reports"
	"github.com/llanero/admin-backend/internal/warehouses"
	"github.com/llanero/admin-backend/pkg/authprovider"
	"github.com/llanero/admin-backend/pkg/config"
	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/env"
	"github.com/llanero/admin-backend/pkg/instance"
	"github.com/llanero/admin-backend/pkg/logger"
	"github.com/llanero/admin-backend/pkg/metrics"
	"github.com/llanero/admin-backend/pkg/migrate"
	"github.com/llanero/admin-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if loaded, err := env.LoadFiles(""); err != nil {
		logg.Error(context.Background(), "failed to read env files", err)
	} else if len(loaded) == 0 {
		logg.Warn(context.Background(), "no .env file found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured: idempotency replay and gateway rate limiting are off")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hub := realtime.NewHub(cfg.Realtime.BufferSize, metrics.NewRealtimeMetrics(registry))
	listener, err := realtime.NewPGListener(cfg.DB.DSN, cfg.Realtime.Channel, hub, cfg.Realtime.ReconnectDelay, logg)
	requireResource(ctx, logg, "realtime listener", err)
	go func() {
		if err := listener.Run(ctx); err != nil {
			logg.Error(ctx, "realtime listener stopped", err)
		}
	}()

	gormDB := dbClient.DB()
	notificationRepo := notifications.NewRepository(gormDB)
	consumer, err := notifications.NewConsumer(notificationRepo, hub, logg)
	requireResource(ctx, logg, "order notification consumer", err)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			logg.Error(ctx, "order notification consumer stopped", err)
		}
	}()

	services := buildServices(ctx, cfg, logg, dbClient, notificationRepo, registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"instance":       instance.GetID(),
		"auth_protected": cfg.Auth.ProtectionEnabled(),
		"gateway":        services.Gateway != nil,
	})

	// WriteTimeout stays unset: realtime streams hold the response open.
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Hub:      hub,
			Gatherer: registry,
			Services: services,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "api server shutdown failed", err)
		}
	}()

	logg.Info(serverCtx, "starting api server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(serverCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(serverCtx, "api server shut down")
}

func buildServices(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client, notificationRepo notifications.Repository, reg prometheus.Registerer) routes.Services {
	gormDB := dbClient.DB()

	warehouseSvc, err := warehouses.NewService(warehouses.NewRepository(gormDB))
	requireResource(ctx, logg, "warehouses service", err)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(gormDB))
	requireResource(ctx, logg, "catalog service", err)

	orderSvc, err := orders.NewService(orders.NewRepository(gormDB), dbClient)
	requireResource(ctx, logg, "orders service", err)

	customerSvc, err := customers.NewService(customers.NewRepository(gormDB))
	requireResource(ctx, logg, "customers service", err)

	memberRepo := members.NewRepository(gormDB)
	memberSvc, err := members.NewService(memberRepo, dbClient)
	requireResource(ctx, logg, "members service", err)

	paymentSvc, err := paymentmethods.NewService(paymentmethods.ServiceParams{Repo: paymentmethods.NewRepository(gormDB)})
	requireResource(ctx, logg, "payment methods service", err)

	bannerSvc, err := banners.NewService(banners.NewRepository(gormDB))
	requireResource(ctx, logg, "banners service", err)

	notificationSvc, err := notifications.NewService(notificationRepo)
	requireResource(ctx, logg, "notifications service", err)

	reportSvc, err := reports.NewService(reports.NewRepository(gormDB), orderSvc)
	requireResource(ctx, logg, "reports service", err)

	services := routes.Services{
		Warehouses:     warehouseSvc,
		Catalog:        catalogSvc,
		Orders:         orderSvc,
		Customers:      customerSvc,
		Members:        memberSvc,
		PaymentMethods: paymentSvc,
		Banners:        bannerSvc,
		Notifications:  notificationSvc,
		Reports:        reportSvc,
	}

	if !cfg.Auth.GatewayEnabled() {
		logg.Warn(ctx, "auth provider service role key not configured: member invites are disabled")
		return services
	}
	provider, err := authprovider.NewClient(cfg.Auth.ProviderURL, cfg.Auth.ServiceRoleKey, authprovider.WithTimeout(cfg.Auth.Timeout))
	requireResource(ctx, logg, "auth provider client", err)
	gatewaySvc, err := gateway.NewService(gateway.ServiceParams{
		Provider:       provider,
		Members:        memberRepo,
		Tx:             dbClient,
		Metrics:        metrics.NewGatewayMetrics(reg),
		Logger:         logg,
		InviteRedirect: cfg.Auth.InviteRedirect,
	})
	requireResource(ctx, logg, "gateway service", err)
	services.Gateway = gatewaySvc
	return services
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
