package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kelvin-saputra/sievo-sub000/api/routes"
	"github.com/kelvin-saputra/sievo-sub000/internal/auth"
	"github.com/kelvin-saputra/sievo-sub000/internal/budgets"
	"github.com/kelvin-saputra/sievo-sub000/internal/contacts"
	"github.com/kelvin-saputra/sievo-sub000/internal/events"
	"github.com/kelvin-saputra/sievo-sub000/internal/hr"
	"github.com/kelvin-saputra/sievo-sub000/internal/inventory"
	"github.com/kelvin-saputra/sievo-sub000/internal/memberships"
	"github.com/kelvin-saputra/sievo-sub000/internal/notifications"
	"github.com/kelvin-saputra/sievo-sub000/internal/organizations"
	"github.com/kelvin-saputra/sievo-sub000/internal/proposals"
	"github.com/kelvin-saputra/sievo-sub000/internal/purchasing"
	"github.com/kelvin-saputra/sievo-sub000/internal/tasks"
	"github.com/kelvin-saputra/sievo-sub000/internal/users"
	"github.com/kelvin-saputra/sievo-sub000/internal/vendorservices"
	"github.com/kelvin-saputra/sievo-sub000/pkg/auth/session"
	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
	"github.com/kelvin-saputra/sievo-sub000/pkg/metrics"
	"github.com/kelvin-saputra/sievo-sub000/pkg/migrate"
	"github.com/kelvin-saputra/sievo-sub000/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(context.Background(), logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	requireResource(context.Background(), logg, "dev migrations", migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient))

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(context.Background(), logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(context.Background(), logg, "session manager", err)

	conn := dbClient.DB()
	membershipRepo := memberships.NewRepository(conn)
	userRepo := users.NewRepository(conn)
	contactRepo := contacts.NewRepository(conn)

	deps := routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Sessions:    sessionManager,
		Memberships: membershipRepo,
	}

	deps.Auth, err = auth.NewService(auth.ServiceParams{
		UserRepo:        userRepo,
		MembershipsRepo: membershipRepo,
		SessionManager:  sessionManager,
		TxRunner:        dbClient,
		JWTConfig:       cfg.JWT,
		PasswordConfig:  cfg.Password,
		AllowSignup:     cfg.FeatureFlags.AllowSelfSignup,
	})
	requireResource(context.Background(), logg, "auth service", err)

	deps.Users, err = users.NewService(userRepo, cfg.Password)
	requireResource(context.Background(), logg, "users service", err)

	deps.Organizations, err = organizations.NewService(organizations.NewRepository(conn), membershipRepo, dbClient, cfg.Password)
	requireResource(context.Background(), logg, "organizations service", err)

	deps.Contacts, err = contacts.NewService(contactRepo)
	requireResource(context.Background(), logg, "contacts service", err)

	deps.Events, err = events.NewService(events.NewRepository(conn), dbClient)
	requireResource(context.Background(), logg, "events service", err)

	deps.Tasks, err = tasks.NewService(tasks.NewRepository(conn), dbClient)
	requireResource(context.Background(), logg, "tasks service", err)

	deps.HR, err = hr.NewService(hr.NewRepository(conn), dbClient)
	requireResource(context.Background(), logg, "hr service", err)

	deps.Inventory, err = inventory.NewService(inventory.NewRepository(conn))
	requireResource(context.Background(), logg, "inventory service", err)

	deps.VendorServices, err = vendorservices.NewService(vendorservices.NewRepository(conn), contactRepo)
	requireResource(context.Background(), logg, "vendor services service", err)

	deps.Purchasing, err = purchasing.NewService(purchasing.NewRepository(conn))
	requireResource(context.Background(), logg, "purchasing service", err)

	budgetService, err := budgets.NewService(budgets.NewRepository(conn), dbClient)
	requireResource(context.Background(), logg, "budgets service", err)
	deps.Budgets = budgetService

	deps.Proposals, err = proposals.NewService(proposals.NewRepository(conn), conn, budgetService)
	requireResource(context.Background(), logg, "proposals service", err)

	deps.Notifications, err = notifications.NewService(notifications.NewRepository(conn))
	requireResource(context.Background(), logg, "notifications service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)
	deps.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to initialize "+name, err)
	os.Exit(1)
}
