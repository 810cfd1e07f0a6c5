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

	"github.com/geocoder89/homage/internal/config"
	"github.com/geocoder89/homage/internal/db"
	"github.com/geocoder89/homage/internal/domain/resource"
	httpx "github.com/geocoder89/homage/internal/http"
	"github.com/geocoder89/homage/internal/http/middlewares"
	"github.com/geocoder89/homage/internal/observability"
	"github.com/geocoder89/homage/internal/redisclient"
	"github.com/geocoder89/homage/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Env); err != nil {
		log.Error("sentry init failed", "err", err)
	}
	defer observability.FlushSentry()

	if cfg.OTLPEndpoint != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Env,
			Endpoint:    cfg.OTLPEndpoint,
			SampleRatio: cfg.TraceSampleRatio,
		})
		cancel()

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.DBMigrate {
		ctx, cancel := config.WithTimeout(30 * time.Second)
		err := db.Migrate(ctx, pool)
		cancel()

		if err != nil {
			log.Error("db migrate failed", "err", err)
			os.Exit(1)
		}
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)

	seedCtx, seedCancel := config.WithTimeout(5 * time.Second)
	created, err := db.EnsureSeedUser(seedCtx, usersRepo, cfg)
	seedCancel()

	if err != nil {
		log.Error("seed user failed", "err", err)
		os.Exit(1)
	}
	if created {
		log.Info("seed user created", "email", cfg.SeedUserEmail)
	}

	var counter middlewares.Counter = middlewares.NewMemoryCounter()

	if cfg.RedisAddr != "" {
		rdb := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		ctx, cancel := config.WithTimeout(2 * time.Second)
		err := rdb.Ping(ctx)
		cancel()

		if err != nil {
			log.Warn("redis unreachable, rate limits fall back to memory", "addr", cfg.RedisAddr, "err", err)
		} else {
			counter = rdb
		}
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, httpx.Dependencies{
		Users:       usersRepo,
		Tokens:      postgres.NewTokensRepo(pool, prom),
		Roles:       postgres.NewResourcesRepo(pool, resource.Role, prom),
		Teams:       postgres.NewResourcesRepo(pool, resource.Team, prom),
		RateCounter: counter,
		Ping:        func(ctx context.Context) error { return pool.Ping(ctx) },
		Prom:        prom,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
