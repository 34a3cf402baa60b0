package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/nhc-marketplace/storefront/api"
	"github.com/nhc-marketplace/storefront/api/controllers"
	"github.com/nhc-marketplace/storefront/api/middleware"
	"github.com/nhc-marketplace/storefront/api/routes"
	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/categories"
	"github.com/nhc-marketplace/storefront/internal/cron"
	"github.com/nhc-marketplace/storefront/internal/locale"
	"github.com/nhc-marketplace/storefront/internal/workspace"
	"github.com/nhc-marketplace/storefront/pkg/config"
	"github.com/nhc-marketplace/storefront/pkg/db"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/metrics"
	"github.com/nhc-marketplace/storefront/pkg/redis"
	"github.com/nhc-marketplace/storefront/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// backend is the session store chosen by STOREFRONT_STORAGE_DRIVER plus what
// the router needs from it.
type backend struct {
	store      storage.Backend
	rateLimits middleware.RateLimitStore
	pingers    map[string]controllers.Pinger
	closers    []func() error
}

func (b *backend) Close() error {
	var err error
	for _, c := range b.closers {
		err = multierr.Append(err, c())
	}
	return err
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "storefront stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "storefront shut down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	apiMetrics := metrics.NewAPIMetrics(reg)
	coordinatorMetrics := metrics.NewCoordinatorMetrics(reg)
	jobMetrics := metrics.NewJobMetrics(reg)

	store, err := openBackend(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	client, err := apiclient.New(apiclient.Options{
		Config:  cfg.API,
		Metrics: apiMetrics,
		Logger:  logg,
	})
	if err != nil {
		return err
	}
	translations, err := locale.DefaultCatalog()
	if err != nil {
		return err
	}
	loader, err := categories.NewLoader(categories.LoaderParams{
		Source:  client,
		TTL:     cfg.Catalog.CategoryCacheTTL,
		Timeout: cfg.API.Timeout,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	workspaces, err := workspace.NewRegistry(workspace.RegistryParams{
		Deps: workspace.Deps{
			Config:       cfg,
			Backend:      store.store,
			API:          client,
			Categories:   loader,
			Translations: translations,
			Metrics:      coordinatorMetrics,
			Logger:       logg,
		},
		IdleTTL: cfg.Workspace.IdleTTL,
	})
	if err != nil {
		return err
	}
	defer workspaces.Close()

	housekeeping, err := newHousekeeping(cfg, logg, jobMetrics, workspaces, loader)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr: addr,
		Handler: api.NewHandler(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			Workspaces: workspaces,
			RateLimits: store.rateLimits,
			Pingers:    store.pingers,
			Metrics:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Driver,
	})
	logg.Info(runCtx, "starting storefront server")

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := housekeeping.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newHousekeeping(cfg *config.Config, logg *logger.Logger, jobMetrics *metrics.JobMetrics, workspaces *workspace.Registry, loader *categories.Loader) (*cron.Service, error) {
	sweep, err := cron.NewWorkspaceSweepJob(workspaces, logg)
	if err != nil {
		return nil, err
	}
	jobs := cron.NewRegistry(sweep)
	if cfg.Catalog.CategoryCacheTTL > 0 {
		refresh, err := cron.NewCategoryRefreshJob(loader)
		if err != nil {
			return nil, err
		}
		jobs.Register(refresh)
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Metrics:  jobMetrics,
		Interval: cfg.Workspace.SweepInterval,
	})
}

func openBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		store, err := storage.NewRedis(client, cfg.Redis.StateTTL)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &backend{
			store:      store,
			rateLimits: client,
			pingers:    map[string]controllers.Pinger{"redis": client},
			closers:    []func() error{client.Close},
		}, nil
	case config.StorageDriverSQLite:
		client, err := db.New(ctx, cfg.SQLite, logg, storage.Models()...)
		if err != nil {
			return nil, err
		}
		store, err := storage.NewSQLite(client)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &backend{
			store:   store,
			pingers: map[string]controllers.Pinger{"sqlite": client},
			closers: []func() error{client.Close},
		}, nil
	default:
		return &backend{store: storage.NewMemory()}, nil
	}
}
