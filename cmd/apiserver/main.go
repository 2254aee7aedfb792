// apiserver serves the InsightBoard HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/InsightBoard/internal/application/dashboard"
	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/infrastructure/export"
	"github.com/turtacn/InsightBoard/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/InsightBoard/internal/infrastructure/storage/minio"
	api "github.com/turtacn/InsightBoard/internal/interfaces/http"
	"github.com/turtacn/InsightBoard/internal/interfaces/http/handlers"
	"github.com/turtacn/InsightBoard/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

const (
	limiterSweepInterval = time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (environment only when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *configPath, logger); err != nil {
		logger.Error("apiserver exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, configPath string, logger logging.Logger) error {
	logger.Info("starting InsightBoard API server",
		logging.String("version", version),
		logging.String("source", cfg.Dataset.Source),
		logging.Int("port", cfg.Server.Port))

	in, err := openInfra(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer in.close()

	store := dataset.NewStore()
	var opts []dashboard.Option
	routerCfg := api.RouterConfig{
		Logger:  logger,
		Logging: middleware.DefaultLoggingConfig(),
		CORS:    middleware.DefaultCORSConfig(),
	}
	routerCfg.CORS.AllowedOrigins = cfg.Server.AllowedOrigins

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return err
		}
		metrics := prometheus.NewDashboardMetrics(collector)
		opts = append(opts, dashboard.WithMetrics(metrics))
		routerCfg.HTTPMetrics = metrics
		routerCfg.MetricsHandler = collector.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	if in.producer != nil {
		opts = append(opts, dashboard.WithPublisher(kafka.NewEventPublisher(in.producer, cfg.Messaging.Topic)))
	}

	if cfg.Storage.ExportEnabled {
		sink := minio.NewExportSink(in.storage)
		if err := sink.Ensure(ctx); err != nil {
			return err
		}
		opts = append(opts, dashboard.WithExporter(export.NewXLSXRenderer(), sink))
	}

	svc := dashboard.NewService(in.source, store, dashboard.Config{
		FetchTimeout:    cfg.Dataset.FetchTimeout,
		SlowThreshold:   cfg.Dataset.SlowThreshold,
		RefreshInterval: cfg.Dataset.RefreshInterval,
		PageSizes:       cfg.Dataset.PageSizes,
		PresignExpiry:   cfg.Storage.PresignExpiry,
	}, logger, opts...)

	checkers := append([]handlers.HealthChecker{
		handlers.CheckFunc("dataset", func(context.Context) error {
			_, err := svc.Snapshot()
			return err
		}),
	}, in.checkers...)
	routerCfg.DashboardHandler = handlers.NewDashboardHandler(svc, cfg.Dataset.DefaultPageSize, logger)
	routerCfg.HealthHandler = handlers.NewHealthHandler(version, checkers...)

	var limiter *middleware.TokenBucketLimiter
	if cfg.Server.WriteRateLimit >= 0 {
		limiter = middleware.NewTokenBucketLimiter(cfg.Server.WriteRateLimit, cfg.Server.WriteBurst)
		routerCfg.WriteLimiter = limiter
	}

	if configPath != "" {
		watchConfig(configPath, svc, logger)
	}

	server := api.NewServer(cfg.Server, api.NewRouter(routerCfg), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.Run(gctx) })
	g.Go(func() error { return server.Run(gctx) })
	if limiter != nil {
		g.Go(func() error {
			sweepLimiter(gctx, limiter)
			return nil
		})
	}
	return g.Wait()
}

// watchConfig applies log level and refresh interval changes without a
// restart.  Other settings need one.
func watchConfig(path string, svc *dashboard.Service, logger logging.Logger) {
	err := config.Watch(path, func(next *config.Config) {
		if ls, ok := logger.(logging.LevelSetter); ok {
			ls.SetLevel(next.Log.Level)
		}
		svc.SetRefreshInterval(next.Dataset.RefreshInterval)
		logger.Info("configuration reloaded",
			logging.String("log_level", next.Log.Level),
			logging.Duration("refresh_interval", next.Dataset.RefreshInterval))
	}, func(err error) {
		logger.Warn("ignoring invalid configuration change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}

func sweepLimiter(ctx context.Context, limiter *middleware.TokenBucketLimiter) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep(limiterIdleTTL)
		}
	}
}

//Personal.AI order the ending
