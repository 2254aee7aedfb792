package main

import (
	"context"
	"fmt"

	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/infrastructure/database/postgres"
	"github.com/turtacn/InsightBoard/internal/infrastructure/database/redis"
	"github.com/turtacn/InsightBoard/internal/infrastructure/datasource"
	"github.com/turtacn/InsightBoard/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/internal/infrastructure/storage/minio"
	"github.com/turtacn/InsightBoard/internal/interfaces/http/handlers"
)

// infra holds the connections opened for one server process.
type infra struct {
	logger logging.Logger

	source   dataset.Source
	db       *postgres.Connection
	cache    *redis.Client
	storage  *minio.Client
	producer *kafka.Producer

	checkers []handlers.HealthChecker
	closers  []func() error
}

func (in *infra) onClose(fn func() error) {
	in.closers = append(in.closers, fn)
}

// close releases resources in reverse order of acquisition.
func (in *infra) close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil {
			in.logger.Warn("close failed", logging.Err(err))
		}
	}
}

// openInfra connects every backend cfg enables and builds the dataset
// source.  On error the connections opened so far are already closed.
func openInfra(ctx context.Context, cfg *config.Config, logger logging.Logger) (_ *infra, err error) {
	in := &infra{logger: logger}
	defer func() {
		if err != nil {
			in.close()
		}
	}()

	if cfg.NeedsDatabase() {
		if in.db, err = postgres.NewConnection(ctx, cfg.Database, logger); err != nil {
			return nil, err
		}
		in.onClose(in.db.Close)
		in.checkers = append(in.checkers, handlers.CheckFunc("postgres", in.db.HealthCheck))
	}

	if cfg.NeedsStorage() {
		if in.storage, err = minio.NewClient(ctx, cfg.Storage, logger); err != nil {
			return nil, err
		}
		in.onClose(in.storage.Close)
		in.checkers = append(in.checkers, handlers.CheckFunc("minio", in.storage.HealthCheck))
	}

	if in.source, err = buildSource(ctx, cfg, in); err != nil {
		return nil, err
	}

	if cfg.Cache.Enabled {
		if in.cache, err = redis.NewClient(cfg.Cache, logger); err != nil {
			return nil, err
		}
		in.onClose(in.cache.Close)
		in.checkers = append(in.checkers, handlers.CheckFunc("redis", in.cache.HealthCheck))
		in.source = redis.NewCachedSource(in.source, in.cache,
			redis.WithPrefix(cfg.Cache.KeyPrefix),
			redis.WithTTL(cfg.Cache.TTL),
			redis.WithLogger(logger))
	}

	if cfg.Messaging.Enabled {
		if in.producer, err = kafka.NewProducer(cfg.Messaging, logger); err != nil {
			return nil, err
		}
		in.onClose(in.producer.Close)
		ensureTopic(ctx, cfg.Messaging, logger)
	}
	return in, nil
}

func buildSource(ctx context.Context, cfg *config.Config, in *infra) (dataset.Source, error) {
	switch cfg.Dataset.Source {
	case config.SourceHTTP:
		return datasource.NewHTTPSource(cfg.Dataset.URL, cfg.Dataset.FetchTimeout, datasource.WithLogger(in.logger))
	case config.SourceFile:
		return datasource.NewFileSource(cfg.Dataset.File), nil
	case config.SourcePostgres:
		repo := postgres.NewRecordRepository(in.db, in.logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case config.SourceMinIO:
		return minio.NewObjectSource(in.storage, cfg.Dataset.Bucket, cfg.Dataset.Object), nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}

// ensureTopic creates the event topic when the broker allows it.  Brokers
// that auto-create topics or deny admin requests still accept publishes, so
// failures are only logged.
func ensureTopic(ctx context.Context, cfg config.MessagingConfig, logger logging.Logger) {
	tm, err := kafka.NewTopicManager(ctx, cfg.Brokers, logger)
	if err != nil {
		logger.Warn("kafka topic manager unavailable", logging.Err(err))
		return
	}
	defer tm.Close()
	if err := tm.Ensure(ctx, kafka.DatasetTopic(cfg.Topic)); err != nil {
		logger.Warn("failed to ensure event topic", logging.String("topic", cfg.Topic), logging.Err(err))
	}
}

//Personal.AI order the ending
