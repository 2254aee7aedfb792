// insightctl is the command-line client for the InsightBoard API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/internal/infrastructure/database/postgres"
	"github.com/turtacn/InsightBoard/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func openRecordStore(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (cli.RecordStore, func() error, error) {
	conn, err := postgres.NewConnection(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewRecordRepository(conn, log), conn.Close, nil
}

func openEventStream(cfg config.MessagingConfig, fromStart bool, log logging.Logger) (cli.EventStream, error) {
	return kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:   cfg.Brokers,
		Topic:     cfg.Topic,
		GroupID:   cfg.ConsumerGroup,
		FromStart: fromStart,
	}, log)
}

func main() {
	deps := cli.CommandDependencies{
		OpenRecordStore: openRecordStore,
		OpenEventStream: openEventStream,
	}
	if err := cli.Execute(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

//Personal.AI order the ending
