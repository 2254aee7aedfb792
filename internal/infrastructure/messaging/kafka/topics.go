package kafka

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// TopicDatasetRefreshed carries one message per installed snapshot.
const TopicDatasetRefreshed = "insightboard.dataset.refreshed"

// Header names set on every event message.
const (
	HeaderEventType     = "event_type"
	HeaderSchemaVersion = "schema_version"
	SchemaVersion       = "v1"
)

// TopicSpec describes a topic to create.
type TopicSpec struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	Retention         time.Duration
	CleanupPolicy     string
}

// DatasetTopic describes the refreshed-event topic.  Consumers
// only need recent history, so retention is short.
func DatasetTopic(name string) TopicSpec {
	if name == "" {
		name = TopicDatasetRefreshed
	}
	return TopicSpec{
		Name:              name,
		NumPartitions:     3,
		ReplicationFactor: 1,
		Retention:         7 * 24 * time.Hour,
		CleanupPolicy:     "delete",
	}
}

// Conn abstracts kafka.Conn for testing.
type Conn interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager creates topics through one broker connection.
type TopicManager struct {
	conn   Conn
	logger logging.Logger
}

// NewTopicManager dials the first broker.
func NewTopicManager(ctx context.Context, brokers []string, log logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.InvalidParam("kafka brokers required")
	}
	var d kafka.Dialer
	d.Timeout = 10 * time.Second
	conn, err := d.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to dial kafka").WithDetail(brokers[0])
	}
	return NewTopicManagerWithConn(conn, log), nil
}

// NewTopicManagerWithConn wraps an open connection.
func NewTopicManagerWithConn(conn Conn, log logging.Logger) *TopicManager {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &TopicManager{conn: conn, logger: log.Named("kafka")}
}

// Ensure creates spec unless a topic of that name already exists.
func (m *TopicManager) Ensure(ctx context.Context, spec TopicSpec) error {
	if spec.Name == "" {
		return errors.InvalidParam("topic name required")
	}
	if spec.NumPartitions <= 0 || spec.ReplicationFactor <= 0 {
		return errors.InvalidParam("partitions and replication factor must be positive").WithDetail("topic=" + spec.Name)
	}
	if exists, _ := m.Exists(ctx, spec.Name); exists {
		return nil
	}

	cfg := kafka.TopicConfig{
		Topic:             spec.Name,
		NumPartitions:     spec.NumPartitions,
		ReplicationFactor: spec.ReplicationFactor,
	}
	if spec.Retention > 0 {
		cfg.ConfigEntries = append(cfg.ConfigEntries, kafka.ConfigEntry{
			ConfigName:  "retention.ms",
			ConfigValue: fmt.Sprintf("%d", spec.Retention.Milliseconds()),
		})
	}
	if spec.CleanupPolicy != "" {
		cfg.ConfigEntries = append(cfg.ConfigEntries, kafka.ConfigEntry{ConfigName: "cleanup.policy", ConfigValue: spec.CleanupPolicy})
	}

	if err := m.conn.CreateTopics(cfg); err != nil {
		if stderrors.Is(err, kafka.TopicAlreadyExists) {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create topic").WithDetail("topic=" + spec.Name)
	}
	m.logger.Info("topic created", logging.String("topic", spec.Name))
	return nil
}

// Exists reports whether name has at least one partition.
func (m *TopicManager) Exists(_ context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, err
	}
	return len(partitions) > 0, nil
}

// Close closes the broker connection.
func (m *TopicManager) Close() error {
	return m.conn.Close()
}

//Personal.AI order the ending
