package kafka

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// ConsumerConfig selects what a Consumer reads.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	// FromStart replays retained history instead of only new events.
	FromStart bool
}

// Reader abstracts kafka.Reader for testing.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RefreshedHandler receives decoded refreshed events.
type RefreshedHandler func(ctx context.Context, evt *dataset.RefreshedEvent) error

// ErrStopConsuming is returned by a handler to end Consume after the current
// message.  The message is committed and Consume returns nil.
var ErrStopConsuming = stderrors.New("stop consuming")

// Consumer reads refreshed events in offset order.
type Consumer struct {
	reader    Reader
	logger    logging.Logger
	backoff   time.Duration
	consumed  atomic.Int64
	malformed atomic.Int64
}

// NewConsumer builds a kafka.Reader in consumer group cfg.GroupID.
func NewConsumer(cfg ConsumerConfig, log logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Topic == "" {
		cfg.Topic = TopicDatasetRefreshed
	}
	start := kafka.LastOffset
	if cfg.FromStart {
		start = kafka.FirstOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    1,
		MaxBytes:    1024 * 1024,
		MaxWait:     time.Second,
		StartOffset: start,
	})
	return NewConsumerWithReader(reader, log), nil
}

// NewConsumerWithReader wraps an existing reader.
func NewConsumerWithReader(r Reader, log logging.Logger) *Consumer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Consumer{reader: r, logger: log.Named("kafka"), backoff: time.Second}
}

// Consume feeds events to handle until ctx ends, handle fails or handle
// returns ErrStopConsuming.  Malformed messages are logged and committed so
// they are not redelivered.  It returns nil when ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context, handle RefreshedHandler) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("fetch message failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.backoff):
			}
			continue
		}
		c.consumed.Add(1)

		stop := false
		evt, err := DecodeRefreshed(m.Value)
		if err != nil {
			c.malformed.Add(1)
			c.logger.Warn("skipping malformed event",
				logging.String("topic", m.Topic),
				logging.Int64("offset", m.Offset),
				logging.Err(err))
		} else if err := handle(ctx, evt); err != nil {
			if !stderrors.Is(err, ErrStopConsuming) {
				return errors.Wrap(err, errors.CodeUnknown, "event handler failed")
			}
			stop = true
		}

		c.commit(ctx, m)
		if stop {
			return nil
		}
	}
}

func (c *Consumer) commit(ctx context.Context, m kafka.Message) {
	if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
		c.logger.Warn("commit failed", logging.Int64("offset", m.Offset), logging.Err(err))
	}
}

// Consumed returns the number of messages fetched, and how many of them
// could not be decoded.
func (c *Consumer) Consumed() (total, malformed int64) {
	return c.consumed.Load(), c.malformed.Load()
}

// Close closes the reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// ValidateConsumerConfig checks cfg.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.InvalidParam("kafka brokers required")
	}
	if cfg.GroupID == "" {
		return errors.InvalidParam("consumer group required")
	}
	return nil
}

//Personal.AI order the ending
