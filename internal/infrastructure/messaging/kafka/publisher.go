package kafka

import (
	"context"
	"encoding/json"

	"github.com/turtacn/InsightBoard/internal/domain/dataset"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// Publisher is the subset of Producer the event publisher needs.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// EventPublisher sends dataset events as JSON, keyed by source name.
type EventPublisher struct {
	producer Publisher
	topic    string
}

// NewEventPublisher publishes to topic, or TopicDatasetRefreshed when empty.
func NewEventPublisher(p Publisher, topic string) *EventPublisher {
	if topic == "" {
		topic = TopicDatasetRefreshed
	}
	return &EventPublisher{producer: p, topic: topic}
}

// Topic returns the destination topic.
func (p *EventPublisher) Topic() string { return p.topic }

// PublishRefreshed encodes evt and writes it.
func (p *EventPublisher) PublishRefreshed(ctx context.Context, evt *dataset.RefreshedEvent) error {
	if evt == nil {
		return errors.InvalidParam("nil event")
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event")
	}
	return p.producer.Publish(ctx, Message{
		Topic: p.topic,
		Key:   []byte(evt.AggregateID()),
		Value: value,
		Headers: map[string]string{
			HeaderEventType:     evt.Type,
			HeaderSchemaVersion: SchemaVersion,
		},
		Timestamp: evt.OccurredAt(),
	})
}

// DecodeRefreshed parses a message value written by PublishRefreshed.
func DecodeRefreshed(value []byte) (*dataset.RefreshedEvent, error) {
	if len(value) == 0 {
		return nil, errors.InvalidParam("empty message value")
	}
	var evt dataset.RefreshedEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal event")
	}
	return &evt, nil
}

//Personal.AI order the ending
