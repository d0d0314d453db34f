// Package kafka streams audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "sepacheck/pkg/platform/audit"
	"sepacheck/pkg/platform/audit/publisher"
	"sepacheck/pkg/platform/circuit"
	"sepacheck/pkg/platform/sentinel"
)

// SinkName labels this sink in logs and metrics.
const SinkName = "kafka"

// Producer is the part of *kgo.Client the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher implements audit.Sink. Records are keyed by report ID so the
// events of one report stay ordered within a partition. While the circuit is
// open, events are skipped without touching the broker except for probes.
type Publisher struct {
	producer Producer
	topic    string
	breaker  *circuit.Breaker
	metrics  *publisher.Metrics
	logger   *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		if b != nil {
			p.breaker = b
		}
	}
}

func WithMetrics(m *publisher.Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func New(producer Producer, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		producer: producer,
		topic:    topic,
		breaker:  circuit.New(SinkName),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Append produces one event and waits for the broker acknowledgement.
func (p *Publisher) Append(ctx context.Context, event audit.Event) error {
	if !p.breaker.Allow() {
		return fmt.Errorf("kafka circuit open: %w", sentinel.ErrUnavailable)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	key := event.ReportID
	if key == "" {
		key = event.ID
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(key),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "category", Value: []byte(event.Category())},
		},
	}

	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.metrics.SetCircuitOpen(SinkName, true)
			p.logger.WarnContext(ctx, "kafka audit circuit opened", "topic", p.topic, "error", err)
		}
		return fmt.Errorf("produce audit event: %w", err)
	}
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.metrics.SetCircuitOpen(SinkName, false)
		p.logger.InfoContext(ctx, "kafka audit circuit closed", "topic", p.topic)
	}
	return nil
}
