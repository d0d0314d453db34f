// Package publisher fans audit events out to the audit store and any
// secondary sinks, synchronously or through a bounded buffer.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "sepacheck/pkg/platform/audit"
	"sepacheck/pkg/platform/audit/worker"
)

var (
	ErrBufferFull = errors.New("audit buffer full")
	ErrClosed     = errors.New("audit publisher closed")
)

type namedSink struct {
	name string
	sink audit.Sink
}

// Publisher writes every event to the store first. Secondary sink failures
// are logged and counted but never fail Emit.
type Publisher struct {
	store   audit.Store
	sinks   []namedSink
	sampler *Sampler
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time

	bufferSize int
	buffer     chan audit.Event
	done       chan struct{}

	mu     sync.RWMutex
	closed bool
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking with a buffer of n events.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}

// WithSink adds a secondary sink such as a Kafka topic.
func WithSink(name string, sink audit.Sink) Option {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, namedSink{name: name, sink: sink})
		}
	}
}

func WithSampler(s *Sampler) Option {
	return func(p *Publisher) { p.sampler = s }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.buffer = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		w := worker.NewWorker(sinkFunc(p.deliver), p.buffer, p.logger)
		go func() {
			defer close(p.done)
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit assigns an ID and timestamp when missing and publishes the event.
// In async mode a full buffer drops the event and returns ErrBufferFull.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if !p.sampler.Keep(event) {
		p.metrics.IncSampledOut()
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if p.buffer == nil {
		if err := p.deliver(ctx, event); err != nil {
			return err
		}
		p.metrics.IncEmitted(event.Category())
		return nil
	}

	select {
	case p.buffer <- event:
		p.metrics.IncEmitted(event.Category())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.IncDropped()
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"report_id", event.ReportID,
		)
		return ErrBufferFull
	}
}

func (p *Publisher) deliver(ctx context.Context, event audit.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	for _, s := range p.sinks {
		if err := s.sink.Append(ctx, event); err != nil {
			p.metrics.IncSinkFailure(s.name)
			p.logger.WarnContext(ctx, "audit sink failed",
				"sink", s.name,
				"event_id", event.ID,
				"error", err,
			)
		}
	}
	return nil
}

// List returns the stored events of one report.
func (p *Publisher) List(ctx context.Context, reportID string) ([]audit.Event, error) {
	return p.store.ListByReport(ctx, reportID)
}

// Recent returns the newest stored events.
func (p *Publisher) Recent(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}

// Close stops accepting events and, in async mode, waits for the buffer to drain.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.buffer != nil {
		close(p.buffer)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}

type sinkFunc func(ctx context.Context, event audit.Event) error

func (f sinkFunc) Append(ctx context.Context, event audit.Event) error { return f(ctx, event) }
