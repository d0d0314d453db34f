package memory

import (
	"context"
	"slices"
	"sync"

	audit "sepacheck/pkg/platform/audit"
)

// InMemoryStore keeps events in insertion order. Used when no database is
// configured and in tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	event.Invalid = slices.Clone(event.Invalid)
	event.Missing = slices.Clone(event.Missing)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if event.ID != "" && e.ID == event.ID {
			return nil
		}
	}
	s.events = append(s.events, event)
	return nil
}

// ListByReport returns the events of one report, oldest first.
func (s *InMemoryStore) ListByReport(_ context.Context, reportID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for _, e := range s.events {
		if e.ReportID == reportID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListRecent returns the most recent limit events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]audit.Event, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
