package store

import (
	"context"
	"sync"
	"time"

	"sepacheck/internal/validation/models"
	"sepacheck/pkg/platform/sentinel"
	"sepacheck/pkg/sepa/field"
)

type memoryEntry struct {
	report    *models.Report
	expiresAt time.Time
}

// InMemoryReportStore keeps reports in a map until their TTL elapses.
// Expired entries are removed lazily on access and by Sweep.
type InMemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// MemoryOption configures an InMemoryReportStore.
type MemoryOption func(*InMemoryReportStore)

// WithMemoryClock replaces time.Now, for tests.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryReportStore) { s.now = now }
}

// NewInMemoryReportStore creates a store. A non-positive ttl keeps reports forever.
func NewInMemoryReportStore(ttl time.Duration, opts ...MemoryOption) *InMemoryReportStore {
	s := &InMemoryReportStore{
		reports: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryReportStore) Save(_ context.Context, report *models.Report) error {
	entry := memoryEntry{report: cloneReport(report)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = entry
	return nil
}

func (s *InMemoryReportStore) Get(_ context.Context, id string) (*models.Report, error) {
	s.mu.RLock()
	entry, ok := s.reports[id]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if s.expired(entry) {
		s.mu.Lock()
		delete(s.reports, id)
		s.mu.Unlock()
		return nil, sentinel.ErrNotFound
	}
	return cloneReport(entry.report), nil
}

// Sweep drops expired reports and returns how many were removed.
func (s *InMemoryReportStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.reports {
		if s.expired(entry) {
			delete(s.reports, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of held reports, expired or not.
func (s *InMemoryReportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

func (s *InMemoryReportStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

// cloneReport copies the slices and top-level map. Values are immutable.
func cloneReport(r *models.Report) *models.Report {
	out := *r
	out.Invalid = append([]string{}, r.Invalid...)
	out.Missing = append([]string{}, r.Missing...)
	if r.Values != nil {
		out.Values = make(field.Record, len(r.Values))
		for k, v := range r.Values {
			out.Values[k] = v
		}
	}
	return &out
}
