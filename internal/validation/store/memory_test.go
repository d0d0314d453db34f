package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sepacheck/internal/validation/models"
	"sepacheck/pkg/platform/sentinel"
	"sepacheck/pkg/sepa/field"
)

func sampleReport(id string) *models.Report {
	return &models.Report{
		ID:      id,
		Valid:   false,
		Values:  field.Record{"iban": field.Text("DE89370400440532013000")},
		Invalid: []string{"bic"},
		Missing: []string{},
	}
}

func TestInMemoryReportStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	s := NewInMemoryReportStore(time.Hour, WithMemoryClock(func() time.Time { return now }))

	require.NoError(t, s.Save(ctx, sampleReport("r-1")))

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := s.Get(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"bic"}, got.Invalid)

		got.Invalid[0] = "mutated"
		got.Values["iban"] = field.Text("changed")

		again, err := s.Get(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"bic"}, again.Invalid)
		assert.True(t, again.Values["iban"].Equal(field.Text("DE89370400440532013000")))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		now = now.Add(time.Hour)
		_, err := s.Get(ctx, "r-1")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.Equal(t, 0, s.Len())
	})
}

func TestInMemoryReportStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	s := NewInMemoryReportStore(time.Minute, WithMemoryClock(func() time.Time { return now }))

	require.NoError(t, s.Save(ctx, sampleReport("old")))
	now = now.Add(30 * time.Second)
	require.NoError(t, s.Save(ctx, sampleReport("new")))
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
	_, err := s.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestInMemoryReportStoreWithoutTTL(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryReportStore(0)
	require.NoError(t, s.Save(ctx, sampleReport("r-1")))
	assert.Equal(t, 0, s.Sweep())
	_, err := s.Get(ctx, "r-1")
	assert.NoError(t, err)
}
