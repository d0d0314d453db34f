//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	platformpg "sepacheck/internal/platform/postgres"
	audit "sepacheck/pkg/platform/audit"
	"sepacheck/pkg/platform/audit/store/postgres"
	txcontext "sepacheck/pkg/platform/tx"
	"sepacheck/pkg/testutil/containers"
)

type StoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(platformpg.Migrate(context.Background(), s.pg.DB))
	s.store = postgres.New(s.pg.DB)
}

func (s *StoreSuite) SetupTest() {
	_, err := s.pg.DB.Exec(`TRUNCATE validation_audit`)
	s.Require().NoError(err)
}

func (s *StoreSuite) event(reportID string, at time.Time) audit.Event {
	return audit.Event{
		ID:         uuid.NewString(),
		Timestamp:  at,
		Action:     audit.ActionRecordValidated,
		ReportID:   reportID,
		RequestID:  "req-1",
		Version:    "pain.008.002.02",
		Valid:      false,
		FieldCount: 5,
		Invalid:    []string{"iban", "seqtp"},
		ClientIP:   "10.0.0.1",
	}
}

func (s *StoreSuite) TestAppendAndListByReport() {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	first := s.event("r-1", base)
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, s.event("r-1", base.Add(time.Minute))))
	s.Require().NoError(s.store.Append(ctx, s.event("r-2", base)))

	s.Run("duplicate id is ignored", func() {
		s.Require().NoError(s.store.Append(ctx, first))
	})

	events, err := s.store.ListByReport(ctx, "r-1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(first.ID, events[0].ID)
	s.Equal([]string{"iban", "seqtp"}, events[0].Invalid)
	s.Empty(events[0].Missing)
	s.True(base.Equal(events[0].Timestamp))
}

func (s *StoreSuite) TestListRecent() {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := range 3 {
		s.Require().NoError(s.store.Append(ctx, s.event("r", base.Add(time.Duration(i)*time.Minute))))
	}

	events, err := s.store.ListRecent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.True(events[0].Timestamp.After(events[1].Timestamp))
}

func (s *StoreSuite) TestAppendJoinsTransaction() {
	ctx := context.Background()
	e := s.event("r-tx", time.Now().UTC())

	err := txcontext.Run(ctx, s.pg.DB, func(ctx context.Context) error {
		if err := s.store.Append(ctx, e); err != nil {
			return err
		}
		return context.Canceled
	})
	s.Require().ErrorIs(err, context.Canceled)

	events, err := s.store.ListByReport(ctx, "r-tx")
	s.Require().NoError(err)
	s.Empty(events, "rolled back with the transaction")
}
