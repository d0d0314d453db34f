//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"sepacheck/internal/validation/models"
	"sepacheck/internal/validation/store"
	"sepacheck/pkg/platform/sentinel"
	"sepacheck/pkg/sepa/field"
	"sepacheck/pkg/testutil/containers"
)

type RedisReportStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisReportStore
}

func TestRedisReportStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisReportStoreSuite))
}

func (s *RedisReportStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedisReportStore(s.redis.Client, time.Minute)
}

func (s *RedisReportStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisReportStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	report := &models.Report{
		ID:        "r-1",
		CreatedAt: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		Version:   "pain.008.002.02",
		Valid:     true,
		Values: field.Record{
			"iban":     field.Text("DE89370400440532013000"),
			"instdamt": field.Number(decimal.RequireFromString("2.34")),
			"pstladr": field.Group(map[string]field.Value{
				"ctry":    field.Text("DE"),
				"adrline": field.Lines("Hauptstr. 1", "10115 Berlin"),
			}),
		},
		Invalid: []string{},
		Missing: []string{},
	}
	s.Require().NoError(s.store.Save(ctx, report))

	got, err := s.store.Get(ctx, "r-1")
	s.Require().NoError(err)
	s.True(report.CreatedAt.Equal(got.CreatedAt))
	s.Equal(report.Version, got.Version)
	s.Require().Len(got.Values, 3)
	for k, v := range report.Values {
		s.True(v.Equal(got.Values[k]), k)
	}

	ttl, err := s.redis.Client.TTL(ctx, "sepacheck:report:r-1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisReportStoreSuite) TestNotFound() {
	_, err := s.store.Get(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
