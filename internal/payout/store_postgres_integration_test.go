//go:build integration

package payout_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fundbook/internal/payout"
	"fundbook/internal/platform/postgres"
	"fundbook/pkg/platform/sentinel"
	"fundbook/pkg/testutil/containers"
)

type PayoutPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *payout.PostgresStore
}

func TestPayoutPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PayoutPostgresSuite))
}

func (s *PayoutPostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.postgres.DB))
	s.store = payout.NewPostgresStore(s.postgres.DB)
}

func (s *PayoutPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "quarterly_events"))
}

var issuedAt = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func (s *PayoutPostgresSuite) TestLatestOnEmptyTable() {
	_, err := s.store.Latest(context.Background())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PayoutPostgresSuite) TestInsertAndLatest() {
	created, err := s.store.Insert(context.Background(), payout.Event{
		IssuedAt: issuedAt,
		Status:   payout.StatusActive,
	})
	s.Require().NoError(err)
	s.NotZero(created.ID)

	got, err := s.store.Latest(context.Background())
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal(payout.StatusActive, got.Status)
	s.WithinDuration(issuedAt, got.IssuedAt, time.Millisecond)
	s.Nil(got.ClaimedAt, "unclaimed windows carry no claim timestamp")
}

func (s *PayoutPostgresSuite) TestLatestReturnsNewestEvent() {
	_, err := s.store.Insert(context.Background(), payout.Event{IssuedAt: issuedAt, Status: payout.StatusExpired})
	s.Require().NoError(err)
	second, err := s.store.Insert(context.Background(), payout.Event{IssuedAt: issuedAt.Add(time.Hour), Status: payout.StatusActive})
	s.Require().NoError(err)

	got, err := s.store.Latest(context.Background())
	s.Require().NoError(err)
	s.Equal(second.ID, got.ID)
}

func (s *PayoutPostgresSuite) TestUpdateSettlesClaim() {
	created, err := s.store.Insert(context.Background(), payout.Event{IssuedAt: issuedAt, Status: payout.StatusActive})
	s.Require().NoError(err)

	claimedAt := issuedAt.Add(24 * time.Hour)
	created.Status = payout.StatusClaimed
	created.ClaimedAt = &claimedAt
	s.Require().NoError(s.store.Update(context.Background(), created))

	got, err := s.store.Latest(context.Background())
	s.Require().NoError(err)
	s.Equal(payout.StatusClaimed, got.Status)
	s.Require().NotNil(got.ClaimedAt)
	s.WithinDuration(claimedAt, *got.ClaimedAt, time.Millisecond)
}

func (s *PayoutPostgresSuite) TestUpdateMissing() {
	err := s.store.Update(context.Background(), payout.Event{ID: 9999, Status: payout.StatusExpired})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PayoutPostgresSuite) TestExpireActive() {
	_, err := s.store.Insert(context.Background(), payout.Event{IssuedAt: issuedAt, Status: payout.StatusActive})
	s.Require().NoError(err)
	_, err = s.store.Insert(context.Background(), payout.Event{IssuedAt: issuedAt.Add(time.Hour), Status: payout.StatusActive})
	s.Require().NoError(err)

	claimedAt := issuedAt.Add(2 * time.Hour)
	_, err = s.store.Insert(context.Background(), payout.Event{
		IssuedAt:  issuedAt.Add(2 * time.Hour),
		Status:    payout.StatusClaimed,
		ClaimedAt: &claimedAt,
	})
	s.Require().NoError(err)

	expired, err := s.store.ExpireActive(context.Background())
	s.Require().NoError(err)
	s.Equal(2, expired, "only active windows expire")

	got, err := s.store.Latest(context.Background())
	s.Require().NoError(err)
	s.Equal(payout.StatusClaimed, got.Status, "settled windows are left alone")
}
