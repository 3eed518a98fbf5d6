//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"fundbook/internal/platform/postgres"
	"fundbook/pkg/platform/audit"
	"fundbook/pkg/testutil/containers"
)

type AuditPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *audit.PostgresStore
}

func TestAuditPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditPostgresSuite))
}

func (s *AuditPostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.postgres.DB))
	s.store = audit.NewPostgresStore(s.postgres.DB)
}

func (s *AuditPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *AuditPostgresSuite) TestAppendAndListRecent() {
	occurredAt := time.Date(2026, time.April, 3, 9, 0, 0, 0, time.UTC)
	first := audit.Event{
		ID:         uuid.New(),
		OccurredAt: occurredAt,
		Actor:      "gp",
		Action:     audit.ActionFundsInjected,
		Subject:    "PRINCIPAL",
		Detail:     "amount=500.00",
	}
	second := audit.Event{
		ID:         uuid.New(),
		OccurredAt: occurredAt.Add(time.Minute),
		Actor:      "lp",
		Action:     audit.ActionRequestCreated,
		Subject:    "request:1",
	}

	s.Require().NoError(s.store.Append(context.Background(), first))
	s.Require().NoError(s.store.Append(context.Background(), second))

	events, err := s.store.ListRecent(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	s.Equal(second.ID, events[0].ID, "listing is newest first")
	s.Equal(audit.ActionRequestCreated, events[0].Action)
	s.Equal("lp", events[0].Actor)

	s.Equal(first.ID, events[1].ID)
	s.Equal("PRINCIPAL", events[1].Subject)
	s.Equal("amount=500.00", events[1].Detail)
	s.WithinDuration(occurredAt, events[1].OccurredAt, time.Millisecond)
}

func (s *AuditPostgresSuite) TestListRecentHonorsLimit() {
	for range 5 {
		err := s.store.Append(context.Background(), audit.Event{
			ID:         uuid.New(),
			OccurredAt: time.Now(),
			Actor:      "gp",
			Action:     audit.ActionAllocationChanged,
		})
		s.Require().NoError(err)
	}

	events, err := s.store.ListRecent(context.Background(), 3)
	s.Require().NoError(err)
	s.Len(events, 3)
}
