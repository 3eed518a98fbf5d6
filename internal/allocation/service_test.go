package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/tx"
	"fundbook/pkg/requestcontext"

	"fundbook/internal/ledger"
)

// =============================================================================
// Allocation Service Test Suite
// =============================================================================
// Justification for unit tests: the anti-leverage rule compares the proposed
// allocation against a live valuation inside a transaction. Driving it with a
// real ledger at a pinned clock makes the exact-boundary case deterministic.

type AllocationServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
}

func TestAllocationServiceSuite(t *testing.T) {
	suite.Run(t, new(AllocationServiceSuite))
}

// setup seeds a fund worth exactly 200 at the pinned clock.
func (s *AllocationServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()

	ledgerStore := ledger.NewInMemoryStore()
	ledgerSvc, err := ledger.New(ledgerStore)
	s.Require().NoError(err)

	_, err = ledgerSvc.Inject(s.ctx(), ledger.KindPrincipal, 200, "seed")
	s.Require().NoError(err)

	s.service, err = New(s.store, ledgerSvc, tx.NewSerialRunner())
	s.Require().NoError(err)
}

// ctx pins the clock to the seeding day so the valuation stays at par.
func (s *AllocationServiceSuite) ctx() context.Context {
	at := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	return requestcontext.WithTime(context.Background(), at)
}

// =============================================================================
// Set Tests
// =============================================================================

func (s *AllocationServiceSuite) TestSet() {
	s.Run("empty asset name is rejected", func() {
		err := s.service.Set(s.ctx(), "", 50)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("allocation inside the fund value succeeds", func() {
		s.Require().NoError(s.service.Set(s.ctx(), "equities", 120))

		allocs, err := s.service.List(s.ctx())
		s.Require().NoError(err)
		s.Require().Len(allocs, 1)
		s.Equal("equities", allocs[0].Asset)
		s.Equal(120.0, allocs[0].Amount)
	})

	s.Run("allocation exactly at the fund value succeeds", func() {
		s.Require().NoError(s.service.Set(s.ctx(), "bonds", 80))
	})

	s.Run("allocation over the fund value is rejected", func() {
		err := s.service.Set(s.ctx(), "crypto", 1)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeOverAllocated))
	})

	s.Run("rejected allocation leaves the book unchanged", func() {
		allocs, err := s.service.List(s.ctx())
		s.Require().NoError(err)
		s.Len(allocs, 2)
	})
}

func (s *AllocationServiceSuite) TestSetReplacesExisting() {
	s.Require().NoError(s.service.Set(s.ctx(), "equities", 150))

	// Raising the same asset re-counts only the other allocations, so 180
	// fits even though 150 + 180 would not.
	s.Require().NoError(s.service.Set(s.ctx(), "equities", 180))

	allocs, err := s.service.List(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(allocs, 1)
	s.Equal(180.0, allocs[0].Amount)
}

func (s *AllocationServiceSuite) TestSetClearsOnNonPositiveAmount() {
	s.Require().NoError(s.service.Set(s.ctx(), "equities", 150))

	s.Run("zero clears the allocation", func() {
		s.Require().NoError(s.service.Set(s.ctx(), "equities", 0))

		allocs, err := s.service.List(s.ctx())
		s.Require().NoError(err)
		s.Empty(allocs)
	})

	s.Run("clearing an absent asset still succeeds", func() {
		s.NoError(s.service.Set(s.ctx(), "never-existed", -5))
	})
}

func (s *AllocationServiceSuite) TestListInsertionOrder() {
	s.Require().NoError(s.service.Set(s.ctx(), "equities", 50))
	s.Require().NoError(s.service.Set(s.ctx(), "bonds", 50))
	s.Require().NoError(s.service.Set(s.ctx(), "cash", 50))

	allocs, err := s.service.List(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(allocs, 3)
	s.Equal("equities", allocs[0].Asset)
	s.Equal("bonds", allocs[1].Asset)
	s.Equal("cash", allocs[2].Asset)
}
