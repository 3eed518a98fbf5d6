//go:build integration

package allocation_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"fundbook/internal/allocation"
	"fundbook/internal/platform/postgres"
	"fundbook/pkg/testutil/containers"
)

type AllocationPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *allocation.PostgresStore
}

func TestAllocationPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AllocationPostgresSuite))
}

func (s *AllocationPostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.postgres.DB))
	s.store = allocation.NewPostgresStore(s.postgres.DB)
}

func (s *AllocationPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "asset_allocations"))
}

func (s *AllocationPostgresSuite) upsert(asset string, amount float64) allocation.Allocation {
	alloc, err := s.store.Upsert(context.Background(), allocation.Allocation{Asset: asset, Amount: amount})
	s.Require().NoError(err)
	return alloc
}

func (s *AllocationPostgresSuite) TestUpsertInsertsThenUpdates() {
	first := s.upsert("equities", 120)
	s.NotZero(first.ID)

	second := s.upsert("equities", 150)
	s.Equal(first.ID, second.ID, "conflicting asset names update in place")

	listed, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.InDelta(150.0, listed[0].Amount, 1e-9)
}

func (s *AllocationPostgresSuite) TestListKeepsInsertionOrder() {
	s.upsert("equities", 120)
	s.upsert("bonds", 50)
	s.upsert("gold", 30)
	s.upsert("equities", 140)

	listed, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal("equities", listed[0].Asset, "updated rows keep their original position")
	s.Equal("bonds", listed[1].Asset)
	s.Equal("gold", listed[2].Asset)
}

func (s *AllocationPostgresSuite) TestSumExcluding() {
	s.upsert("equities", 120)
	s.upsert("bonds", 50)
	s.upsert("gold", 30)

	sum, err := s.store.SumExcluding(context.Background(), "equities")
	s.Require().NoError(err)
	s.InDelta(80.0, sum, 1e-9)

	all, err := s.store.SumExcluding(context.Background(), "not-held")
	s.Require().NoError(err)
	s.InDelta(200.0, all, 1e-9)
}

func (s *AllocationPostgresSuite) TestDeleteIsIdempotent() {
	s.upsert("equities", 120)

	s.Require().NoError(s.store.Delete(context.Background(), "equities"))
	s.Require().NoError(s.store.Delete(context.Background(), "equities"))

	listed, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Empty(listed)
}

func (s *AllocationPostgresSuite) TestConcurrentUpsertsSameAsset() {
	const goroutines = 30

	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := range goroutines {
		wg.Add(1)
		go func(amount int) {
			defer wg.Done()
			_, err := s.store.Upsert(context.Background(), allocation.Allocation{
				Asset:  "equities",
				Amount: float64(amount),
			})
			if err != nil {
				failures.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(0), failures.Load(), "upserts on one asset never conflict")

	listed, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(listed, 1, "exactly one row survives the racing upserts")
}
