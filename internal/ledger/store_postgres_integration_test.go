//go:build integration

package ledger_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fundbook/internal/ledger"
	"fundbook/internal/platform/postgres"
	"fundbook/pkg/testutil/containers"
)

type LedgerPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *ledger.PostgresStore
}

func TestLedgerPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LedgerPostgresSuite))
}

func (s *LedgerPostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.postgres.DB))
	s.store = ledger.NewPostgresStore(s.postgres.DB)
}

func (s *LedgerPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "transactions"))
}

func (s *LedgerPostgresSuite) append(date time.Time, kind ledger.Kind, amount float64) ledger.Transaction {
	t, err := s.store.Append(context.Background(), ledger.Transaction{
		TxDate: date,
		Kind:   kind,
		Amount: amount,
	})
	s.Require().NoError(err)
	return t
}

func (s *LedgerPostgresSuite) TestAppendAssignsIDAndNormalizesDate() {
	stamped := time.Date(2026, time.January, 5, 15, 30, 45, 0, time.UTC)
	created := s.append(stamped, ledger.KindPrincipal, 100)

	s.NotZero(created.ID)
	s.Equal(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), created.TxDate)

	listed, err := s.store.ListAscending(context.Background())
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(created.ID, listed[0].ID)
	s.Equal(ledger.KindPrincipal, listed[0].Kind)
	s.InDelta(100.0, listed[0].Amount, 1e-9)
	s.Equal(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), listed[0].TxDate)
}

func (s *LedgerPostgresSuite) TestNegativeAmountViolatesCheck() {
	_, err := s.store.Append(context.Background(), ledger.Transaction{
		TxDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		Kind:   ledger.KindPrincipal,
		Amount: -1,
	})
	s.Error(err)
}

func (s *LedgerPostgresSuite) TestListOrdering() {
	day := func(d int) time.Time { return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC) }

	s.append(day(2), ledger.KindPrincipal, 10)
	s.append(day(1), ledger.KindAlpha, 20)
	s.append(day(3), ledger.KindWithdrawal, 30)
	s.append(day(3), ledger.KindQuarterlyPayout, 40)

	asc, err := s.store.ListAscending(context.Background())
	s.Require().NoError(err)
	s.Require().Len(asc, 4)
	s.Equal(ledger.KindAlpha, asc[0].Kind)
	s.Equal(ledger.KindPrincipal, asc[1].Kind)
	s.Equal(ledger.KindWithdrawal, asc[2].Kind)
	s.Equal(ledger.KindQuarterlyPayout, asc[3].Kind, "same-day rows order by id")

	recent, err := s.store.ListRecent(context.Background(), 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(ledger.KindQuarterlyPayout, recent[0].Kind)
	s.Equal(ledger.KindWithdrawal, recent[1].Kind)
}

func (s *LedgerPostgresSuite) TestSumKindInMonth() {
	jan := func(d int) time.Time { return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC) }

	s.append(jan(5), ledger.KindWithdrawal, 30)
	s.append(jan(20), ledger.KindWithdrawal, 25)
	s.append(jan(10), ledger.KindPrincipal, 500)
	s.append(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), ledger.KindWithdrawal, 99)

	sum, err := s.store.SumKindInMonth(context.Background(), ledger.KindWithdrawal, 2026, time.January)
	s.Require().NoError(err)
	s.InDelta(55.0, sum, 1e-9, "other kinds and the next month stay out of the sum")

	feb, err := s.store.SumKindInMonth(context.Background(), ledger.KindWithdrawal, 2026, time.February)
	s.Require().NoError(err)
	s.InDelta(99.0, feb, 1e-9)

	empty, err := s.store.SumKindInMonth(context.Background(), ledger.KindWithdrawal, 2026, time.March)
	s.Require().NoError(err)
	s.InDelta(0.0, empty, 1e-9)
}

func (s *LedgerPostgresSuite) TestConcurrentAppends() {
	const goroutines = 30

	var wg sync.WaitGroup
	var failures atomic.Int32
	date := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Append(context.Background(), ledger.Transaction{
				TxDate: date,
				Kind:   ledger.KindPrincipal,
				Amount: 1,
			})
			if err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(0), failures.Load())

	listed, err := s.store.ListAscending(context.Background())
	s.Require().NoError(err)
	s.Len(listed, goroutines)

	seen := make(map[int64]bool, goroutines)
	for _, t := range listed {
		s.False(seen[t.ID], "ids must be unique")
		seen[t.ID] = true
	}
}
