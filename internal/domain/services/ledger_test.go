package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

type fakeCreditRepo struct {
	balance int
	// lastAmount is what RefundReservation restores; the tests reserve one
	// amount at a time so a single field is enough.
	lastAmount int

	reserveErr error
	commitErr  error

	reserved []string
	commits  []string
	refunds  []string
}

func (f *fakeCreditRepo) ReserveCredits(_ context.Context, reservationID string, _ int64, amount int) (int, error) {
	if f.reserveErr != nil {
		return 0, f.reserveErr
	}
	if f.balance < amount {
		return 0, repositories.ErrInsufficientBalance
	}
	f.balance -= amount
	f.reserved = append(f.reserved, reservationID)
	return f.balance, nil
}

func (f *fakeCreditRepo) CommitReservation(_ context.Context, reservationID string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, reservationID)
	return nil
}

func (f *fakeCreditRepo) RefundReservation(_ context.Context, reservationID string) error {
	f.balance += f.lastAmount
	f.refunds = append(f.refunds, reservationID)
	return nil
}

func (f *fakeCreditRepo) RefundStaleReservations(context.Context, int) (int, error) {
	return 0, nil
}

func (f *fakeCreditRepo) AddCredits(_ context.Context, _ int64, amount int) (int, error) {
	f.balance += amount
	return f.balance, nil
}

func (f *fakeCreditRepo) GetBalance(context.Context, int64) (int, error) {
	return f.balance, nil
}

func newTestLedger(repo repositories.CreditRepository) *CreditLedger {
	return NewCreditLedger(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLedgerReserveAndCommit(t *testing.T) {
	repo := &fakeCreditRepo{balance: 10}
	ledger := newTestLedger(repo)

	res, err := ledger.Reserve(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Remaining)
	assert.Equal(t, 3, res.Amount)
	assert.NotEmpty(t, res.ID)

	require.NoError(t, res.Commit(context.Background()))
	assert.Equal(t, []string{res.ID}, repo.commits)
	assert.Empty(t, repo.refunds)
}

func TestLedgerReserveInsufficient(t *testing.T) {
	repo := &fakeCreditRepo{balance: 2}
	ledger := newTestLedger(repo)

	_, err := ledger.Reserve(context.Background(), 1, 5)
	require.Error(t, err)

	appErr := apperrors.FromError(err)
	assert.Equal(t, apperrors.KindInsufficientCredits, appErr.Kind)
	assert.Equal(t, 2, appErr.Details["available"])
	assert.Equal(t, 5, appErr.Details["required"])
}

func TestLedgerReserveRejectsNonPositive(t *testing.T) {
	ledger := newTestLedger(&fakeCreditRepo{balance: 10})

	_, err := ledger.Reserve(context.Background(), 1, 0)
	assert.Error(t, err)
	_, err = ledger.Reserve(context.Background(), 1, -3)
	assert.Error(t, err)
}

func TestReservationSettlesExactlyOnce(t *testing.T) {
	repo := &fakeCreditRepo{balance: 10, lastAmount: 3}
	ledger := newTestLedger(repo)

	res, err := ledger.Reserve(context.Background(), 1, 3)
	require.NoError(t, err)

	require.NoError(t, res.Commit(context.Background()))

	// Refund after commit is a no-op; the money stays spent.
	res.Refund(context.Background())
	assert.Empty(t, repo.refunds)
	assert.Equal(t, 7, repo.balance)

	// A second commit is also a no-op.
	require.NoError(t, res.Commit(context.Background()))
	assert.Len(t, repo.commits, 1)
}

func TestReservationRefundRestoresBalance(t *testing.T) {
	repo := &fakeCreditRepo{balance: 10, lastAmount: 4}
	ledger := newTestLedger(repo)

	res, err := ledger.Reserve(context.Background(), 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, repo.balance)

	res.Refund(context.Background())
	assert.Equal(t, 10, repo.balance, "refund must restore the reserved amount")

	// Commit after refund must not close the row.
	require.NoError(t, res.Commit(context.Background()))
	assert.Empty(t, repo.commits)
}

func TestLedgerAddCreditsValidation(t *testing.T) {
	ledger := newTestLedger(&fakeCreditRepo{balance: 10})

	_, err := ledger.AddCredits(context.Background(), 1, -5)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.FromError(err).Kind)

	balance, err := ledger.AddCredits(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)
}

func TestLedgerReserveWrapsRepoErrors(t *testing.T) {
	repo := &fakeCreditRepo{balance: 10, reserveErr: errors.New("db down")}
	ledger := newTestLedger(repo)

	_, err := ledger.Reserve(context.Background(), 1, 3)
	require.Error(t, err)
	assert.NotEqual(t, apperrors.KindInsufficientCredits, apperrors.FromError(err).Kind)
}

// lockedCreditRepo serializes balance mutations with a mutex, standing in
// for the row lock the guarded UPDATE takes in postgres.
type lockedCreditRepo struct {
	mu      sync.Mutex
	balance int
	open    map[string]int
}

func (f *lockedCreditRepo) ReserveCredits(_ context.Context, id string, _ int64, amount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balance < amount {
		return 0, repositories.ErrInsufficientBalance
	}
	f.balance -= amount
	f.open[id] = amount
	return f.balance, nil
}

func (f *lockedCreditRepo) CommitReservation(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.open, id)
	return nil
}

func (f *lockedCreditRepo) RefundReservation(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if amount, ok := f.open[id]; ok {
		f.balance += amount
		delete(f.open, id)
	}
	return nil
}

func (f *lockedCreditRepo) RefundStaleReservations(context.Context, int) (int, error) {
	return 0, nil
}

func (f *lockedCreditRepo) AddCredits(_ context.Context, _ int64, amount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balance += amount
	return f.balance, nil
}

func (f *lockedCreditRepo) GetBalance(context.Context, int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balance, nil
}

func TestLedgerConcurrentInterleavings(t *testing.T) {
	const (
		start   = 60
		cost    = 3
		workers = 40
	)
	repo := &lockedCreditRepo{balance: start, open: make(map[string]int)}
	ledger := newTestLedger(repo)

	var committed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := ledger.Reserve(context.Background(), 1, cost)
			if err != nil {
				return
			}
			if i%2 == 0 {
				if res.Commit(context.Background()) == nil {
					committed.Add(cost)
				}
				return
			}
			res.Refund(context.Background())
		}(i)
	}
	wg.Wait()

	final, err := ledger.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, final, 0, "balance can never go negative")
	assert.Equal(t, start-int(committed.Load()), final,
		"final balance must equal the start minus exactly the committed costs")
	assert.Empty(t, repo.open, "every reservation must settle")
}
