package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

// staleReservationSeconds is how long a reservation may stay open before
// the sweeper assumes the process holding it died and refunds it.
const staleReservationSeconds = 120

// Reservation is the handle returned by Reserve. Exactly one of Commit or
// Refund settles it; the other becomes a no-op.
type Reservation struct {
	ID        string
	UserID    int64
	Amount    int
	Remaining int

	ledger  *CreditLedger
	settled bool
}

// CreditLedger is the single writer of users.credits. All mutations go
// through the guarded SQL in CreditRepository, so concurrent requests on
// the same user serialize on the row lock.
type CreditLedger struct {
	repo   repositories.CreditRepository
	logger *slog.Logger
	cron   *cron.Cron
}

func NewCreditLedger(repo repositories.CreditRepository, logger *slog.Logger) *CreditLedger {
	return &CreditLedger{repo: repo, logger: logger}
}

func (l *CreditLedger) Reserve(ctx context.Context, userID int64, amount int) (*Reservation, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("reserve amount must be positive, got %d", amount)
	}

	id := uuid.New().String()
	remaining, err := l.repo.ReserveCredits(ctx, id, userID, amount)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			available, balErr := l.repo.GetBalance(ctx, userID)
			if balErr != nil {
				available = 0
			}
			return nil, apperrors.InsufficientCredits(available, amount)
		}
		return nil, fmt.Errorf("failed to reserve %d credits for user %d: %w", amount, userID, err)
	}

	return &Reservation{ID: id, UserID: userID, Amount: amount, Remaining: remaining, ledger: l}, nil
}

// Commit finalizes the debit. The balance was already decremented at
// reserve time; committing only closes the bookkeeping row.
func (r *Reservation) Commit(ctx context.Context) error {
	if r.settled {
		return nil
	}
	r.settled = true

	if err := r.ledger.repo.CommitReservation(ctx, r.ID); err != nil {
		r.ledger.logger.Error("failed to commit reservation",
			"reservation_id", r.ID, "user_id", r.UserID, "error", err)
		return err
	}
	return nil
}

// Refund restores the reserved amount. Failures are logged for
// reconciliation; the sweeper retries nothing that already settled.
func (r *Reservation) Refund(ctx context.Context) {
	if r.settled {
		return
	}
	r.settled = true

	if err := r.ledger.repo.RefundReservation(ctx, r.ID); err != nil {
		r.ledger.logger.Error("failed to refund reservation, queued for sweep",
			"reservation_id", r.ID, "user_id", r.UserID, "amount", r.Amount, "error", err)
	}
}

func (l *CreditLedger) AddCredits(ctx context.Context, userID int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, apperrors.Validation("amount must be positive")
	}
	return l.repo.AddCredits(ctx, userID, amount)
}

func (l *CreditLedger) Balance(ctx context.Context, userID int64) (int, error) {
	return l.repo.GetBalance(ctx, userID)
}

// StartSweeper refunds reservations that stayed open past the deadline,
// once a minute. Covers process crashes between reserve and settle.
func (l *CreditLedger) StartSweeper() error {
	c := cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		swept, err := l.repo.RefundStaleReservations(ctx, staleReservationSeconds)
		if err != nil {
			l.logger.Error("reservation sweep failed", "error", err)
			return
		}
		if swept > 0 {
			l.logger.Warn("refunded stale reservations", "count", swept)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reservation sweeper: %w", err)
	}
	c.Start()
	l.cron = c
	return nil
}

func (l *CreditLedger) StopSweeper() {
	if l.cron != nil {
		<-l.cron.Stop().Done()
	}
}
