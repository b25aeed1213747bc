package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

type creditRepository struct {
	db *PostgresDB
}

func NewCreditRepository(db *PostgresDB) repositories.CreditRepository {
	return &creditRepository{db: db}
}

// ReserveCredits debits the balance and opens the reservation in one
// transaction. The guarded UPDATE is the serialization point: concurrent
// reserves on the same user queue on the row lock and the balance can
// never go negative.
func (r *creditRepository) ReserveCredits(ctx context.Context, reservationID string, userID int64, amount int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin reserve tx: %w", err)
	}
	defer tx.Rollback()

	var remaining int
	err = tx.QueryRowContext(ctx,
		`UPDATE users SET credits = credits - $2, updated_at = NOW()
         WHERE id = $1 AND credits >= $2
         RETURNING credits`,
		userID, amount,
	).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, repositories.ErrInsufficientBalance
	}
	if err != nil {
		return 0, fmt.Errorf("failed to reserve credits: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO credit_reservations (id, user_id, amount, state)
         VALUES ($1, $2, $3, 'open')`,
		reservationID, userID, amount,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to open reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit reserve tx: %w", err)
	}
	return remaining, nil
}

func (r *creditRepository) CommitReservation(ctx context.Context, reservationID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE credit_reservations SET state = 'committed'
         WHERE id = $1 AND state = 'open'`,
		reservationID,
	)
	if err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("reservation %s is not open", reservationID)
	}
	return nil
}

// RefundReservation restores the amount for an open reservation. Guarding
// on state = 'open' makes a duplicate refund (or a refund after commit) a
// no-op instead of a double credit.
func (r *creditRepository) RefundReservation(ctx context.Context, reservationID string) error {
	_, err := r.db.ExecContext(ctx,
		`WITH sub AS (
             UPDATE credit_reservations SET state = 'refunded'
             WHERE id = $1 AND state = 'open'
             RETURNING user_id, amount
         )
         UPDATE users SET credits = credits + sub.amount, updated_at = NOW()
         FROM sub WHERE users.id = sub.user_id`,
		reservationID,
	)
	if err != nil {
		return fmt.Errorf("failed to refund reservation: %w", err)
	}
	return nil
}

// RefundStaleReservations flips every stale open reservation to refunded
// and credits each user the SUM of their stale amounts. The aggregation
// matters: UPDATE ... FROM applies at most one join row per target row,
// so joining reservations directly would lose all but one per user.
func (r *creditRepository) RefundStaleReservations(ctx context.Context, olderThanSeconds int) (int, error) {
	var swept int
	err := r.db.QueryRowContext(ctx,
		`WITH stale AS (
             UPDATE credit_reservations SET state = 'refunded'
             WHERE state = 'open' AND created_at < NOW() - ($1 * INTERVAL '1 second')
             RETURNING user_id, amount
         ),
         credited AS (
             UPDATE users SET credits = credits + totals.refund, updated_at = NOW()
             FROM (SELECT user_id, SUM(amount) AS refund FROM stale GROUP BY user_id) AS totals
             WHERE users.id = totals.user_id
         )
         SELECT COUNT(*) FROM stale`,
		olderThanSeconds,
	).Scan(&swept)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale reservations: %w", err)
	}
	return swept, nil
}

func (r *creditRepository) AddCredits(ctx context.Context, userID int64, amount int) (int, error) {
	var balance int
	err := r.db.QueryRowContext(ctx,
		`UPDATE users SET credits = credits + $2, updated_at = NOW()
         WHERE id = $1
         RETURNING credits`,
		userID, amount,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("user with id %d not found", userID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add credits: %w", err)
	}
	return balance, nil
}

func (r *creditRepository) GetBalance(ctx context.Context, userID int64) (int, error) {
	var balance int
	err := r.db.GetContext(ctx, &balance, `SELECT credits FROM users WHERE id = $1`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("user with id %d not found", userID)
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}
