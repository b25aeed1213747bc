package repositories

import (
	"context"
	"errors"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
)

// ErrInsufficientBalance is returned by ReserveCredits when the guarded
// debit matches no row.
var ErrInsufficientBalance = errors.New("insufficient credit balance")

type UserRepository interface {
	//create
	CreateUser(ctx context.Context, user *models.User) error

	//get
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	//update
	UpdateUser(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	Deactivate(ctx context.Context, id int64) error
}

// CreditRepository mutates the users.credits column and the reservation
// bookkeeping. It is the only writer of either.
type CreditRepository interface {
	// ReserveCredits atomically debits amount when the balance allows it
	// and opens a reservation row. Returns the remaining balance.
	ReserveCredits(ctx context.Context, reservationID string, userID int64, amount int) (remaining int, err error)
	// CommitReservation flips an open reservation to committed.
	CommitReservation(ctx context.Context, reservationID string) error
	// RefundReservation flips an open reservation to refunded and restores
	// the amount. A second call is a no-op.
	RefundReservation(ctx context.Context, reservationID string) error
	// RefundStaleReservations refunds every open reservation older than
	// the cutoff and returns how many were swept.
	RefundStaleReservations(ctx context.Context, olderThanSeconds int) (int, error)
	// AddCredits grants credits outside a reservation (admin, purchases).
	AddCredits(ctx context.Context, userID int64, amount int) (balance int, err error)
	// GetBalance reads the current balance.
	GetBalance(ctx context.Context, userID int64) (int, error)
}
