package models

import "time"

type ReservationState string

const (
	ReservationOpen      ReservationState = "open"
	ReservationCommitted ReservationState = "committed"
	ReservationRefunded  ReservationState = "refunded"
)

// Reservation is a held credit debit awaiting commit or refund.
// Exactly one of the two terminal states is ever reached.
type Reservation struct {
	ID        string           `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Amount    int              `json:"amount" db:"amount"`
	State     ReservationState `json:"state" db:"state"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
