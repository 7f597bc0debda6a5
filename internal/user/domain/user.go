package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// User is a marketplace participant together with its aggregate reputation
// counters. The counters are adjusted by rating deltas and never go below
// zero.
type User struct {
	ID             uuid.UUID
	Username       string
	RatingPositive int
	RatingNegative int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// AdjustRatingCounters applies the positive/negative deltas inside the
	// caller's transaction, clamping both counters at zero.
	AdjustRatingCounters(ctx context.Context, tx pgx.Tx, id uuid.UUID, deltaPositive, deltaNegative int) error
}
