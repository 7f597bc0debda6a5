package postgres

import (
	"context"
	"errors"

	"github.com/bidworks/gavel/internal/user/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository on PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
        SELECT id, username, rating_positive, rating_negative, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	user := &domain.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.RatingPositive,
		&user.RatingNegative,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// AdjustRatingCounters applies the deltas with a floor of zero on both
// counters.
func (r *UserRepository) AdjustRatingCounters(ctx context.Context, tx pgx.Tx, id uuid.UUID, deltaPositive, deltaNegative int) error {
	query := `
        UPDATE users
        SET rating_positive = GREATEST(rating_positive + $2, 0),
            rating_negative = GREATEST(rating_negative + $3, 0),
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := tx.Exec(ctx, query, id, deltaPositive, deltaNegative)
	return err
}
