package postgres

import (
	"context"
	"errors"

	"github.com/bidworks/gavel/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RatingRepository implements domain.RatingRepository on PostgreSQL.
type RatingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

func (r *RatingRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, fromUserID, toUserID, auctionID uuid.UUID) (*domain.Rating, error) {
	query := `
        SELECT from_user_id, to_user_id, auction_id, score, created_at, updated_at
        FROM ratings
        WHERE from_user_id = $1 AND to_user_id = $2 AND auction_id = $3
        FOR UPDATE
    `
	rating := &domain.Rating{}
	err := tx.QueryRow(ctx, query, fromUserID, toUserID, auctionID).Scan(
		&rating.FromUserID,
		&rating.ToUserID,
		&rating.AuctionID,
		&rating.Score,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rating, nil
}

func (r *RatingRepository) Upsert(ctx context.Context, tx pgx.Tx, rating *domain.Rating) error {
	query := `
        INSERT INTO ratings (from_user_id, to_user_id, auction_id, score)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (from_user_id, to_user_id, auction_id)
        DO UPDATE SET score = EXCLUDED.score, updated_at = NOW()
    `
	_, err := tx.Exec(ctx, query,
		rating.FromUserID,
		rating.ToUserID,
		rating.AuctionID,
		rating.Score,
	)
	return err
}
