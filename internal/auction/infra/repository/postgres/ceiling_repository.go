package postgres

import (
	"context"

	"github.com/bidworks/gavel/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProxyCeilingRepository implements domain.ProxyCeilingRepository on
// PostgreSQL.
type ProxyCeilingRepository struct {
	pool *pgxpool.Pool
}

func NewProxyCeilingRepository(pool *pgxpool.Pool) *ProxyCeilingRepository {
	return &ProxyCeilingRepository{pool: pool}
}

// Upsert keeps the original created_at on conflict so first-come priority at
// equal ceilings survives ceiling updates.
func (r *ProxyCeilingRepository) Upsert(ctx context.Context, ceiling *domain.ProxyCeiling) error {
	query := `
        INSERT INTO proxy_ceilings (auction_id, bidder_id, max_price, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (auction_id, bidder_id) DO UPDATE
        SET max_price = EXCLUDED.max_price
    `
	_, err := r.pool.Exec(ctx, query,
		ceiling.AuctionID,
		ceiling.BidderID,
		ceiling.MaxPrice,
		ceiling.CreatedAt,
	)
	return err
}

func (r *ProxyCeilingRepository) Delete(ctx context.Context, auctionID, bidderID uuid.UUID) (bool, error) {
	query := `DELETE FROM proxy_ceilings WHERE auction_id = $1 AND bidder_id = $2`
	tag, err := r.pool.Exec(ctx, query, auctionID, bidderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListByAuction reads inside the resolver's transaction, after the auction
// row lock was taken: ceilings committed before that point are visible, later
// writers apply to the next triggering bid.
func (r *ProxyCeilingRepository) ListByAuction(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) ([]*domain.ProxyCeiling, error) {
	query := `
        SELECT auction_id, bidder_id, max_price, created_at
        FROM proxy_ceilings
        WHERE auction_id = $1
        ORDER BY created_at ASC
    `
	rows, err := tx.Query(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ceilings []*domain.ProxyCeiling
	for rows.Next() {
		ceiling := &domain.ProxyCeiling{}
		err := rows.Scan(
			&ceiling.AuctionID,
			&ceiling.BidderID,
			&ceiling.MaxPrice,
			&ceiling.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		ceilings = append(ceilings, ceiling)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ceilings, nil
}
