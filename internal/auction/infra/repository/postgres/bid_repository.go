package postgres

import (
	"context"
	"errors"

	"github.com/bidworks/gavel/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository implements domain.BidRepository on PostgreSQL.
type BidRepository struct {
	pool *pgxpool.Pool
}

func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

// Insert only writes the bid row; updating the auction is owned by the
// application-layer transaction.
func (r *BidRepository) Insert(ctx context.Context, tx pgx.Tx, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, auction_id, bidder_id, amount, is_automatic, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := tx.Exec(ctx, query,
		bid.ID,
		bid.AuctionID,
		bid.BidderID,
		bid.Amount,
		bid.IsAutomatic,
		bid.CreatedAt,
	)
	return err
}

func (r *BidRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder_id, amount, is_automatic, created_at
        FROM bids
        WHERE auction_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.pool.Query(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid := &domain.Bid{}
		err := rows.Scan(
			&bid.ID,
			&bid.AuctionID,
			&bid.BidderID,
			&bid.Amount,
			&bid.IsAutomatic,
			&bid.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *BidRepository) LatestByAuction(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder_id, amount, is_automatic, created_at
        FROM bids
        WHERE auction_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `
	return r.scanOne(r.pool.QueryRow(ctx, query, auctionID))
}

// HighestByAuction reads through tx so winner determination sees the same
// snapshot as the rest of the closing transaction.
func (r *BidRepository) HighestByAuction(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder_id, amount, is_automatic, created_at
        FROM bids
        WHERE auction_id = $1
        ORDER BY amount DESC, created_at ASC
        LIMIT 1
    `
	return r.scanOne(tx.QueryRow(ctx, query, auctionID))
}

func (r *BidRepository) scanOne(row pgx.Row) (*domain.Bid, error) {
	bid := &domain.Bid{}
	err := row.Scan(
		&bid.ID,
		&bid.AuctionID,
		&bid.BidderID,
		&bid.Amount,
		&bid.IsAutomatic,
		&bid.CreatedAt,
	)
	if err != nil {
		// no bids for this auction yet
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return bid, nil
}
