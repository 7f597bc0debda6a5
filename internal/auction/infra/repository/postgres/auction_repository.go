package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/bidworks/gavel/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auctionColumns = `id, seller_id, title, description, start_price, current_price, step_price,
       buy_now_price, status, requires_approval, start_time, end_time, bid_count, created_at, updated_at`

// AuctionRepository implements domain.AuctionRepository on PostgreSQL.
type AuctionRepository struct {
	pool *pgxpool.Pool
}

func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

func scanAuction(row pgx.Row) (*domain.Auction, error) {
	auction := &domain.Auction{}
	err := row.Scan(
		&auction.ID,
		&auction.SellerID,
		&auction.Title,
		&auction.Description,
		&auction.StartPrice,
		&auction.CurrentPrice,
		&auction.StepPrice,
		&auction.BuyNowPrice,
		&auction.Status,
		&auction.RequiresApproval,
		&auction.StartTime,
		&auction.EndTime,
		&auction.BidCount,
		&auction.CreatedAt,
		&auction.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return auction, nil
}

func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`
	return scanAuction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate loads the auction inside tx and holds a row lock on it
// until the transaction commits or rolls back.
func (r *AuctionRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1 FOR UPDATE`
	return scanAuction(tx.QueryRow(ctx, query, id))
}

// UpdatePriceAndCount persists the settled price and bid count once per
// resolution, inside the caller's transaction.
func (r *AuctionRepository) UpdatePriceAndCount(ctx context.Context, tx pgx.Tx, id uuid.UUID, price int64, bidCount int) error {
	query := `
        UPDATE auctions
        SET current_price = $2, bid_count = $3, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := tx.Exec(ctx, query, id, price, bidCount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAuctionNotFound
	}
	return nil
}

func (r *AuctionRepository) MarkEnded(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `UPDATE auctions SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := tx.Exec(ctx, query, id, domain.StatusEnded)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAuctionNotFound
	}
	return nil
}

// GetActiveEndingBefore returns active auctions whose end time falls before
// the deadline; used by the closing sweep to create orders.
func (r *AuctionRepository) GetActiveEndingBefore(ctx context.Context, deadline time.Time) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE status = $1 AND end_time <= $2`
	rows, err := r.pool.Query(ctx, query, domain.StatusActive, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return auctions, nil
}
