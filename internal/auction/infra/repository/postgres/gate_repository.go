package postgres

import (
	"context"
	"errors"

	"github.com/bidworks/gavel/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidGateRepository implements domain.BidGateRepository on PostgreSQL.
type BidGateRepository struct {
	pool *pgxpool.Pool
}

func NewBidGateRepository(pool *pgxpool.Pool) *BidGateRepository {
	return &BidGateRepository{pool: pool}
}

func (r *BidGateRepository) GetRejection(ctx context.Context, auctionID, bidderID uuid.UUID) (*domain.BidRejection, error) {
	query := `
        SELECT auction_id, bidder_id, reason, created_at
        FROM bid_rejections
        WHERE auction_id = $1 AND bidder_id = $2
    `
	rejection := &domain.BidRejection{}
	err := r.pool.QueryRow(ctx, query, auctionID, bidderID).Scan(
		&rejection.AuctionID,
		&rejection.BidderID,
		&rejection.Reason,
		&rejection.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rejection, nil
}

func (r *BidGateRepository) InsertRejection(ctx context.Context, rejection *domain.BidRejection) error {
	query := `
        INSERT INTO bid_rejections (auction_id, bidder_id, reason, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (auction_id, bidder_id) DO UPDATE
        SET reason = EXCLUDED.reason
    `
	_, err := r.pool.Exec(ctx, query,
		rejection.AuctionID,
		rejection.BidderID,
		rejection.Reason,
		rejection.CreatedAt,
	)
	return err
}

func (r *BidGateRepository) DeleteRejection(ctx context.Context, auctionID, bidderID uuid.UUID) (bool, error) {
	query := `DELETE FROM bid_rejections WHERE auction_id = $1 AND bidder_id = $2`
	tag, err := r.pool.Exec(ctx, query, auctionID, bidderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const bidRequestColumns = `id, auction_id, bidder_id, status, message, note, resolved_by, created_at, updated_at`

func (r *BidGateRepository) GetRequest(ctx context.Context, auctionID, bidderID uuid.UUID) (*domain.BidRequest, error) {
	query := `SELECT ` + bidRequestColumns + ` FROM bid_requests WHERE auction_id = $1 AND bidder_id = $2`
	return r.scanRequest(r.pool.QueryRow(ctx, query, auctionID, bidderID))
}

func (r *BidGateRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.BidRequest, error) {
	query := `SELECT ` + bidRequestColumns + ` FROM bid_requests WHERE id = $1`
	return r.scanRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *BidGateRepository) InsertRequest(ctx context.Context, request *domain.BidRequest) error {
	query := `
        INSERT INTO bid_requests (id, auction_id, bidder_id, status, message, note, resolved_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (auction_id, bidder_id) DO NOTHING
    `
	_, err := r.pool.Exec(ctx, query,
		request.ID,
		request.AuctionID,
		request.BidderID,
		request.Status,
		request.Message,
		request.Note,
		request.ResolvedBy,
		request.CreatedAt,
		request.UpdatedAt,
	)
	return err
}

func (r *BidGateRepository) UpdateRequest(ctx context.Context, request *domain.BidRequest) error {
	query := `
        UPDATE bid_requests
        SET status = $2, message = $3, note = $4, resolved_by = $5, updated_at = $6
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query,
		request.ID,
		request.Status,
		request.Message,
		request.Note,
		request.ResolvedBy,
		request.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBidRequestNotFound
	}
	return nil
}

func (r *BidGateRepository) scanRequest(row pgx.Row) (*domain.BidRequest, error) {
	request := &domain.BidRequest{}
	err := row.Scan(
		&request.ID,
		&request.AuctionID,
		&request.BidderID,
		&request.Status,
		&request.Message,
		&request.Note,
		&request.ResolvedBy,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return request, nil
}
