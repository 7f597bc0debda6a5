package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AuctionRepository loads and persists auctions. Methods taking a pgx.Tx run
// inside a transaction owned by the application layer; GetByIDForUpdate locks
// the row until that transaction ends.
type AuctionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Auction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Auction, error)
	UpdatePriceAndCount(ctx context.Context, tx pgx.Tx, id uuid.UUID, price int64, bidCount int) error
	MarkEnded(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	GetActiveEndingBefore(ctx context.Context, deadline time.Time) ([]*Auction, error)
}

type BidRepository interface {
	Insert(ctx context.Context, tx pgx.Tx, bid *Bid) error
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)
	// LatestByAuction returns the most recent bid, or nil when none exists.
	LatestByAuction(ctx context.Context, auctionID uuid.UUID) (*Bid, error)
	// HighestByAuction returns the winning bid as seen inside the caller's
	// transaction, or nil when the auction never received a bid.
	HighestByAuction(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*Bid, error)
}

type ProxyCeilingRepository interface {
	Upsert(ctx context.Context, ceiling *ProxyCeiling) error
	Delete(ctx context.Context, auctionID, bidderID uuid.UUID) (bool, error)
	// ListByAuction reads all standing ceilings inside the caller's
	// transaction, after the auction row lock has been taken.
	ListByAuction(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) ([]*ProxyCeiling, error)
}

type BidGateRepository interface {
	GetRejection(ctx context.Context, auctionID, bidderID uuid.UUID) (*BidRejection, error)
	InsertRejection(ctx context.Context, rejection *BidRejection) error
	DeleteRejection(ctx context.Context, auctionID, bidderID uuid.UUID) (bool, error)

	GetRequest(ctx context.Context, auctionID, bidderID uuid.UUID) (*BidRequest, error)
	GetRequestByID(ctx context.Context, id uuid.UUID) (*BidRequest, error)
	InsertRequest(ctx context.Context, request *BidRequest) error
	UpdateRequest(ctx context.Context, request *BidRequest) error
}
