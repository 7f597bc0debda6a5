package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bid is one bid on an auction, manual or placed by the proxy resolver.
// Immutable once inserted; ordered by CreatedAt.
type Bid struct {
	ID          uuid.UUID
	AuctionID   uuid.UUID
	BidderID    uuid.UUID
	Amount      int64
	IsAutomatic bool
	CreatedAt   time.Time
}

// NewBid creates a new Bid instance.
func NewBid(id, auctionID, bidderID uuid.UUID, amount int64, isAutomatic bool, createdAt time.Time) *Bid {
	return &Bid{
		ID:          id,
		AuctionID:   auctionID,
		BidderID:    bidderID,
		Amount:      amount,
		IsAutomatic: isAutomatic,
		CreatedAt:   createdAt,
	}
}
