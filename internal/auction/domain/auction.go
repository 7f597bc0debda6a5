package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuctionStatus represents the lifecycle state of an auction listing.
type AuctionStatus string

const (
	StatusDraft   AuctionStatus = "draft"
	StatusActive  AuctionStatus = "active"
	StatusEnded   AuctionStatus = "ended"
	StatusRemoved AuctionStatus = "removed"
)

// Auction is a listed item with a closing time and a monotonic price.
// CurrentPrice never decreases and is always >= StartPrice; BidCount equals
// the number of bid rows (manual and automatic) ever inserted for it.
type Auction struct {
	ID               uuid.UUID
	SellerID         uuid.UUID
	Title            string
	Description      string
	StartPrice       int64
	CurrentPrice     int64
	StepPrice        int64
	BuyNowPrice      *int64
	Status           AuctionStatus
	RequiresApproval bool
	StartTime        time.Time
	EndTime          time.Time
	BidCount         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewAuction(id, sellerID uuid.UUID, title, description string, startPrice, stepPrice int64, startTime, endTime time.Time) *Auction {
	return &Auction{
		ID:           id,
		SellerID:     sellerID,
		Title:        title,
		Description:  description,
		StartPrice:   startPrice,
		CurrentPrice: startPrice,
		StepPrice:    stepPrice,
		Status:       StatusDraft,
		StartTime:    startTime,
		EndTime:      endTime,
	}
}

// MinNextBid returns the lowest amount the next bid must reach: the current
// price when no bids have landed yet, current price plus one step otherwise.
func (a *Auction) MinNextBid() int64 {
	if a.BidCount == 0 {
		return a.CurrentPrice
	}
	return a.CurrentPrice + a.StepPrice
}

// AcceptsBidsAt reports whether the auction can take a bid at the given time.
func (a *Auction) AcceptsBidsAt(now time.Time) error {
	if a.Status != StatusActive {
		return ErrAuctionNotActive
	}
	if now.After(a.EndTime) {
		return ErrAuctionEnded
	}
	return nil
}

// Closed reports whether the auction can no longer take bids.
func (a *Auction) Closed(now time.Time) bool {
	return a.Status == StatusEnded || (a.Status == StatusActive && now.After(a.EndTime))
}
