package domain

import (
	"time"

	"github.com/google/uuid"
)

// BidRequestStatus is the state of a bidder's pre-approval request.
type BidRequestStatus string

const (
	RequestPending  BidRequestStatus = "pending"
	RequestApproved BidRequestStatus = "approved"
	RequestRejected BidRequestStatus = "rejected"
)

// BidRequest is a bidder's request to be allowed to bid on an auction whose
// seller requires pre-approval. One per (auction, bidder); re-submission after
// a rejection resets it to pending.
type BidRequest struct {
	ID         uuid.UUID
	AuctionID  uuid.UUID
	BidderID   uuid.UUID
	Status     BidRequestStatus
	Message    string
	Note       string
	ResolvedBy *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BidRejection is a seller-initiated exclusion of a bidder from an auction.
// Independent of BidRequest; always blocks bidding while present.
type BidRejection struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Reason    string
	CreatedAt time.Time
}
