package application

import (
	"context"
	"time"

	"github.com/bidworks/gavel/internal/auction/domain"
	"github.com/google/uuid"
)

// AuctionStateDTO is the output DTO exposing auction state to the UI/WS.
type AuctionStateDTO struct {
	AuctionID     uuid.UUID  `json:"auction_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	StartPrice    int64      `json:"start_price"`
	CurrentPrice  int64      `json:"current_price"`
	StepPrice     int64      `json:"step_price"`
	MinNextBid    int64      `json:"min_next_bid"`
	Status        string     `json:"status"`
	EndTime       time.Time  `json:"end_time"`
	BidCount      int        `json:"bid_count"`
	LastBidAmount int64      `json:"last_bid_amount,omitempty"`
	LastBidderID  uuid.UUID  `json:"last_bidder_id,omitempty"`
	LastBidTime   *time.Time `json:"last_bid_time,omitempty"`
}

// GetAuctionStateUseCase retrieves the current state of an auction.
type GetAuctionStateUseCase struct {
	auctionRepo domain.AuctionRepository
	bidRepo     domain.BidRepository
}

func NewGetAuctionStateUseCase(auctionRepo domain.AuctionRepository, bidRepo domain.BidRepository) *GetAuctionStateUseCase {
	return &GetAuctionStateUseCase{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
	}
}

func (uc *GetAuctionStateUseCase) Execute(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error) {
	auction, err := uc.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	dto := &AuctionStateDTO{
		AuctionID:    auction.ID,
		Title:        auction.Title,
		Description:  auction.Description,
		StartPrice:   auction.StartPrice,
		CurrentPrice: auction.CurrentPrice,
		StepPrice:    auction.StepPrice,
		MinNextBid:   auction.MinNextBid(),
		Status:       string(auction.Status),
		EndTime:      auction.EndTime,
		BidCount:     auction.BidCount,
	}

	bid, err := uc.bidRepo.LatestByAuction(ctx, auctionID)
	if err == nil && bid != nil {
		dto.LastBidAmount = bid.Amount
		dto.LastBidderID = bid.BidderID
		dto.LastBidTime = &bid.CreatedAt
	}

	return dto, nil
}
