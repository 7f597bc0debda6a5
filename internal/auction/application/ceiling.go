package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bidworks/gavel/internal/auction/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SetCeilingDTO is the input for ProxyCeilingUseCase.Set.
type SetCeilingDTO struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	MaxPrice  int64
}

// ProxyCeilingUseCase manages standing auto-bid ceilings. Setting a ceiling
// does not place a bid by itself; it takes part in the resolution triggered by
// the next bid that lands.
type ProxyCeilingUseCase struct {
	auctionRepo domain.AuctionRepository
	ceilingRepo domain.ProxyCeilingRepository
}

func NewProxyCeilingUseCase(auctionRepo domain.AuctionRepository, ceilingRepo domain.ProxyCeilingRepository) *ProxyCeilingUseCase {
	return &ProxyCeilingUseCase{auctionRepo: auctionRepo, ceilingRepo: ceilingRepo}
}

// Set validates and upserts a ceiling keyed by (auction, bidder). The ceiling
// must be reachable: at least the minimum next bid amount at the time it is
// set.
func (uc *ProxyCeilingUseCase) Set(ctx context.Context, cmd SetCeilingDTO) error {
	if cmd.MaxPrice <= 0 {
		return domain.ErrInvalidBidInput
	}

	auction, err := uc.auctionRepo.GetByID(ctx, cmd.AuctionID)
	if err != nil {
		return fmt.Errorf("set ceiling: auction %s: %w", cmd.AuctionID, err)
	}
	if err := auction.AcceptsBidsAt(time.Now().UTC()); err != nil {
		return fmt.Errorf("set ceiling: auction %s: %w", cmd.AuctionID, err)
	}
	if cmd.BidderID == auction.SellerID {
		return domain.ErrOwnBidNotAllowed
	}
	if cmd.MaxPrice < auction.MinNextBid() {
		return domain.ErrCeilingTooLow
	}

	ceiling := &domain.ProxyCeiling{
		AuctionID: cmd.AuctionID,
		BidderID:  cmd.BidderID,
		MaxPrice:  cmd.MaxPrice,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.ceilingRepo.Upsert(ctx, ceiling); err != nil {
		return fmt.Errorf("set ceiling: failed to upsert for auction %s: %w", cmd.AuctionID, err)
	}

	log.Info("Proxy ceiling set",
		zap.String("auctionID", cmd.AuctionID.String()),
		zap.String("bidderID", cmd.BidderID.String()),
		zap.Int64("maxPrice", cmd.MaxPrice),
	)
	return nil
}

// Remove deletes the bidder's ceiling unconditionally. Automatic bids already
// placed on its behalf stand. Returns whether a ceiling existed.
func (uc *ProxyCeilingUseCase) Remove(ctx context.Context, auctionID, bidderID uuid.UUID) (bool, error) {
	removed, err := uc.ceilingRepo.Delete(ctx, auctionID, bidderID)
	if err != nil {
		return false, fmt.Errorf("remove ceiling: auction %s: %w", auctionID, err)
	}
	if removed {
		log.Info("Proxy ceiling removed",
			zap.String("auctionID", auctionID.String()),
			zap.String("bidderID", bidderID.String()),
		)
	}
	return removed, nil
}
