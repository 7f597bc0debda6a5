package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bidworks/gavel/internal/auction/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BidGateUseCase implements the seller-controlled allow/deny mechanism that
// gates who may bid on an auction.
type BidGateUseCase struct {
	auctionRepo domain.AuctionRepository
	gateRepo    domain.BidGateRepository
}

func NewBidGateUseCase(auctionRepo domain.AuctionRepository, gateRepo domain.BidGateRepository) *BidGateUseCase {
	return &BidGateUseCase{auctionRepo: auctionRepo, gateRepo: gateRepo}
}

// CanBid returns nil when the bidder may bid on the auction, or the sentinel
// describing why not. A rejection always wins over an approved request.
func (uc *BidGateUseCase) CanBid(ctx context.Context, auctionID, bidderID uuid.UUID) error {
	rejection, err := uc.gateRepo.GetRejection(ctx, auctionID, bidderID)
	if err != nil {
		return fmt.Errorf("bid gate: failed to check rejection: %w", err)
	}
	if rejection != nil {
		return domain.ErrBidderRejected
	}

	auction, err := uc.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("bid gate: auction %s: %w", auctionID, err)
	}
	if !auction.RequiresApproval {
		return nil
	}

	request, err := uc.gateRepo.GetRequest(ctx, auctionID, bidderID)
	if err != nil {
		return fmt.Errorf("bid gate: failed to check request: %w", err)
	}
	if request == nil || request.Status != domain.RequestApproved {
		return domain.ErrApprovalRequired
	}
	return nil
}

// SubmitBidRequest is idempotent: an approved or pending request is returned
// unchanged, a rejected one is reset to pending with the seller's note
// cleared, and otherwise a new pending request is inserted.
func (uc *BidGateUseCase) SubmitBidRequest(ctx context.Context, auctionID, bidderID uuid.UUID, message string) (*domain.BidRequest, error) {
	if _, err := uc.auctionRepo.GetByID(ctx, auctionID); err != nil {
		return nil, fmt.Errorf("submit bid request: auction %s: %w", auctionID, err)
	}

	existing, err := uc.gateRepo.GetRequest(ctx, auctionID, bidderID)
	if err != nil {
		return nil, fmt.Errorf("submit bid request: failed to load request: %w", err)
	}

	now := time.Now().UTC()
	switch {
	case existing == nil:
		request := &domain.BidRequest{
			ID:        uuid.New(),
			AuctionID: auctionID,
			BidderID:  bidderID,
			Status:    domain.RequestPending,
			Message:   message,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.gateRepo.InsertRequest(ctx, request); err != nil {
			return nil, fmt.Errorf("submit bid request: failed to insert: %w", err)
		}
		log.Info("Bid request submitted",
			zap.String("auctionID", auctionID.String()),
			zap.String("bidderID", bidderID.String()),
		)
		return request, nil

	case existing.Status == domain.RequestRejected:
		existing.Status = domain.RequestPending
		existing.Message = message
		existing.Note = ""
		existing.ResolvedBy = nil
		existing.UpdatedAt = now
		if err := uc.gateRepo.UpdateRequest(ctx, existing); err != nil {
			return nil, fmt.Errorf("submit bid request: failed to reset: %w", err)
		}
		log.Info("Bid request re-submitted after rejection",
			zap.String("auctionID", auctionID.String()),
			zap.String("bidderID", bidderID.String()),
		)
		return existing, nil

	default:
		// pending or approved: nothing to do
		return existing, nil
	}
}

// ResolveBidRequest approves or rejects a pending request. Only the seller of
// the auction the request points at may resolve it.
func (uc *BidGateUseCase) ResolveBidRequest(ctx context.Context, requestID, sellerID uuid.UUID, approve bool, note string) (*domain.BidRequest, error) {
	request, err := uc.gateRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("resolve bid request: %w", err)
	}
	if request == nil {
		return nil, domain.ErrBidRequestNotFound
	}

	auction, err := uc.auctionRepo.GetByID(ctx, request.AuctionID)
	if err != nil {
		return nil, fmt.Errorf("resolve bid request: auction %s: %w", request.AuctionID, err)
	}
	if auction.SellerID != sellerID {
		return nil, domain.ErrNotProductOwner
	}

	if approve {
		request.Status = domain.RequestApproved
	} else {
		request.Status = domain.RequestRejected
	}
	request.Note = note
	request.ResolvedBy = &sellerID
	request.UpdatedAt = time.Now().UTC()

	if err := uc.gateRepo.UpdateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("resolve bid request: failed to update: %w", err)
	}
	log.Info("Bid request resolved",
		zap.String("requestID", requestID.String()),
		zap.String("status", string(request.Status)),
	)
	return request, nil
}

// RejectBidder records a seller-initiated exclusion for the pair. Upsert: a
// second rejection refreshes the reason.
func (uc *BidGateUseCase) RejectBidder(ctx context.Context, auctionID, sellerID, bidderID uuid.UUID, reason string) error {
	auction, err := uc.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("reject bidder: auction %s: %w", auctionID, err)
	}
	if auction.SellerID != sellerID {
		return domain.ErrNotProductOwner
	}

	rejection := &domain.BidRejection{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.gateRepo.InsertRejection(ctx, rejection); err != nil {
		return fmt.Errorf("reject bidder: failed to insert: %w", err)
	}
	log.Info("Bidder rejected",
		zap.String("auctionID", auctionID.String()),
		zap.String("bidderID", bidderID.String()),
	)
	return nil
}

// UnrejectBidder lifts an exclusion. Returns whether one existed.
func (uc *BidGateUseCase) UnrejectBidder(ctx context.Context, auctionID, sellerID, bidderID uuid.UUID) (bool, error) {
	auction, err := uc.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return false, fmt.Errorf("unreject bidder: auction %s: %w", auctionID, err)
	}
	if auction.SellerID != sellerID {
		return false, domain.ErrNotProductOwner
	}
	removed, err := uc.gateRepo.DeleteRejection(ctx, auctionID, bidderID)
	if err != nil {
		return false, fmt.Errorf("unreject bidder: failed to delete: %w", err)
	}
	return removed, nil
}
