package application

import (
	"context"

	"github.com/bidworks/gavel/internal/auction/domain"
	"github.com/google/uuid"
)

// AuctionService is the application interface of the auction module; it
// exposes the bidding, proxy-ceiling and gate use cases to the infra layer.
type AuctionService interface {
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*PlaceBidResult, error)
	SetProxyCeiling(ctx context.Context, cmd SetCeilingDTO) error
	RemoveProxyCeiling(ctx context.Context, auctionID, bidderID uuid.UUID) (bool, error)
	CanBid(ctx context.Context, auctionID, bidderID uuid.UUID) error
	SubmitBidRequest(ctx context.Context, auctionID, bidderID uuid.UUID, message string) (*domain.BidRequest, error)
	ResolveBidRequest(ctx context.Context, requestID, sellerID uuid.UUID, approve bool, note string) (*domain.BidRequest, error)
	RejectBidder(ctx context.Context, auctionID, sellerID, bidderID uuid.UUID, reason string) error
	UnrejectBidder(ctx context.Context, auctionID, sellerID, bidderID uuid.UUID) (bool, error)
	GetAuctionState(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error)
}

type auctionService struct {
	placeBidUC *PlaceBidUseCase
	ceilingUC  *ProxyCeilingUseCase
	gateUC     *BidGateUseCase
	stateUC    *GetAuctionStateUseCase
	bidRepo    domain.BidRepository
}

func NewAuctionService(placeBidUC *PlaceBidUseCase,
	ceilingUC *ProxyCeilingUseCase,
	gateUC *BidGateUseCase,
	stateUC *GetAuctionStateUseCase,
	bidRepo domain.BidRepository) AuctionService {

	return &auctionService{
		placeBidUC: placeBidUC,
		ceilingUC:  ceilingUC,
		gateUC:     gateUC,
		stateUC:    stateUC,
		bidRepo:    bidRepo,
	}
}

func (as *auctionService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*PlaceBidResult, error) {
	return as.placeBidUC.Execute(ctx, cmd)
}

func (as *auctionService) SetProxyCeiling(ctx context.Context, cmd SetCeilingDTO) error {
	return as.ceilingUC.Set(ctx, cmd)
}

func (as *auctionService) RemoveProxyCeiling(ctx context.Context, auctionID, bidderID uuid.UUID) (bool, error) {
	return as.ceilingUC.Remove(ctx, auctionID, bidderID)
}

func (as *auctionService) CanBid(ctx context.Context, auctionID, bidderID uuid.UUID) error {
	return as.gateUC.CanBid(ctx, auctionID, bidderID)
}

func (as *auctionService) SubmitBidRequest(ctx context.Context, auctionID, bidderID uuid.UUID, message string) (*domain.BidRequest, error) {
	return as.gateUC.SubmitBidRequest(ctx, auctionID, bidderID, message)
}

func (as *auctionService) ResolveBidRequest(ctx context.Context, requestID, sellerID uuid.UUID, approve bool, note string) (*domain.BidRequest, error) {
	return as.gateUC.ResolveBidRequest(ctx, requestID, sellerID, approve, note)
}

func (as *auctionService) RejectBidder(ctx context.Context, auctionID, sellerID, bidderID uuid.UUID, reason string) error {
	return as.gateUC.RejectBidder(ctx, auctionID, sellerID, bidderID, reason)
}

func (as *auctionService) UnrejectBidder(ctx context.Context, auctionID, sellerID, bidderID uuid.UUID) (bool, error) {
	return as.gateUC.UnrejectBidder(ctx, auctionID, sellerID, bidderID)
}

func (as *auctionService) GetAuctionState(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error) {
	return as.stateUC.Execute(ctx, auctionID)
}

func (as *auctionService) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	return as.bidRepo.ListByAuction(ctx, auctionID)
}
