package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bidworks/gavel/internal/auction/domain"
	"github.com/bidworks/gavel/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// TxBeginner starts database transactions. *pgxpool.Pool satisfies it; tests
// substitute a stub.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// PlaceBidDTO is the input for PlaceBidUseCase.
type PlaceBidDTO struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Amount    int64
}

// PlaceBidResult is the auction snapshot after a bid and its proxy resolution
// committed, including the synthetic bids placed on behalf of standing
// ceilings (for outbid notifications).
type PlaceBidResult struct {
	AuctionID     uuid.UUID
	Price         int64
	BidCount      int
	LeaderID      uuid.UUID
	ManualBid     *domain.Bid
	AutomaticBids []*domain.Bid
}

// PlaceBidUseCase records a manual bid and runs proxy resolution for it, all
// inside one transaction holding the auction row lock. Two concurrent bids on
// the same auction serialize on that lock; bids on different auctions never
// block each other.
type PlaceBidUseCase struct {
	auctionRepo domain.AuctionRepository
	bidRepo     domain.BidRepository
	ceilingRepo domain.ProxyCeilingRepository
	gateRepo    domain.BidGateRepository
	db          TxBeginner
}

// NewPlaceBidUseCase creates a new PlaceBidUseCase with its dependencies.
func NewPlaceBidUseCase(auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	ceilingRepo domain.ProxyCeilingRepository,
	gateRepo domain.BidGateRepository,
	db TxBeginner) *PlaceBidUseCase {

	return &PlaceBidUseCase{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		ceilingRepo: ceilingRepo,
		gateRepo:    gateRepo,
		db:          db,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, cmd PlaceBidDTO) (_ *PlaceBidResult, err error) {
	log.Info("Executing PlaceBidUseCase",
		zap.String("auctionID", cmd.AuctionID.String()),
		zap.String("bidderID", cmd.BidderID.String()),
		zap.Int64("amount", cmd.Amount),
	)
	// input validation happens before any transaction opens
	if cmd.Amount <= 0 {
		return nil, domain.ErrInvalidBidInput
	}

	tx, err := uc.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("place bid: failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			log.Error("PlaceBidUseCase: failed to commit transaction",
				zap.String("auctionID", cmd.AuctionID.String()),
				zap.Error(commitErr),
			)
			err = fmt.Errorf("place bid: failed to commit transaction: %w", commitErr)
		}
	}()

	// lock the auction row for the whole bid + resolution scope
	auction, err := uc.auctionRepo.GetByIDForUpdate(ctx, tx, cmd.AuctionID)
	if err != nil {
		if !errors.Is(err, domain.ErrAuctionNotFound) {
			log.Error("PlaceBidUseCase: failed to lock auction",
				zap.String("auctionID", cmd.AuctionID.String()),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("place bid: auction %s: %w", cmd.AuctionID, err)
	}

	now := time.Now().UTC()
	if err = auction.AcceptsBidsAt(now); err != nil {
		return nil, fmt.Errorf("place bid: auction %s: %w", cmd.AuctionID, err)
	}
	if cmd.BidderID == auction.SellerID {
		err = domain.ErrOwnBidNotAllowed
		return nil, err
	}
	if err = uc.checkGate(ctx, auction, cmd.BidderID); err != nil {
		return nil, err
	}
	if cmd.Amount < auction.MinNextBid() {
		log.Warn("PlaceBidUseCase: bid below minimum",
			zap.String("auctionID", cmd.AuctionID.String()),
			zap.Int64("amount", cmd.Amount),
			zap.Int64("minNextBid", auction.MinNextBid()),
		)
		err = domain.ErrBidAmountTooLow
		return nil, err
	}

	manual := domain.NewBid(uuid.New(), auction.ID, cmd.BidderID, cmd.Amount, false, now)
	if err = uc.bidRepo.Insert(ctx, tx, manual); err != nil {
		return nil, fmt.Errorf("place bid: failed to save bid for auction %s: %w", cmd.AuctionID, err)
	}

	// ceilings are read inside the transaction, after the lock: every ceiling
	// committed before this point takes part in the resolution
	ceilings, err := uc.ceilingRepo.ListByAuction(ctx, tx, auction.ID)
	if err != nil {
		return nil, fmt.Errorf("place bid: failed to load ceilings for auction %s: %w", cmd.AuctionID, err)
	}

	plan, leader, finalPrice := domain.RunProxyChain(ceilings, auction.StepPrice, cmd.Amount, cmd.BidderID)

	automatic := make([]*domain.Bid, 0, len(plan))
	for i, p := range plan {
		// offsets keep bid ordering stable under microsecond timestamps
		bid := domain.NewBid(uuid.New(), auction.ID, p.BidderID, p.Amount, true, now.Add(time.Duration(i+1)*time.Microsecond))
		if err = uc.bidRepo.Insert(ctx, tx, bid); err != nil {
			return nil, fmt.Errorf("place bid: failed to save automatic bid for auction %s: %w", cmd.AuctionID, err)
		}
		automatic = append(automatic, bid)
	}

	// price and count are persisted once, after the chain settled
	newCount := auction.BidCount + 1 + len(automatic)
	if err = uc.auctionRepo.UpdatePriceAndCount(ctx, tx, auction.ID, finalPrice, newCount); err != nil {
		return nil, fmt.Errorf("place bid: failed to update auction %s: %w", cmd.AuctionID, err)
	}

	log.Info("Bid placed",
		zap.String("auctionID", auction.ID.String()),
		zap.String("leaderID", leader.String()),
		zap.Int64("finalPrice", finalPrice),
		zap.Int("bidCount", newCount),
		zap.Int("automaticBids", len(automatic)),
	)

	return &PlaceBidResult{
		AuctionID:     auction.ID,
		Price:         finalPrice,
		BidCount:      newCount,
		LeaderID:      leader,
		ManualBid:     manual,
		AutomaticBids: automatic,
	}, nil
}

// checkGate rejects bidders excluded by the seller or, on approval-gated
// auctions, bidders without an approved request.
func (uc *PlaceBidUseCase) checkGate(ctx context.Context, auction *domain.Auction, bidderID uuid.UUID) error {
	rejection, err := uc.gateRepo.GetRejection(ctx, auction.ID, bidderID)
	if err != nil {
		return fmt.Errorf("place bid: failed to check rejection: %w", err)
	}
	if rejection != nil {
		return domain.ErrBidderRejected
	}
	if !auction.RequiresApproval {
		return nil
	}
	request, err := uc.gateRepo.GetRequest(ctx, auction.ID, bidderID)
	if err != nil {
		return fmt.Errorf("place bid: failed to check bid request: %w", err)
	}
	if request == nil || request.Status != domain.RequestApproved {
		return domain.ErrApprovalRequired
	}
	return nil
}
