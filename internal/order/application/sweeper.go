package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	auctiondomain "github.com/bidworks/gavel/internal/auction/domain"
	"github.com/bidworks/gavel/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CloseExpiredAuctions finds active auctions whose end time has passed and
// materializes their orders. Auctions that closed without a single bid are
// just marked ended. Returns how many auctions were swept.
func (uc *FulfillmentUseCase) CloseExpiredAuctions(ctx context.Context) (int, error) {
	expired, err := uc.auctionRepo.GetActiveEndingBefore(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("close expired auctions: %w", err)
	}

	swept := 0
	for _, auction := range expired {
		if _, err := uc.EnsureOrder(ctx, auction.ID); err != nil {
			if errors.Is(err, domain.ErrNoWinningBid) {
				if err := uc.endWithoutWinner(ctx, auction.ID); err != nil {
					log.Error("failed to end auction without bids",
						zap.String("auctionID", auction.ID.String()),
						zap.Error(err),
					)
				}
				continue
			}
			log.Error("failed to close expired auction",
				zap.String("auctionID", auction.ID.String()),
				zap.Error(err),
			)
			continue
		}
		swept++
	}
	return swept, nil
}

func (uc *FulfillmentUseCase) endWithoutWinner(ctx context.Context, auctionID uuid.UUID) error {
	return uc.inTx(ctx, func(tx pgx.Tx) error {
		auction, err := uc.auctionRepo.GetByIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if auction.Status != auctiondomain.StatusActive {
			return nil
		}
		return uc.auctionRepo.MarkEnded(ctx, tx, auctionID)
	})
}

// RunSweeper closes expired auctions on a fixed interval until ctx is
// cancelled.
func (uc *FulfillmentUseCase) RunSweeper(ctx context.Context, interval time.Duration) {
	log.Info("Auction closing sweeper started", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Auction closing sweeper stopped")
			return
		case <-ticker.C:
			if swept, err := uc.CloseExpiredAuctions(ctx); err != nil {
				log.Error("auction sweep failed", zap.Error(err))
			} else if swept > 0 {
				log.Info("Auction sweep completed", zap.Int("ordersCreated", swept))
			}
		}
	}
}
