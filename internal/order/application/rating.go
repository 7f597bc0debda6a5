package application

import (
	"context"

	"github.com/bidworks/gavel/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RateOrder lets either participant rate the counterparty of an order. There
// is no state restriction; a later rating for the same order replaces the
// earlier one and the counters move by the delta.
func (uc *FulfillmentUseCase) RateOrder(ctx context.Context, orderID, callerID uuid.UUID, score int) error {
	if !domain.ValidScore(score) {
		return domain.ErrInvalidRatingScore
	}

	return uc.inTx(ctx, func(tx pgx.Tx) error {
		order, err := uc.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		counterparty, err := order.Counterparty(callerID)
		if err != nil {
			return err
		}
		return uc.applyRating(ctx, tx, callerID, counterparty, order.AuctionID, score)
	})
}
