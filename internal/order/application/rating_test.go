package application

import (
	"context"
	"testing"

	"github.com/bidworks/gavel/internal/order/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateOrder_BuyerRatesSeller(t *testing.T) {
	f := newFulfillmentFixture(t)
	order := f.seedOrder(t, domain.StatusCompleted)

	require.NoError(t, f.uc.RateOrder(context.Background(), order.ID, f.buyer.ID, 1))

	assert.Equal(t, 1, f.seller.RatingPositive)
	assert.Equal(t, 0, f.seller.RatingNegative)
	assert.Equal(t, 0, f.buyer.RatingPositive)
}

func TestRateOrder_ReratingMovesCountersByDelta(t *testing.T) {
	f := newFulfillmentFixture(t)
	order := f.seedOrder(t, domain.StatusCompleted)
	ctx := context.Background()

	require.NoError(t, f.uc.RateOrder(ctx, order.ID, f.buyer.ID, 1))
	assert.Equal(t, 1, f.seller.RatingPositive)

	// same score again: nothing moves
	require.NoError(t, f.uc.RateOrder(ctx, order.ID, f.buyer.ID, 1))
	assert.Equal(t, 1, f.seller.RatingPositive)
	assert.Equal(t, 0, f.seller.RatingNegative)

	// flip: positive comes back down, negative goes up
	require.NoError(t, f.uc.RateOrder(ctx, order.ID, f.buyer.ID, -1))
	assert.Equal(t, 0, f.seller.RatingPositive)
	assert.Equal(t, 1, f.seller.RatingNegative)
}

func TestRateOrder_BothDirectionsIndependent(t *testing.T) {
	f := newFulfillmentFixture(t)
	order := f.seedOrder(t, domain.StatusCompleted)
	ctx := context.Background()

	require.NoError(t, f.uc.RateOrder(ctx, order.ID, f.buyer.ID, 1))
	require.NoError(t, f.uc.RateOrder(ctx, order.ID, f.seller.ID, -1))

	assert.Equal(t, 1, f.seller.RatingPositive)
	assert.Equal(t, 1, f.buyer.RatingNegative)
}

func TestRateOrder_Validation(t *testing.T) {
	f := newFulfillmentFixture(t)
	order := f.seedOrder(t, domain.StatusCompleted)
	ctx := context.Background()

	err := f.uc.RateOrder(ctx, order.ID, f.buyer.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRatingScore)

	err = f.uc.RateOrder(ctx, order.ID, uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrOrderForbidden)

	err = f.uc.RateOrder(ctx, uuid.New(), f.buyer.ID, 1)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestRateOrder_CounterNeverGoesNegative(t *testing.T) {
	f := newFulfillmentFixture(t)
	order := f.seedOrder(t, domain.StatusCanceled)

	// flipping a never-counted positive away must not underflow
	require.NoError(t, f.uc.RateOrder(context.Background(), order.ID, f.buyer.ID, -1))

	assert.Equal(t, 0, f.seller.RatingPositive)
	assert.Equal(t, 1, f.seller.RatingNegative)
}
