package application

import (
	"context"
	"testing"
	"time"

	auctiondomain "github.com/bidworks/gavel/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseExpiredAuctions(t *testing.T) {
	f := newFulfillmentFixture(t)
	now := time.Now().UTC()

	won := f.endedAuction(t, auctiondomain.StatusActive)

	unsold := auctiondomain.NewAuction(uuid.New(), f.seller.ID, "unsold lot", "", 1000, 100, now.Add(-2*time.Hour), now.Add(-time.Hour))
	unsold.Status = auctiondomain.StatusActive
	f.auctionRepo.auctions[unsold.ID] = unsold

	running := auctiondomain.NewAuction(uuid.New(), f.seller.ID, "live lot", "", 1000, 100, now.Add(-time.Hour), now.Add(time.Hour))
	running.Status = auctiondomain.StatusActive
	f.auctionRepo.auctions[running.ID] = running

	swept, err := f.uc.CloseExpiredAuctions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	// the won auction got its order and was flipped to ended
	order, err := f.orderRepo.GetByAuction(context.Background(), won.ID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, f.buyer.ID, order.BuyerID)
	assert.Equal(t, auctiondomain.StatusEnded, won.Status)

	// the unsold auction ends without an order
	assert.Equal(t, auctiondomain.StatusEnded, unsold.Status)
	noOrder, err := f.orderRepo.GetByAuction(context.Background(), unsold.ID)
	require.NoError(t, err)
	assert.Nil(t, noOrder)

	// the still-running auction is untouched
	assert.Equal(t, auctiondomain.StatusActive, running.Status)
}

func TestCloseExpiredAuctions_SecondSweepIsNoop(t *testing.T) {
	f := newFulfillmentFixture(t)
	f.endedAuction(t, auctiondomain.StatusActive)

	swept, err := f.uc.CloseExpiredAuctions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	swept, err = f.uc.CloseExpiredAuctions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, swept)
	assert.Len(t, f.orderRepo.orders, 1)
}
