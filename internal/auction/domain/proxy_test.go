package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ceilingAt(bidderID uuid.UUID, maxPrice int64, createdAt time.Time) *ProxyCeiling {
	return &ProxyCeiling{
		AuctionID: uuid.New(),
		BidderID:  bidderID,
		MaxPrice:  maxPrice,
		CreatedAt: createdAt,
	}
}

func TestRunProxyChain_NoCeilings(t *testing.T) {
	bidder := uuid.New()

	plan, leader, price := RunProxyChain(nil, 50, 900, bidder)

	assert.Empty(t, plan)
	assert.Equal(t, bidder, leader)
	assert.Equal(t, int64(900), price)
}

func TestRunProxyChain_TwoCeilingsSettleAtLowerPlusStep(t *testing.T) {
	bidderA := uuid.New()
	bidderB := uuid.New()
	trigger := uuid.New()
	base := time.Now().UTC()

	ceilings := []*ProxyCeiling{
		ceilingAt(bidderA, 1000, base),
		ceilingAt(bidderB, 1200, base.Add(time.Minute)),
	}

	plan, leader, price := RunProxyChain(ceilings, 50, 900, trigger)

	require.Len(t, plan, 2)
	assert.Equal(t, PlannedBid{BidderID: bidderA, Amount: 950}, plan[0])
	assert.Equal(t, PlannedBid{BidderID: bidderB, Amount: 1000}, plan[1])
	assert.Equal(t, bidderB, leader)
	assert.Equal(t, int64(1000), price)
}

func TestRunProxyChain_EqualCeilingsEarlierWins(t *testing.T) {
	earlier := uuid.New()
	later := uuid.New()
	trigger := uuid.New()
	base := time.Now().UTC()

	ceilings := []*ProxyCeiling{
		ceilingAt(earlier, 1000, base),
		ceilingAt(later, 1000, base.Add(time.Minute)),
	}

	_, leader, price := RunProxyChain(ceilings, 50, 900, trigger)

	assert.Equal(t, earlier, leader)
	assert.Equal(t, int64(1000), price)
}

func TestRunProxyChain_ManualBidUnderStandingCeiling(t *testing.T) {
	holder := uuid.New()
	challenger := uuid.New()

	ceilings := []*ProxyCeiling{
		ceilingAt(holder, 15000, time.Now().UTC()),
	}

	plan, leader, price := RunProxyChain(ceilings, 1000, 11000, challenger)

	require.Len(t, plan, 1)
	assert.Equal(t, PlannedBid{BidderID: holder, Amount: 12000}, plan[0])
	assert.Equal(t, holder, leader)
	assert.Equal(t, int64(12000), price)
}

func TestRunProxyChain_LeaderOwnCeilingNeverCountersItself(t *testing.T) {
	bidder := uuid.New()

	ceilings := []*ProxyCeiling{
		ceilingAt(bidder, 5000, time.Now().UTC()),
	}

	plan, leader, price := RunProxyChain(ceilings, 100, 1000, bidder)

	assert.Empty(t, plan)
	assert.Equal(t, bidder, leader)
	assert.Equal(t, int64(1000), price)
}

func TestRunProxyChain_PricesStrictlyIncrease(t *testing.T) {
	base := time.Now().UTC()
	ceilings := []*ProxyCeiling{
		ceilingAt(uuid.New(), 2000, base),
		ceilingAt(uuid.New(), 3500, base.Add(time.Second)),
		ceilingAt(uuid.New(), 3500, base.Add(2*time.Second)),
	}

	plan, _, price := RunProxyChain(ceilings, 100, 1000, uuid.New())

	prev := int64(1000)
	for _, p := range plan {
		assert.Greater(t, p.Amount, prev)
		prev = p.Amount
	}
	assert.Equal(t, prev, price)
}

func TestRunProxyChain_InsufficientCeilingIgnored(t *testing.T) {
	weak := uuid.New()
	trigger := uuid.New()

	// a ceiling below price+step can never counter
	ceilings := []*ProxyCeiling{
		ceilingAt(weak, 940, time.Now().UTC()),
	}

	plan, leader, price := RunProxyChain(ceilings, 50, 900, trigger)

	assert.Empty(t, plan)
	assert.Equal(t, trigger, leader)
	assert.Equal(t, int64(900), price)
}
