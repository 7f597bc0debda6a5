package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func activeAuction(endsIn time.Duration) *Auction {
	now := time.Now().UTC()
	a := NewAuction(uuid.New(), uuid.New(), "vintage camera", "", 1000, 100, now.Add(-time.Hour), now.Add(endsIn))
	a.Status = StatusActive
	return a
}

func TestMinNextBid(t *testing.T) {
	a := activeAuction(time.Hour)

	// opening bid may match the start price exactly
	assert.Equal(t, int64(1000), a.MinNextBid())

	a.CurrentPrice = 1500
	a.BidCount = 3
	assert.Equal(t, int64(1600), a.MinNextBid())
}

func TestAcceptsBidsAt(t *testing.T) {
	now := time.Now().UTC()

	a := activeAuction(time.Hour)
	assert.NoError(t, a.AcceptsBidsAt(now))

	ended := activeAuction(-time.Minute)
	assert.ErrorIs(t, ended.AcceptsBidsAt(now), ErrAuctionEnded)

	draft := activeAuction(time.Hour)
	draft.Status = StatusDraft
	assert.ErrorIs(t, draft.AcceptsBidsAt(now), ErrAuctionNotActive)

	removed := activeAuction(time.Hour)
	removed.Status = StatusRemoved
	assert.ErrorIs(t, removed.AcceptsBidsAt(now), ErrAuctionNotActive)
}

func TestClosed(t *testing.T) {
	now := time.Now().UTC()

	assert.False(t, activeAuction(time.Hour).Closed(now))
	assert.True(t, activeAuction(-time.Minute).Closed(now))

	ended := activeAuction(time.Hour)
	ended.Status = StatusEnded
	assert.True(t, ended.Closed(now))

	draft := activeAuction(-time.Minute)
	draft.Status = StatusDraft
	assert.False(t, draft.Closed(now))
}
