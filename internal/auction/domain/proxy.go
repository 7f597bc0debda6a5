package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ProxyCeiling is a standing instruction to bid on a user's behalf up to
// MaxPrice. One per (auction, bidder); upserted while the auction is active.
type ProxyCeiling struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	MaxPrice  int64
	CreatedAt time.Time
}

// PlannedBid is one automatic counter-bid computed by RunProxyChain, in the
// order it must be inserted.
type PlannedBid struct {
	BidderID uuid.UUID
	Amount   int64
}

// maxProxyRounds bounds the resolution loop. The loop already terminates
// because the running price strictly increases by one step per round; the cap
// is a safety valve against a corrupt step configuration.
const maxProxyRounds = 1000

// RunProxyChain simulates the automatic counter-bidding that follows a bid of
// startPrice by leader. Each round the weakest ceiling still able to meet the
// running price plus one step answers first, and its bid is exactly that
// minimum increment, never a jump toward its ceiling. On equal ceilings the
// newer one answers first, which leaves the older ceiling in front once both
// are exhausted. The strongest ceiling therefore ends up leading at the lowest
// price that beats every rival, without its ceiling ever being revealed.
//
// It returns the planned automatic bids in insertion order together with the
// final leader and final price.
func RunProxyChain(ceilings []*ProxyCeiling, step, startPrice int64, leader uuid.UUID) ([]PlannedBid, uuid.UUID, int64) {
	price := startPrice
	var plan []PlannedBid

	for range maxProxyRounds {
		next := price + step
		candidates := lo.Filter(ceilings, func(c *ProxyCeiling, _ int) bool {
			return c.BidderID != leader && c.MaxPrice >= next
		})
		if len(candidates) == 0 {
			break
		}

		competitor := lo.MinBy(candidates, func(a, b *ProxyCeiling) bool {
			if a.MaxPrice != b.MaxPrice {
				return a.MaxPrice < b.MaxPrice
			}
			return a.CreatedAt.After(b.CreatedAt)
		})

		plan = append(plan, PlannedBid{BidderID: competitor.BidderID, Amount: next})
		price = next
		leader = competitor.BidderID
	}

	return plan, leader, price
}
