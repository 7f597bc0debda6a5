package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a +1/-1 feedback score one order participant leaves for the
// other, keyed by (from, to, auction). Upsertable: a later rating for the
// same order replaces the earlier one.
type Rating struct {
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	AuctionID  uuid.UUID
	Score      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidScore reports whether score is one of the two allowed values.
func ValidScore(score int) bool {
	return score == 1 || score == -1
}

// RatingDelta computes the adjustment to the target user's aggregate counters
// when a rating changes from old (nil when rating for the first time) to
// newScore. Re-rating with the same score is a no-op.
func RatingDelta(old *Rating, newScore int) (deltaPositive, deltaNegative int) {
	if old != nil {
		if old.Score == newScore {
			return 0, 0
		}
		if old.Score == 1 {
			deltaPositive--
		} else {
			deltaNegative--
		}
	}
	if newScore == 1 {
		deltaPositive++
	} else {
		deltaNegative++
	}
	return deltaPositive, deltaNegative
}
