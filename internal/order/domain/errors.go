package domain

import "errors"

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderInvalidState     = errors.New("order is not in the required state")
	ErrOrderForbidden        = errors.New("caller is not allowed to act on this order")
	ErrAuctionStillOpen      = errors.New("auction has not closed yet")
	ErrNoWinningBid          = errors.New("auction closed without a winning bid")
	ErrMissingPaymentDetails = errors.New("payment method and shipping address are required")
	ErrInvalidRatingScore    = errors.New("rating score must be +1 or -1")
	ErrEmptyChatMessage      = errors.New("chat message body is empty")
)
