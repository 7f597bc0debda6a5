package domain

import "errors"

var (
	ErrAuctionNotFound    = errors.New("auction not found")
	ErrAuctionNotActive   = errors.New("auction is not active")
	ErrAuctionEnded       = errors.New("auction has ended")
	ErrOwnBidNotAllowed   = errors.New("seller cannot bid on own auction")
	ErrInvalidBidInput    = errors.New("bid amount must be a positive integer")
	ErrBidAmountTooLow    = errors.New("bid amount is below the minimum next bid")
	ErrCeilingTooLow      = errors.New("proxy ceiling is below the minimum next bid")
	ErrBidderRejected     = errors.New("bidder is excluded from this auction")
	ErrApprovalRequired   = errors.New("bidder is not approved for this auction")
	ErrBidRequestNotFound = errors.New("bid request not found")
	ErrNotProductOwner    = errors.New("caller does not own the auction")
)
