package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrBidTooLow           = errors.New("bid below current minimum")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrSlotExists          = errors.New("slot already exists")
	ErrPlacementNotFound   = errors.New("placement not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDuration     = errors.New("duration not offered by slot")
	ErrInvalidCreative     = errors.New("invalid creative")
	ErrInvalidWallet       = errors.New("invalid wallet address")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrDiscountTooHigh     = errors.New("discount exceeds allowed maximum")
	ErrPaymentUnverified   = errors.New("external payment unverified")
	ErrPaymentAlreadyUsed  = errors.New("payment already used for another bid")
	ErrRateLimited         = errors.New("too many requests")
)

// BidTooLowError reports the minimum a bid must reach to be accepted.
type BidTooLowError struct {
	Minimum decimal.Decimal
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("%s: minimum is %s", ErrBidTooLow, e.Minimum.String())
}

func (e *BidTooLowError) Is(target error) bool {
	return target == ErrBidTooLow
}
