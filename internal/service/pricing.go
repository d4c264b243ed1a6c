package service

import (
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/config"
)

// Pricing turns a bid and a credit balance into what the bidder must pay.
type Pricing struct {
	MaxDiscountRatio decimal.Decimal
	MinPaymentFloor  decimal.Decimal
}

type Payable struct {
	Discount decimal.Decimal
	Payable  decimal.Decimal
}

// ComputePayable has no side effects; credits are redeemed only once the
// bid carrying the payment is accepted.
func (p Pricing) ComputePayable(bidAmount, availableCredits decimal.Decimal) Payable {
	if availableCredits.IsNegative() {
		availableCredits = decimal.Zero
	}
	// Rounded down so the cap never exceeds the ratio once stored.
	maxDiscount := bidAmount.Mul(p.MaxDiscountRatio).Truncate(config.AmountScale)
	if maxDiscount.IsNegative() {
		maxDiscount = decimal.Zero
	}
	discount := decimal.Min(availableCredits, maxDiscount)
	return Payable{
		Discount: discount,
		Payable:  p.payableAfter(bidAmount, discount),
	}
}

func (p Pricing) payableAfter(bidAmount, discount decimal.Decimal) decimal.Decimal {
	return decimal.Max(p.MinPaymentFloor, bidAmount.Sub(discount))
}
