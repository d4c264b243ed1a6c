package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/domain"
)

// PaymentVerifier confirms an out-of-band payment actually settled on its
// rail. The memo and amount checks happen before it is consulted.
type PaymentVerifier interface {
	Verify(ctx context.Context, proof domain.PaymentProof) error
}

// FormatMemo builds the memo the checkout attaches to its payment.
func FormatMemo(prefix, slotID string, discount decimal.Decimal) string {
	return fmt.Sprintf("%s:%s:%s", prefix, slotID, discount.String())
}

func parseMemo(prefix, memo string) (slotID string, discount decimal.Decimal, err error) {
	rest, ok := strings.CutPrefix(memo, prefix+":")
	if !ok {
		return "", decimal.Zero, fmt.Errorf("memo prefix: %w", domain.ErrPaymentUnverified)
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 {
		return "", decimal.Zero, fmt.Errorf("memo format: %w", domain.ErrPaymentUnverified)
	}
	discount, err = decimal.NewFromString(rest[i+1:])
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("memo discount: %w", domain.ErrPaymentUnverified)
	}
	return rest[:i], discount, nil
}

// checkPaymentProof validates what the proof itself claims: the memo names
// this slot and discount, and enough was paid to cover the payable amount.
func checkPaymentProof(prefix string, proof domain.PaymentProof, slotID string, discount, payable decimal.Decimal) error {
	if strings.TrimSpace(proof.TransactionHash) == "" {
		return fmt.Errorf("missing transaction hash: %w", domain.ErrPaymentUnverified)
	}
	memoSlot, memoDiscount, err := parseMemo(prefix, proof.Memo)
	if err != nil {
		return err
	}
	if memoSlot != slotID {
		return fmt.Errorf("memo names slot %q: %w", memoSlot, domain.ErrPaymentUnverified)
	}
	if !memoDiscount.Equal(discount) {
		return fmt.Errorf("memo discount %s, bid discount %s: %w", memoDiscount, discount, domain.ErrPaymentUnverified)
	}
	if proof.AmountPaid.LessThan(payable) {
		return fmt.Errorf("paid %s, payable %s: %w", proof.AmountPaid, payable, domain.ErrPaymentUnverified)
	}
	return nil
}
