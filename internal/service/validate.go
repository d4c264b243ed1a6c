package service

import (
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/config"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]{0,127}$`)

// validIdentifier accepts the opaque ids clients generate for slots,
// sessions and placements.
func validIdentifier(id string) bool {
	return identifierRe.MatchString(id)
}

// validWallet only checks shape. Chain-specific checksums are left to the
// payment rail.
func validWallet(addr string) bool {
	return identifierRe.MatchString(addr)
}

// validAmountScale rejects amounts finer than the stored precision, so both
// stores keep exactly what the caller sent.
func validAmountScale(amounts ...decimal.Decimal) bool {
	for _, d := range amounts {
		if !d.Equal(d.Truncate(config.AmountScale)) {
			return false
		}
	}
	return true
}
