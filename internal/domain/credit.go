package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreditEntryType string

const (
	CreditEntryAward      CreditEntryType = "award"
	CreditEntryRedemption CreditEntryType = "redemption"
)

type CreditBalance struct {
	WalletAddress string
	TotalCredits  decimal.Decimal
	UpdatedAt     time.Time
}

type CreditRecord struct {
	ID            int64
	WalletAddress string
	Amount        decimal.Decimal
	EntryType     CreditEntryType
	Reference     string
	CreatedAt     time.Time
}

// PaymentProof is what the checkout flow presents after paying out-of-band.
type PaymentProof struct {
	TransactionHash string
	AmountPaid      decimal.Decimal
	Memo            string
}
