package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryStatus string

const (
	EntryStatusQueued     EntryStatus = "queued"
	EntryStatusActive     EntryStatus = "active"
	EntryStatusExpired    EntryStatus = "expired"
	EntryStatusSuperseded EntryStatus = "superseded"
)

type Creative struct {
	Kind        ContentKind
	ContentURL  string
	ClickURL    string
	Description string
}

type QueueEntry struct {
	ID              string
	Seq             int64
	SlotID          string
	BidderWallet    string
	BidAmount       decimal.Decimal
	AmountPaid      decimal.Decimal
	DiscountApplied decimal.Decimal
	Duration        time.Duration
	Status          EntryStatus
	Creative        Creative
	PaymentTxHash   string
	SubmittedAt     time.Time
	StartsAt        *time.Time
	ExpiresAt       *time.Time
}

// PlacementID identifies the creative instance shown while the entry occupies its slot.
func (e *QueueEntry) PlacementID() string {
	return e.ID
}

// TimeRemaining is expiresAt - now, clamped to zero.
func (e *QueueEntry) TimeRemaining(now time.Time) time.Duration {
	if e.ExpiresAt == nil {
		return 0
	}
	left := e.ExpiresAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// RanksBefore orders queued entries: higher bid first, then earlier submission.
func RanksBefore(a, b *QueueEntry) bool {
	if c := a.BidAmount.Cmp(b.BidAmount); c != 0 {
		return c > 0
	}
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.Before(b.SubmittedAt)
	}
	return a.Seq < b.Seq
}

type CurrentAd struct {
	EntryID       string
	ExpiresAt     time.Time
	TimeRemaining time.Duration
}

// QueuedBid is a queued entry with its rank and projected occupancy window.
type QueuedBid struct {
	EntryID   string
	Position  int
	BidAmount decimal.Decimal
	StartsAt  time.Time
	ExpiresAt time.Time
}

type QueueInfo struct {
	SlotID       string
	IsAvailable  bool
	MinimumBid   decimal.Decimal
	TotalInQueue int
	CurrentAd    *CurrentAd
	Queue        []QueuedBid
}
