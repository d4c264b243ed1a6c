package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ViewSession struct {
	SessionID         string
	PlacementID       string
	SlotID            string
	WalletAddress     *string
	MilestonesReached []int
	CreatedAt         time.Time
}

// NextMilestone returns the first milestone of seq the session has not reached.
func (v *ViewSession) NextMilestone(seq []int) (int, bool) {
	reached := make(map[int]bool, len(v.MilestonesReached))
	for _, m := range v.MilestonesReached {
		reached[m] = true
	}
	for _, m := range seq {
		if !reached[m] {
			return m, true
		}
	}
	return 0, false
}

type ViewMilestone struct {
	SessionID        string
	PlacementID      string
	SlotID           string
	MilestoneSeconds int
	Credits          decimal.Decimal
	WalletAddress    *string
	Credited         bool
	ReachedAt        time.Time
}

// CreditSchedule maps a milestone (seconds) to the credit it yields.
type CreditSchedule map[int]decimal.Decimal

func (s CreditSchedule) For(milestone int) decimal.Decimal {
	if v, ok := s[milestone]; ok {
		return v
	}
	return decimal.Zero
}
