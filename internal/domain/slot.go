package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContentKind string

const (
	ContentKindImage ContentKind = "image"
	ContentKindVideo ContentKind = "video"
	ContentKindText  ContentKind = "text"
)

func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindImage, ContentKindVideo, ContentKindText:
		return true
	}
	return false
}

type AdSlot struct {
	ID               string
	MinimumBasePrice decimal.Decimal
	DurationOptions  []time.Duration
	Category         string
	CreatedAt        time.Time
}

// AllowsDuration reports whether d is one of the slot's occupancy lengths.
func (s *AdSlot) AllowsDuration(d time.Duration) bool {
	for _, opt := range s.DurationOptions {
		if opt == d {
			return true
		}
	}
	return false
}
