package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/repository"
	"github.com/swift-add/website/internal/repository/sqlc"
)

type SlotService struct {
	store repository.Store
}

func NewSlotService(store repository.Store) *SlotService {
	return &SlotService{store: store}
}

type CreateSlotRequest struct {
	ID               string
	MinimumBasePrice decimal.Decimal
	DurationOptions  []time.Duration
	Category         string
}

// Create registers a slot. Without explicit durations the slot offers the
// default set.
func (s *SlotService) Create(ctx context.Context, req CreateSlotRequest) (*domain.AdSlot, error) {
	if !validIdentifier(req.ID) {
		return nil, domain.ErrInvalidIdentifier
	}
	if !req.MinimumBasePrice.IsPositive() || !validAmountScale(req.MinimumBasePrice) {
		return nil, domain.ErrInvalidAmount
	}

	durations := req.DurationOptions
	if len(durations) == 0 {
		durations = config.DefaultDurationOptions
	}
	seen := make(map[int64]bool, len(durations))
	secs := make([]int64, 0, len(durations))
	for _, d := range durations {
		if d < time.Second || d%time.Second != 0 {
			return nil, fmt.Errorf("%s: %w", d, domain.ErrInvalidDuration)
		}
		v := int64(d / time.Second)
		if seen[v] {
			continue
		}
		seen[v] = true
		secs = append(secs, v)
	}

	row, err := s.store.CreateSlot(ctx, sqlc.CreateSlotParams{
		SlotID:           req.ID,
		MinimumBasePrice: req.MinimumBasePrice,
		DurationOptions:  secs,
		Category:         req.Category,
	})
	if repository.IsUniqueViolation(err) {
		return nil, domain.ErrSlotExists
	}
	if err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return rowToSlot(row), nil
}

func (s *SlotService) Get(ctx context.Context, slotID string) (*domain.AdSlot, error) {
	if !validIdentifier(slotID) {
		return nil, domain.ErrInvalidIdentifier
	}
	row, err := s.store.GetSlot(ctx, slotID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return rowToSlot(row), nil
}

func (s *SlotService) List(ctx context.Context) ([]*domain.AdSlot, error) {
	rows, err := s.store.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	slots := make([]*domain.AdSlot, len(rows))
	for i, row := range rows {
		slots[i] = rowToSlot(row)
	}
	return slots, nil
}
