package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/repository"
	"github.com/swift-add/website/internal/repository/sqlc"
)

// ActivationService promotes queued bids into the slot as occupants expire.
// Every pass re-derives due transitions from stored timestamps, so passes may
// be sparse, late or duplicated without losing or repeating a transition.
type ActivationService struct {
	store  repository.Store
	notify Notifier
	now    func() time.Time
}

func NewActivationService(store repository.Store, notify Notifier) *ActivationService {
	return &ActivationService{store: store, notify: orNop(notify), now: time.Now}
}

// ProcessQueue runs one pass over every due slot and returns how many slots
// got a new occupant. A failing slot is logged and skipped.
func (s *ActivationService) ProcessQueue(ctx context.Context) int {
	due, err := s.store.ListSlotsDueForActivation(ctx, timeToPgTimestamptz(s.now()))
	if err != nil {
		slog.Error("list slots due for activation", "error", err)
		s.notify.ActivationFailed(ctx, "", err)
		return 0
	}

	activated := 0
	for _, slotID := range due {
		if ctx.Err() != nil {
			break
		}
		ok, err := s.ActivateSlot(ctx, slotID)
		if err != nil {
			slog.Error("activate slot", "slot_id", slotID, "error", err)
			s.notify.ActivationFailed(ctx, slotID, err)
			continue
		}
		if ok {
			activated++
		}
	}
	if activated > 0 {
		slog.Info("activation pass", "due", len(due), "activated", activated)
	}
	return activated
}

// ActivateSlot expires the slot's occupant if its time is up and promotes the
// head of the queue when the slot is free. It reports whether an entry was
// activated. The slot row lock serializes concurrent passes.
func (s *ActivationService) ActivateSlot(ctx context.Context, slotID string) (bool, error) {
	now := s.now()

	var promoted *domain.QueueEntry
	err := s.store.ExecTx(ctx, func(q sqlc.Querier) error {
		if _, err := q.GetSlotForUpdate(ctx, slotID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrSlotNotFound
			}
			return fmt.Errorf("lock slot: %w", err)
		}

		active, queued, err := slotEntries(ctx, q, slotID)
		if err != nil {
			return err
		}

		if active != nil {
			if active.ExpiresAt != nil && active.ExpiresAt.After(now) {
				return nil
			}
			if err := q.SetQueueEntryStatus(ctx, sqlc.SetQueueEntryStatusParams{
				ID:     active.ID,
				Status: string(domain.EntryStatusExpired),
			}); err != nil {
				return fmt.Errorf("expire entry: %w", err)
			}
		}

		if len(queued) == 0 {
			return nil
		}
		head := queued[0]
		row, err := q.ActivateQueueEntry(ctx, sqlc.ActivateQueueEntryParams{
			ID:        head.ID,
			StartsAt:  timeToPgTimestamptz(now),
			ExpiresAt: timeToPgTimestamptz(now.Add(head.Duration)),
		})
		if err != nil {
			return fmt.Errorf("activate entry: %w", err)
		}
		promoted = rowToEntry(row)
		return nil
	})
	if err != nil {
		return false, err
	}
	if promoted == nil {
		return false, nil
	}

	slog.Info("slot activated",
		"slot_id", slotID,
		"entry_id", promoted.ID,
		"expires_at", *promoted.ExpiresAt,
	)
	s.notify.SlotActivated(ctx, promoted)
	return true, nil
}
