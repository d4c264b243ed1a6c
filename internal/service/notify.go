package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/domain"
)

// Notifier receives operational events after they commit. Implementations
// must not block the caller for long.
type Notifier interface {
	SlotActivated(ctx context.Context, entry *domain.QueueEntry)
	CreditsRedeemed(ctx context.Context, wallet string, amount decimal.Decimal, reference string)
	ActivationFailed(ctx context.Context, slotID string, err error)
}

type nopNotifier struct{}

func (nopNotifier) SlotActivated(context.Context, *domain.QueueEntry) {}

func (nopNotifier) CreditsRedeemed(context.Context, string, decimal.Decimal, string) {}

func (nopNotifier) ActivationFailed(context.Context, string, error) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
