package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/repository"
	"github.com/swift-add/website/internal/repository/sqlc"
)

type QueueConfig struct {
	BidIncrement        decimal.Decimal
	Pricing             Pricing
	MemoPrefix          string
	RequirePaymentProof bool
}

// QueueService owns the per-slot bid queue: admission, ordering and reads.
type QueueService struct {
	store    repository.Store
	cfg      QueueConfig
	verifier PaymentVerifier
	notify   Notifier
	now      func() time.Time
}

// NewQueueService builds the queue manager. verifier may be nil when the
// payment rail is trusted to have settled before the bid arrives.
func NewQueueService(store repository.Store, cfg QueueConfig, verifier PaymentVerifier, notify Notifier) *QueueService {
	return &QueueService{
		store:    store,
		cfg:      cfg,
		verifier: verifier,
		notify:   orNop(notify),
		now:      time.Now,
	}
}

type BidRequest struct {
	SlotID          string
	BidderWallet    string
	BidAmount       decimal.Decimal
	Duration        time.Duration
	DiscountApplied decimal.Decimal
	Creative        domain.Creative
	Payment         domain.PaymentProof
}

type BidResult struct {
	Entry    *domain.QueueEntry
	Position int
	// Replayed is set when the payment was already accepted for this same
	// bid and the stored entry is returned instead of a new one.
	Replayed bool
}

// SubmitBid admits a bid into the slot's queue. The minimum check, the
// discount redemption and the insert run under the slot row lock.
func (s *QueueService) SubmitBid(ctx context.Context, req BidRequest) (*BidResult, error) {
	if err := s.validateBid(req); err != nil {
		return nil, err
	}

	discount := req.DiscountApplied
	payable := s.cfg.Pricing.payableAfter(req.BidAmount, discount)
	txHash := req.Payment.TransactionHash

	if s.cfg.RequirePaymentProof {
		if err := checkPaymentProof(s.cfg.MemoPrefix, req.Payment, req.SlotID, discount, payable); err != nil {
			return nil, err
		}
		if s.verifier != nil {
			if err := s.verifier.Verify(ctx, req.Payment); err != nil {
				return nil, fmt.Errorf("verify payment: %w: %w", domain.ErrPaymentUnverified, err)
			}
		}
	}

	entryID := uuid.NewString()
	if txHash == "" {
		txHash = "unverified:" + entryID
	}
	amountPaid := req.Payment.AmountPaid
	if amountPaid.IsZero() && !s.cfg.RequirePaymentProof {
		amountPaid = payable
	}
	now := s.now()

	var result *BidResult
	err := s.store.ExecTx(ctx, func(q sqlc.Querier) error {
		slot, err := q.GetSlotForUpdate(ctx, req.SlotID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSlotNotFound
		}
		if err != nil {
			return fmt.Errorf("lock slot: %w", err)
		}
		if !rowToSlot(slot).AllowsDuration(req.Duration) {
			return domain.ErrInvalidDuration
		}

		active, queued, err := slotEntries(ctx, q, req.SlotID)
		if err != nil {
			return err
		}

		if req.Payment.TransactionHash != "" {
			prior, err := q.GetQueueEntryByPaymentTx(ctx, txHash)
			if err == nil {
				existing := rowToEntry(prior)
				if !sameBid(existing, req) {
					return domain.ErrPaymentAlreadyUsed
				}
				result = &BidResult{
					Entry:    existing,
					Position: queuePosition(existing, active, queued),
					Replayed: true,
				}
				return nil
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("lookup payment: %w", err)
			}
		}

		minimum := minimumBid(slot.MinimumBasePrice, s.cfg.BidIncrement, active, queued)
		if req.BidAmount.LessThan(minimum) {
			return &domain.BidTooLowError{Minimum: minimum}
		}

		if discount.IsPositive() {
			balance, err := balanceOf(ctx, q, req.BidderWallet)
			if err != nil {
				return err
			}
			if discount.GreaterThan(s.cfg.Pricing.ComputePayable(req.BidAmount, balance).Discount) {
				if discount.GreaterThan(balance) {
					return domain.ErrInsufficientCredits
				}
				return domain.ErrDiscountTooHigh
			}
			if _, err := redeemTx(ctx, q, req.BidderWallet, discount, "bid:"+entryID); err != nil {
				return err
			}
		}

		row, err := q.CreateQueueEntry(ctx, sqlc.CreateQueueEntryParams{
			ID:              entryID,
			SlotID:          req.SlotID,
			BidderWallet:    req.BidderWallet,
			BidAmount:       req.BidAmount,
			AmountPaid:      amountPaid,
			DiscountApplied: discount,
			DurationSeconds: int64(req.Duration / time.Second),
			ContentKind:     string(req.Creative.Kind),
			ContentUrl:      req.Creative.ContentURL,
			ClickUrl:        req.Creative.ClickURL,
			Description:     req.Creative.Description,
			PaymentTxHash:   txHash,
			SubmittedAt:     timeToPgTimestamptz(now),
		})
		if repository.IsUniqueViolation(err) {
			return domain.ErrPaymentAlreadyUsed
		}
		if err != nil {
			return fmt.Errorf("create queue entry: %w", err)
		}

		entry := rowToEntry(row)
		result = &BidResult{Entry: entry, Position: queuePosition(entry, active, queued)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Replayed {
		slog.Info("bid replayed", "slot_id", req.SlotID, "entry_id", result.Entry.ID)
		return result, nil
	}

	slog.Info("bid queued",
		"slot_id", req.SlotID,
		"entry_id", result.Entry.ID,
		"bid", req.BidAmount.String(),
		"position", result.Position,
	)
	if discount.IsPositive() {
		s.notify.CreditsRedeemed(ctx, req.BidderWallet, discount, "bid:"+entryID)
	}
	return result, nil
}

func (s *QueueService) validateBid(req BidRequest) error {
	if !validIdentifier(req.SlotID) {
		return domain.ErrInvalidIdentifier
	}
	if !validWallet(req.BidderWallet) {
		return domain.ErrInvalidWallet
	}
	if !req.BidAmount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if req.DiscountApplied.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if !validAmountScale(req.BidAmount, req.DiscountApplied, req.Payment.AmountPaid) {
		return domain.ErrInvalidAmount
	}
	if req.Duration <= 0 || req.Duration%time.Second != 0 {
		return domain.ErrInvalidDuration
	}
	return ValidateCreative(req.Creative)
}

// sameBid reports whether req is a retry of the bid stored as e.
func sameBid(e *domain.QueueEntry, req BidRequest) bool {
	return e.SlotID == req.SlotID &&
		e.BidderWallet == req.BidderWallet &&
		e.BidAmount.Equal(req.BidAmount) &&
		e.DiscountApplied.Equal(req.DiscountApplied) &&
		e.Duration == req.Duration
}

// queuePosition is 1 for the active entry, the 1-indexed rank for a queued
// one (shifted by one while the slot is occupied) and 0 once it has run.
func queuePosition(e *domain.QueueEntry, active *domain.QueueEntry, queued []*domain.QueueEntry) int {
	switch {
	case active != nil && active.ID == e.ID:
		return 1
	case e.Status != domain.EntryStatusQueued:
		return 0
	}
	position := 1
	for _, other := range queued {
		if other.ID != e.ID && domain.RanksBefore(other, e) {
			position++
		}
	}
	if active != nil {
		position++
	}
	return position
}

// minimumBid is the floor a new bid must reach: the base price, raised past
// the active occupant and past the best queued bid.
func minimumBid(base, increment decimal.Decimal, active *domain.QueueEntry, queued []*domain.QueueEntry) decimal.Decimal {
	minimum := base
	if active != nil {
		minimum = decimal.Max(minimum, active.BidAmount.Add(increment))
	}
	if len(queued) > 0 {
		minimum = decimal.Max(minimum, queued[0].BidAmount.Add(increment))
	}
	return minimum
}

// slotEntries returns the active entry (nil when none) and the queued set in
// rank order.
func slotEntries(ctx context.Context, q sqlc.Querier, slotID string) (*domain.QueueEntry, []*domain.QueueEntry, error) {
	var active *domain.QueueEntry
	row, err := q.GetActiveEntry(ctx, slotID)
	switch {
	case err == nil:
		active = rowToEntry(row)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, nil, fmt.Errorf("get active entry: %w", err)
	}

	rows, err := q.ListQueuedEntries(ctx, slotID)
	if err != nil {
		return nil, nil, fmt.Errorf("list queued entries: %w", err)
	}
	return active, rowsToEntries(rows), nil
}

// GetQueueInfo is read-only. Queued entries carry projected start and expiry
// times: each begins when the one ranked ahead of it would end.
func (s *QueueService) GetQueueInfo(ctx context.Context, slotID string) (*domain.QueueInfo, error) {
	if !validIdentifier(slotID) {
		return nil, domain.ErrInvalidIdentifier
	}

	var (
		slot   sqlc.AdSlot
		active *domain.QueueEntry
		queued []*domain.QueueEntry
	)
	err := s.store.ExecTx(ctx, func(q sqlc.Querier) error {
		var err error
		slot, err = q.GetSlot(ctx, slotID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSlotNotFound
		}
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}
		active, queued, err = slotEntries(ctx, q, slotID)
		return err
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	info := &domain.QueueInfo{
		SlotID:       slotID,
		IsAvailable:  active == nil && len(queued) == 0,
		MinimumBid:   minimumBid(slot.MinimumBasePrice, s.cfg.BidIncrement, active, queued),
		TotalInQueue: len(queued),
		Queue:        make([]domain.QueuedBid, 0, len(queued)),
	}

	cursor := now
	if active != nil && active.ExpiresAt != nil {
		info.CurrentAd = &domain.CurrentAd{
			EntryID:       active.ID,
			ExpiresAt:     *active.ExpiresAt,
			TimeRemaining: active.TimeRemaining(now),
		}
		if active.ExpiresAt.After(now) {
			cursor = *active.ExpiresAt
		}
	}
	for i, e := range queued {
		expires := cursor.Add(e.Duration)
		info.Queue = append(info.Queue, domain.QueuedBid{
			EntryID:   e.ID,
			Position:  i + 1,
			BidAmount: e.BidAmount,
			StartsAt:  cursor,
			ExpiresAt: expires,
		})
		cursor = expires
	}
	return info, nil
}

// GetCurrentAd returns the creative occupying the slot, or nil when the slot
// is empty or its occupant has run out and awaits the next activation pass.
func (s *QueueService) GetCurrentAd(ctx context.Context, slotID string) (*domain.QueueEntry, error) {
	if !validIdentifier(slotID) {
		return nil, domain.ErrInvalidIdentifier
	}
	if _, err := s.store.GetSlot(ctx, slotID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}

	row, err := s.store.GetActiveEntry(ctx, slotID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active entry: %w", err)
	}
	entry := rowToEntry(row)
	if entry.TimeRemaining(s.now()) == 0 {
		return nil, nil
	}
	return entry, nil
}

type Quote struct {
	Credits  decimal.Decimal
	Discount decimal.Decimal
	Payable  decimal.Decimal
}

// Quote prices a prospective bid against the bidder's current credits.
func (s *QueueService) Quote(ctx context.Context, wallet string, bidAmount decimal.Decimal) (*Quote, error) {
	if !bidAmount.IsPositive() || !validAmountScale(bidAmount) {
		return nil, domain.ErrInvalidAmount
	}
	credits := decimal.Zero
	if wallet != "" {
		if !validWallet(wallet) {
			return nil, domain.ErrInvalidWallet
		}
		var err error
		credits, err = balanceOf(ctx, s.store, wallet)
		if err != nil {
			return nil, err
		}
	}
	p := s.cfg.Pricing.ComputePayable(bidAmount, credits)
	return &Quote{Credits: credits, Discount: p.Discount, Payable: p.Payable}, nil
}
