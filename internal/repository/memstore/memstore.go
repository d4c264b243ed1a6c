// Package memstore is an in-process implementation of repository.Store.
//
// It mirrors the postgres schema closely enough for the services to behave
// identically: missing rows surface as pgx.ErrNoRows, constraint failures as
// *pgconn.PgError with the matching SQLSTATE. ExecTx runs against a private
// copy of the state and swaps it in on success, so a failed transaction
// leaves nothing behind. All access is serialized by one mutex.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/repository/sqlc"
)

type Option func(*Store)

// WithClock overrides the clock used for NOW() columns and rate-limit windows.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func New(opts ...Option) *Store {
	s := &Store{st: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ExecTx(ctx context.Context, fn func(q sqlc.Querier) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.st.clone()
	if err := fn(&tx{st: working, now: s.now}); err != nil {
		return err
	}
	s.st = working
	return nil
}

// lock returns a querier over the live state; callers must invoke unlock.
func (s *Store) lock() (*tx, func()) {
	s.mu.Lock()
	return &tx{st: s.st, now: s.now}, s.mu.Unlock
}

func (s *Store) ActivateQueueEntry(ctx context.Context, arg sqlc.ActivateQueueEntryParams) (sqlc.QueueEntry, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.ActivateQueueEntry(ctx, arg)
}

func (s *Store) AddCreditBalance(ctx context.Context, arg sqlc.AddCreditBalanceParams) (decimal.Decimal, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.AddCreditBalance(ctx, arg)
}

func (s *Store) AttachSessionWallet(ctx context.Context, arg sqlc.AttachSessionWalletParams) error {
	t, unlock := s.lock()
	defer unlock()
	return t.AttachSessionWallet(ctx, arg)
}

func (s *Store) CheckAndIncrementRateLimit(ctx context.Context, key string) (int32, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.CheckAndIncrementRateLimit(ctx, key)
}

func (s *Store) CreateCreditAward(ctx context.Context, arg sqlc.CreateCreditAwardParams) (sqlc.CreditAward, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.CreateCreditAward(ctx, arg)
}

func (s *Store) CreateCreditHistory(ctx context.Context, arg sqlc.CreateCreditHistoryParams) (sqlc.CreditHistory, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.CreateCreditHistory(ctx, arg)
}

func (s *Store) CreateQueueEntry(ctx context.Context, arg sqlc.CreateQueueEntryParams) (sqlc.QueueEntry, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.CreateQueueEntry(ctx, arg)
}

func (s *Store) CreateSlot(ctx context.Context, arg sqlc.CreateSlotParams) (sqlc.AdSlot, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.CreateSlot(ctx, arg)
}

func (s *Store) CreateViewSession(ctx context.Context, arg sqlc.CreateViewSessionParams) error {
	t, unlock := s.lock()
	defer unlock()
	return t.CreateViewSession(ctx, arg)
}

func (s *Store) CreateViewMilestone(ctx context.Context, arg sqlc.CreateViewMilestoneParams) (sqlc.ViewMilestone, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.CreateViewMilestone(ctx, arg)
}

func (s *Store) DebitCreditBalance(ctx context.Context, arg sqlc.DebitCreditBalanceParams) (decimal.Decimal, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.DebitCreditBalance(ctx, arg)
}

func (s *Store) GetActiveEntry(ctx context.Context, slotID string) (sqlc.QueueEntry, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.GetActiveEntry(ctx, slotID)
}

func (s *Store) GetCreditBalance(ctx context.Context, walletAddress string) (sqlc.CreditBalance, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.GetCreditBalance(ctx, walletAddress)
}

func (s *Store) GetQueueEntry(ctx context.Context, id string) (sqlc.QueueEntry, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.GetQueueEntry(ctx, id)
}

func (s *Store) GetQueueEntryByPaymentTx(ctx context.Context, paymentTxHash string) (sqlc.QueueEntry, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.GetQueueEntryByPaymentTx(ctx, paymentTxHash)
}

func (s *Store) GetSlot(ctx context.Context, slotID string) (sqlc.AdSlot, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.GetSlot(ctx, slotID)
}

func (s *Store) GetSlotForUpdate(ctx context.Context, slotID string) (sqlc.AdSlot, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.GetSlotForUpdate(ctx, slotID)
}


func (s *Store) ListCreditHistory(ctx context.Context, arg sqlc.ListCreditHistoryParams) ([]sqlc.CreditHistory, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.ListCreditHistory(ctx, arg)
}

func (s *Store) ListQueuedEntries(ctx context.Context, slotID string) ([]sqlc.QueueEntry, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.ListQueuedEntries(ctx, slotID)
}

func (s *Store) ListSlots(ctx context.Context) ([]sqlc.AdSlot, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.ListSlots(ctx)
}

func (s *Store) ListSlotsDueForActivation(ctx context.Context, now pgtype.Timestamptz) ([]string, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.ListSlotsDueForActivation(ctx, now)
}

func (s *Store) ListUncreditedMilestones(ctx context.Context, sessionID string) ([]sqlc.ViewMilestone, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.ListUncreditedMilestones(ctx, sessionID)
}

func (s *Store) LockViewSessions(ctx context.Context, sessionID string) ([]sqlc.ViewSession, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.LockViewSessions(ctx, sessionID)
}

func (s *Store) ListViewMilestones(ctx context.Context, arg sqlc.ListViewMilestonesParams) ([]sqlc.ViewMilestone, error) {
	t, unlock := s.lock()
	defer unlock()
	return t.ListViewMilestones(ctx, arg)
}

func (s *Store) MarkMilestoneCredited(ctx context.Context, arg sqlc.MarkMilestoneCreditedParams) error {
	t, unlock := s.lock()
	defer unlock()
	return t.MarkMilestoneCredited(ctx, arg)
}

func (s *Store) SetQueueEntryStatus(ctx context.Context, arg sqlc.SetQueueEntryStatusParams) error {
	t, unlock := s.lock()
	defer unlock()
	return t.SetQueueEntryStatus(ctx, arg)
}
