package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/swift-add/website/internal/repository"
	"github.com/swift-add/website/internal/repository/sqlc"
)

var _ repository.Store = (*Store)(nil)

func ts(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func seedSlot(t *testing.T, s *Store, id string) {
	t.Helper()
	_, err := s.CreateSlot(context.Background(), sqlc.CreateSlotParams{
		SlotID:           id,
		MinimumBasePrice: decimal.RequireFromString("1"),
		DurationOptions:  []int64{3600},
		Category:         "tech",
	})
	require.NoError(t, err)
}

func queueEntry(id, slot, bid, txHash string, submitted time.Time) sqlc.CreateQueueEntryParams {
	return sqlc.CreateQueueEntryParams{
		ID:              id,
		SlotID:          slot,
		BidderWallet:    "GWALLET",
		BidAmount:       decimal.RequireFromString(bid),
		AmountPaid:      decimal.RequireFromString(bid),
		DiscountApplied: decimal.Zero,
		DurationSeconds: 3600,
		ContentKind:     "image",
		ContentUrl:      "https://cdn.example.com/a.png",
		PaymentTxHash:   txHash,
		SubmittedAt:     ts(submitted),
	}
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.ExecTx(ctx, func(q sqlc.Querier) error {
		_, err := q.AddCreditBalance(ctx, sqlc.AddCreditBalanceParams{
			WalletAddress: "GA",
			TotalCredits:  decimal.RequireFromString("5"),
		})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetCreditBalance(ctx, "GA")
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestExecTx_CancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.ExecTx(ctx, func(q sqlc.Querier) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestCreateSlot_Duplicate(t *testing.T) {
	s := New()
	seedSlot(t, s, "hero")

	_, err := s.CreateSlot(context.Background(), sqlc.CreateSlotParams{
		SlotID:           "hero",
		MinimumBasePrice: decimal.RequireFromString("1"),
	})
	require.True(t, repository.IsUniqueViolation(err))
}

func TestCreateQueueEntry_Constraints(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	_, err := s.CreateQueueEntry(ctx, queueEntry("e1", "missing", "1", "tx1", now))
	require.Error(t, err)
	require.False(t, repository.IsUniqueViolation(err))

	seedSlot(t, s, "hero")
	_, err = s.CreateQueueEntry(ctx, queueEntry("e1", "hero", "1", "tx1", now))
	require.NoError(t, err)

	_, err = s.CreateQueueEntry(ctx, queueEntry("e2", "hero", "1", "tx1", now))
	require.True(t, repository.IsUniqueViolation(err), "payment hash reuse")
}

func TestListQueuedEntries_Order(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedSlot(t, s, "hero")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, p := range []sqlc.CreateQueueEntryParams{
		queueEntry("low", "hero", "1", "tx1", base),
		queueEntry("late", "hero", "3", "tx2", base.Add(2*time.Second)),
		queueEntry("early", "hero", "3", "tx3", base.Add(time.Second)),
		queueEntry("mid", "hero", "2", "tx4", base),
	} {
		_, err := s.CreateQueueEntry(ctx, p)
		require.NoError(t, err)
	}

	rows, err := s.ListQueuedEntries(ctx, "hero")
	require.NoError(t, err)

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	require.Equal(t, []string{"early", "late", "mid", "low"}, ids)
}

func TestActivateQueueEntry_OneActivePerSlot(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedSlot(t, s, "hero")
	now := time.Now()

	_, err := s.CreateQueueEntry(ctx, queueEntry("a", "hero", "2", "tx1", now))
	require.NoError(t, err)
	_, err = s.CreateQueueEntry(ctx, queueEntry("b", "hero", "1", "tx2", now))
	require.NoError(t, err)

	window := sqlc.ActivateQueueEntryParams{StartsAt: ts(now), ExpiresAt: ts(now.Add(time.Hour))}

	window.ID = "a"
	row, err := s.ActivateQueueEntry(ctx, window)
	require.NoError(t, err)
	require.Equal(t, "active", row.Status)

	window.ID = "b"
	_, err = s.ActivateQueueEntry(ctx, window)
	require.True(t, repository.IsUniqueViolation(err))

	window.ID = "a"
	_, err = s.ActivateQueueEntry(ctx, window)
	require.ErrorIs(t, err, pgx.ErrNoRows, "already active")
}

func TestListSlotsDueForActivation(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	seedSlot(t, s, "empty")
	seedSlot(t, s, "waiting")
	seedSlot(t, s, "running")
	seedSlot(t, s, "expired")

	_, err := s.CreateQueueEntry(ctx, queueEntry("w1", "waiting", "1", "tx1", now))
	require.NoError(t, err)

	_, err = s.CreateQueueEntry(ctx, queueEntry("r1", "running", "1", "tx2", now))
	require.NoError(t, err)
	_, err = s.ActivateQueueEntry(ctx, sqlc.ActivateQueueEntryParams{ID: "r1", StartsAt: ts(now), ExpiresAt: ts(now.Add(time.Hour))})
	require.NoError(t, err)

	_, err = s.CreateQueueEntry(ctx, queueEntry("x1", "expired", "1", "tx3", now))
	require.NoError(t, err)
	_, err = s.ActivateQueueEntry(ctx, sqlc.ActivateQueueEntryParams{ID: "x1", StartsAt: ts(now.Add(-time.Hour)), ExpiresAt: ts(now)})
	require.NoError(t, err)

	due, err := s.ListSlotsDueForActivation(ctx, ts(now))
	require.NoError(t, err)
	require.Equal(t, []string{"expired", "waiting"}, due)
}

func TestCreateCreditAward_Idempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	arg := sqlc.CreateCreditAwardParams{IdempotencyKey: "s:p:10", WalletAddress: "GA", Amount: decimal.RequireFromString("0.01")}

	_, err := s.CreateCreditAward(ctx, arg)
	require.NoError(t, err)

	_, err = s.CreateCreditAward(ctx, arg)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestDebitCreditBalance(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.DebitCreditBalance(ctx, sqlc.DebitCreditBalanceParams{WalletAddress: "GA", Amount: decimal.RequireFromString("1")})
	require.ErrorIs(t, err, pgx.ErrNoRows)

	total, err := s.AddCreditBalance(ctx, sqlc.AddCreditBalanceParams{WalletAddress: "GA", TotalCredits: decimal.RequireFromString("2")})
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.RequireFromString("2")))

	_, err = s.DebitCreditBalance(ctx, sqlc.DebitCreditBalanceParams{WalletAddress: "GA", Amount: decimal.RequireFromString("3")})
	require.ErrorIs(t, err, pgx.ErrNoRows)

	total, err = s.DebitCreditBalance(ctx, sqlc.DebitCreditBalanceParams{WalletAddress: "GA", Amount: decimal.RequireFromString("1.5")})
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.RequireFromString("0.5")))
}

func TestViewSession_CreateKeepsFirstRow(t *testing.T) {
	s := New()
	ctx := context.Background()
	wallet := "GA"

	require.NoError(t, s.CreateViewSession(ctx, sqlc.CreateViewSessionParams{SessionID: "s1", PlacementID: "p1", SlotID: "hero", CreatedAt: ts(time.Now())}))
	require.NoError(t, s.CreateViewSession(ctx, sqlc.CreateViewSessionParams{SessionID: "s1", PlacementID: "p1", SlotID: "other", WalletAddress: &wallet}))

	rows, err := s.LockViewSessions(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "hero", rows[0].SlotID)
	require.Nil(t, rows[0].WalletAddress, "wallets are attached, never set by a repeated create")

	require.NoError(t, s.AttachSessionWallet(ctx, sqlc.AttachSessionWalletParams{SessionID: "s1", WalletAddress: &wallet}))
	rows, err = s.LockViewSessions(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, rows[0].WalletAddress)
	require.Equal(t, "GA", *rows[0].WalletAddress)
}

func TestLockViewSessions_OrderedByPlacement(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, p := range []string{"p3", "p1", "p2"} {
		require.NoError(t, s.CreateViewSession(ctx, sqlc.CreateViewSessionParams{SessionID: "s1", PlacementID: p, SlotID: "hero"}))
	}
	require.NoError(t, s.CreateViewSession(ctx, sqlc.CreateViewSessionParams{SessionID: "s2", PlacementID: "p0", SlotID: "hero"}))

	rows, err := s.LockViewSessions(ctx, "s1")
	require.NoError(t, err)
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.PlacementID
	}
	require.Equal(t, []string{"p1", "p2", "p3"}, got)
}

func TestListCreditHistory_NewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, ref := range []string{"first", "second", "third"} {
		_, err := s.CreateCreditHistory(ctx, sqlc.CreateCreditHistoryParams{WalletAddress: "GA", Amount: decimal.NewFromInt(1), EntryType: "award", Reference: ref})
		require.NoError(t, err)
	}
	_, err := s.CreateCreditHistory(ctx, sqlc.CreateCreditHistoryParams{WalletAddress: "GB", Amount: decimal.NewFromInt(1), EntryType: "award", Reference: "other"})
	require.NoError(t, err)

	rows, err := s.ListCreditHistory(ctx, sqlc.ListCreditHistoryParams{WalletAddress: "GA", Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "third", rows[0].Reference)
	require.Equal(t, "second", rows[1].Reference)
}

func TestCheckAndIncrementRateLimit_Window(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for want := int32(1); want <= 3; want++ {
		n, err := s.CheckAndIncrementRateLimit(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		require.Equal(t, want, n)
	}

	now = now.Add(time.Minute)
	n, err := s.CheckAndIncrementRateLimit(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, int32(1), n)
}
