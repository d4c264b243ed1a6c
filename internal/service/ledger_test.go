package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swift-add/website/internal/domain"
)

func TestLedger_AwardIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := MilestoneKey("sess", "place", 10)

	accepted, err := env.ledger.Award(ctx, "GWALLET", d("0.5"), key)
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = env.ledger.Award(ctx, "GWALLET", d("0.5"), key)
	require.NoError(t, err)
	assert.False(t, accepted)

	balance, err := env.ledger.GetBalance(ctx, "GWALLET")
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("0.5")), balance.String())
}

func TestLedger_ConcurrentAwardSameKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := env.ledger.Award(ctx, "GWALLET", d("1"), "sess:place:30")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	balance, err := env.ledger.GetBalance(ctx, "GWALLET")
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("1")))
}

func TestLedger_GetBalanceUnknownWallet(t *testing.T) {
	env := newTestEnv(t)

	balance, err := env.ledger.GetBalance(context.Background(), "GNEW")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, err = env.ledger.GetBalance(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidWallet)
}

func TestLedger_Redeem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.Award(ctx, "GWALLET", d("2"), "k1")
	require.NoError(t, err)

	_, err = env.ledger.Redeem(ctx, "GWALLET", d("2.5"), "manual")
	require.ErrorIs(t, err, domain.ErrInsufficientCredits)

	balance, err := env.ledger.GetBalance(ctx, "GWALLET")
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("2")), "failed redemption must not debit")

	remaining, err := env.ledger.Redeem(ctx, "GWALLET", d("1.5"), "manual")
	require.NoError(t, err)
	assert.True(t, remaining.Equal(d("0.5")))
	assert.Len(t, env.notify.redeemed, 1)

	_, err = env.ledger.Redeem(ctx, "GWALLET", d("0"), "manual")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = env.ledger.Redeem(ctx, "GWALLET", d("0.00000001"), "manual")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = env.ledger.Award(ctx, "GWALLET", d("0.00000001"), "k2")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestLedger_History(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.Award(ctx, "GWALLET", d("1"), "k1")
	require.NoError(t, err)
	_, err = env.ledger.Redeem(ctx, "GWALLET", d("0.4"), "bid:x")
	require.NoError(t, err)

	records, err := env.ledger.History(ctx, "GWALLET")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.CreditEntryRedemption, records[0].EntryType)
	assert.True(t, records[0].Amount.Equal(d("-0.4")))
	assert.Equal(t, "bid:x", records[0].Reference)
	assert.Equal(t, domain.CreditEntryAward, records[1].EntryType)
}

func TestLedger_ClaimPendingCredits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createSlot(t, "hero", "1")
	placement := env.activeEntry(t, "hero")

	// Anonymous viewer reaches 10s and 30s.
	report := MilestoneReport{SessionID: "sess", PlacementID: placement, SlotID: "hero", MilestoneSeconds: 10}
	earned, err := env.tracker.ReportMilestone(ctx, report)
	require.NoError(t, err)
	assert.True(t, earned.IsZero())

	env.clock.Advance(20 * time.Second)
	report.MilestoneSeconds = 30
	earned, err = env.tracker.ReportMilestone(ctx, report)
	require.NoError(t, err)
	assert.True(t, earned.IsZero())

	res, err := env.ledger.ClaimPendingCredits(ctx, "sess", "GVIEWER")
	require.NoError(t, err)
	assert.Equal(t, 2, res.ViewsClaimed)
	assert.True(t, res.CreditsClaimed.Equal(d("0.03")), res.CreditsClaimed.String())

	again, err := env.ledger.ClaimPendingCredits(ctx, "sess", "GVIEWER")
	require.NoError(t, err)
	assert.Equal(t, 0, again.ViewsClaimed)
	assert.True(t, again.CreditsClaimed.IsZero())

	balance, err := env.ledger.GetBalance(ctx, "GVIEWER")
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("0.03")))

	// The session now carries the wallet, so later reports credit directly.
	env.clock.Advance(30 * time.Second)
	report.MilestoneSeconds = 60
	earned, err = env.tracker.ReportMilestone(ctx, report)
	require.NoError(t, err)
	assert.True(t, earned.Equal(d("0.03")))
}
