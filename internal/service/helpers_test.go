package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/repository/memstore"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingNotifier struct {
	mu        sync.Mutex
	activated []string
	redeemed  []decimal.Decimal
	failures  int
}

func (n *recordingNotifier) SlotActivated(_ context.Context, e *domain.QueueEntry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activated = append(n.activated, e.ID)
}

func (n *recordingNotifier) CreditsRedeemed(_ context.Context, _ string, amount decimal.Decimal, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redeemed = append(n.redeemed, amount)
}

func (n *recordingNotifier) ActivationFailed(context.Context, string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures++
}

type testEnv struct {
	clock      *fakeClock
	store      *memstore.Store
	notify     *recordingNotifier
	slots      *SlotService
	queue      *QueueService
	activation *ActivationService
	tracker    *TrackerService
	ledger     *LedgerService
}

var testPricing = Pricing{
	MaxDiscountRatio: decimal.RequireFromString("0.5"),
	MinPaymentFloor:  decimal.RequireFromString("0.01"),
}

var testSchedule = domain.CreditSchedule{
	10:  decimal.RequireFromString("0.01"),
	30:  decimal.RequireFromString("0.02"),
	60:  decimal.RequireFromString("0.03"),
	120: decimal.RequireFromString("0.06"),
	240: decimal.RequireFromString("0.12"),
	480: decimal.RequireFromString("0.24"),
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := newFakeClock()
	store := memstore.New(memstore.WithClock(clock.Now))
	notify := &recordingNotifier{}

	queue := NewQueueService(store, QueueConfig{
		BidIncrement:        decimal.RequireFromString("0.1"),
		Pricing:             testPricing,
		MemoPrefix:          "SwiftAd",
		RequirePaymentProof: true,
	}, nil, notify)
	queue.now = clock.Now

	activation := NewActivationService(store, notify)
	activation.now = clock.Now

	tracker := NewTrackerService(store, TrackerConfig{
		Milestones:     config.Milestones,
		Schedule:       testSchedule,
		ClockTolerance: 3 * time.Second,
	})
	tracker.now = clock.Now

	return &testEnv{
		clock:      clock,
		store:      store,
		notify:     notify,
		slots:      NewSlotService(store),
		queue:      queue,
		activation: activation,
		tracker:    tracker,
		ledger:     NewLedgerService(store, notify),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *testEnv) createSlot(t *testing.T, id, basePrice string) {
	t.Helper()
	_, err := e.slots.Create(context.Background(), CreateSlotRequest{
		ID:               id,
		MinimumBasePrice: d(basePrice),
		DurationOptions:  []time.Duration{time.Hour, 30 * time.Minute},
		Category:         "tech",
	})
	require.NoError(t, err)
}

var txCounter struct {
	sync.Mutex
	n int
}

func nextTxHash() string {
	txCounter.Lock()
	defer txCounter.Unlock()
	txCounter.n++
	return "tx" + strconv.Itoa(txCounter.n)
}

// bid builds a fully paid request with no discount.
func bid(slotID, wallet, amount string) BidRequest {
	return discountedBid(slotID, wallet, amount, "0")
}

func discountedBid(slotID, wallet, amount, discount string) BidRequest {
	payable := testPricing.payableAfter(d(amount), d(discount))
	return BidRequest{
		SlotID:          slotID,
		BidderWallet:    wallet,
		BidAmount:       d(amount),
		Duration:        time.Hour,
		DiscountApplied: d(discount),
		Creative: domain.Creative{
			Kind:       domain.ContentKindImage,
			ContentURL: "https://cdn.example.com/banner.png",
			ClickURL:   "https://example.com",
		},
		Payment: domain.PaymentProof{
			TransactionHash: nextTxHash(),
			AmountPaid:      payable,
			Memo:            FormatMemo("SwiftAd", slotID, d(discount)),
		},
	}
}

func (e *testEnv) submit(t *testing.T, req BidRequest) *BidResult {
	t.Helper()
	res, err := e.queue.SubmitBid(context.Background(), req)
	require.NoError(t, err)
	return res
}

// activeEntry queues a bid on slotID and activates it, returning the
// placement id viewers report against.
func (e *testEnv) activeEntry(t *testing.T, slotID string) string {
	t.Helper()
	res := e.submit(t, bid(slotID, "GADVERTISER", "5"))
	ok, err := e.activation.ActivateSlot(context.Background(), slotID)
	require.NoError(t, err)
	require.True(t, ok)
	return res.Entry.PlacementID()
}
