package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/repository/sqlc"
)

// tx executes queries against one state without locking.
type tx struct {
	st  *state
	now func() time.Time
}

var _ sqlc.Querier = (*tx)(nil)

func (t *tx) timestamp() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t.now(), Valid: true}
}

// Slots

func (t *tx) CreateSlot(ctx context.Context, arg sqlc.CreateSlotParams) (sqlc.AdSlot, error) {
	if _, ok := t.st.slots[arg.SlotID]; ok {
		return sqlc.AdSlot{}, uniqueViolation("ad_slots_pkey")
	}
	if !arg.MinimumBasePrice.IsPositive() {
		return sqlc.AdSlot{}, checkViolation("ad_slots_minimum_base_price_check")
	}
	row := sqlc.AdSlot{
		SlotID:           arg.SlotID,
		MinimumBasePrice: arg.MinimumBasePrice,
		DurationOptions:  append([]int64(nil), arg.DurationOptions...),
		Category:         arg.Category,
		CreatedAt:        t.timestamp(),
	}
	t.st.slots[arg.SlotID] = row
	return copySlot(row), nil
}

func (t *tx) GetSlot(ctx context.Context, slotID string) (sqlc.AdSlot, error) {
	row, ok := t.st.slots[slotID]
	if !ok {
		return sqlc.AdSlot{}, pgx.ErrNoRows
	}
	return copySlot(row), nil
}

// GetSlotForUpdate needs no row lock here: the store mutex serializes everything.
func (t *tx) GetSlotForUpdate(ctx context.Context, slotID string) (sqlc.AdSlot, error) {
	return t.GetSlot(ctx, slotID)
}

func (t *tx) ListSlots(ctx context.Context) ([]sqlc.AdSlot, error) {
	items := make([]sqlc.AdSlot, 0, len(t.st.slots))
	for _, row := range t.st.slots {
		items = append(items, copySlot(row))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SlotID < items[j].SlotID })
	return items, nil
}

func copySlot(row sqlc.AdSlot) sqlc.AdSlot {
	row.DurationOptions = append([]int64(nil), row.DurationOptions...)
	return row
}

// Queue entries

func (t *tx) CreateQueueEntry(ctx context.Context, arg sqlc.CreateQueueEntryParams) (sqlc.QueueEntry, error) {
	if _, ok := t.st.slots[arg.SlotID]; !ok {
		return sqlc.QueueEntry{}, foreignKeyViolation("queue_entries_slot_id_fkey")
	}
	if _, ok := t.st.entries[arg.ID]; ok {
		return sqlc.QueueEntry{}, uniqueViolation("queue_entries_pkey")
	}
	for _, e := range t.st.entries {
		if e.PaymentTxHash == arg.PaymentTxHash {
			return sqlc.QueueEntry{}, uniqueViolation("queue_entries_payment_tx_hash_key")
		}
	}
	if !arg.BidAmount.IsPositive() {
		return sqlc.QueueEntry{}, checkViolation("queue_entries_bid_amount_check")
	}
	if arg.DurationSeconds <= 0 {
		return sqlc.QueueEntry{}, checkViolation("queue_entries_duration_seconds_check")
	}

	t.st.entrySeq++
	row := sqlc.QueueEntry{
		ID:              arg.ID,
		Seq:             t.st.entrySeq,
		SlotID:          arg.SlotID,
		BidderWallet:    arg.BidderWallet,
		BidAmount:       arg.BidAmount,
		AmountPaid:      arg.AmountPaid,
		DiscountApplied: arg.DiscountApplied,
		DurationSeconds: arg.DurationSeconds,
		Status:          "queued",
		ContentKind:     arg.ContentKind,
		ContentUrl:      arg.ContentUrl,
		ClickUrl:        arg.ClickUrl,
		Description:     arg.Description,
		PaymentTxHash:   arg.PaymentTxHash,
		SubmittedAt:     arg.SubmittedAt,
	}
	t.st.entries[row.ID] = row
	return row, nil
}

func (t *tx) GetQueueEntry(ctx context.Context, id string) (sqlc.QueueEntry, error) {
	row, ok := t.st.entries[id]
	if !ok {
		return sqlc.QueueEntry{}, pgx.ErrNoRows
	}
	return row, nil
}

func (t *tx) GetQueueEntryByPaymentTx(ctx context.Context, paymentTxHash string) (sqlc.QueueEntry, error) {
	for _, row := range t.st.entries {
		if row.PaymentTxHash == paymentTxHash {
			return row, nil
		}
	}
	return sqlc.QueueEntry{}, pgx.ErrNoRows
}

func (t *tx) GetActiveEntry(ctx context.Context, slotID string) (sqlc.QueueEntry, error) {
	for _, row := range t.st.entries {
		if row.SlotID == slotID && row.Status == "active" {
			return row, nil
		}
	}
	return sqlc.QueueEntry{}, pgx.ErrNoRows
}

func (t *tx) ListQueuedEntries(ctx context.Context, slotID string) ([]sqlc.QueueEntry, error) {
	var items []sqlc.QueueEntry
	for _, row := range t.st.entries {
		if row.SlotID == slotID && row.Status == "queued" {
			items = append(items, row)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if c := a.BidAmount.Cmp(b.BidAmount); c != 0 {
			return c > 0
		}
		if !a.SubmittedAt.Time.Equal(b.SubmittedAt.Time) {
			return a.SubmittedAt.Time.Before(b.SubmittedAt.Time)
		}
		return a.Seq < b.Seq
	})
	return items, nil
}

func (t *tx) ActivateQueueEntry(ctx context.Context, arg sqlc.ActivateQueueEntryParams) (sqlc.QueueEntry, error) {
	row, ok := t.st.entries[arg.ID]
	if !ok || row.Status != "queued" {
		return sqlc.QueueEntry{}, pgx.ErrNoRows
	}
	for _, other := range t.st.entries {
		if other.SlotID == row.SlotID && other.Status == "active" {
			return sqlc.QueueEntry{}, uniqueViolation("idx_queue_entries_one_active")
		}
	}
	row.Status = "active"
	row.StartsAt = arg.StartsAt
	row.ExpiresAt = arg.ExpiresAt
	t.st.entries[row.ID] = row
	return row, nil
}

func (t *tx) SetQueueEntryStatus(ctx context.Context, arg sqlc.SetQueueEntryStatusParams) error {
	row, ok := t.st.entries[arg.ID]
	if !ok {
		return nil
	}
	if arg.Status == "active" {
		for _, other := range t.st.entries {
			if other.ID != row.ID && other.SlotID == row.SlotID && other.Status == "active" {
				return uniqueViolation("idx_queue_entries_one_active")
			}
		}
	}
	row.Status = arg.Status
	t.st.entries[row.ID] = row
	return nil
}

func (t *tx) ListSlotsDueForActivation(ctx context.Context, now pgtype.Timestamptz) ([]string, error) {
	type slotState struct {
		hasActive     bool
		activeExpired bool
		hasQueued     bool
	}
	states := make(map[string]*slotState, len(t.st.slots))
	for id := range t.st.slots {
		states[id] = &slotState{}
	}
	for _, e := range t.st.entries {
		st, ok := states[e.SlotID]
		if !ok {
			continue
		}
		switch e.Status {
		case "active":
			st.hasActive = true
			if e.ExpiresAt.Valid && !e.ExpiresAt.Time.After(now.Time) {
				st.activeExpired = true
			}
		case "queued":
			st.hasQueued = true
		}
	}

	var items []string
	for id, st := range states {
		if st.activeExpired || (!st.hasActive && st.hasQueued) {
			items = append(items, id)
		}
	}
	sort.Strings(items)
	return items, nil
}

// View sessions

func (t *tx) CreateViewSession(ctx context.Context, arg sqlc.CreateViewSessionParams) error {
	key := viewKey{arg.SessionID, arg.PlacementID}
	if _, ok := t.st.sessions[key]; ok {
		return nil
	}
	t.st.sessions[key] = sqlc.ViewSession{
		SessionID:     arg.SessionID,
		PlacementID:   arg.PlacementID,
		SlotID:        arg.SlotID,
		WalletAddress: arg.WalletAddress,
		CreatedAt:     arg.CreatedAt,
	}
	return nil
}

func (t *tx) LockViewSessions(ctx context.Context, sessionID string) ([]sqlc.ViewSession, error) {
	var items []sqlc.ViewSession
	for key, row := range t.st.sessions {
		if key.sessionID == sessionID {
			items = append(items, row)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PlacementID < items[j].PlacementID
	})
	return items, nil
}

func (t *tx) AttachSessionWallet(ctx context.Context, arg sqlc.AttachSessionWalletParams) error {
	for key, row := range t.st.sessions {
		if key.sessionID == arg.SessionID && row.WalletAddress == nil {
			row.WalletAddress = arg.WalletAddress
			t.st.sessions[key] = row
		}
	}
	return nil
}

func (t *tx) ListViewMilestones(ctx context.Context, arg sqlc.ListViewMilestonesParams) ([]sqlc.ViewMilestone, error) {
	var items []sqlc.ViewMilestone
	for key, row := range t.st.milestones {
		if key.sessionID == arg.SessionID && key.placementID == arg.PlacementID {
			items = append(items, row)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].MilestoneSeconds < items[j].MilestoneSeconds })
	return items, nil
}

func (t *tx) CreateViewMilestone(ctx context.Context, arg sqlc.CreateViewMilestoneParams) (sqlc.ViewMilestone, error) {
	if _, ok := t.st.sessions[viewKey{arg.SessionID, arg.PlacementID}]; !ok {
		return sqlc.ViewMilestone{}, foreignKeyViolation("view_milestones_session_id_placement_id_fkey")
	}
	key := milestoneKey{arg.SessionID, arg.PlacementID, arg.MilestoneSeconds}
	if _, ok := t.st.milestones[key]; ok {
		return sqlc.ViewMilestone{}, uniqueViolation("view_milestones_pkey")
	}
	row := sqlc.ViewMilestone{
		SessionID:        arg.SessionID,
		PlacementID:      arg.PlacementID,
		MilestoneSeconds: arg.MilestoneSeconds,
		SlotID:           arg.SlotID,
		Credits:          arg.Credits,
		WalletAddress:    arg.WalletAddress,
		Credited:         arg.Credited,
		ReachedAt:        arg.ReachedAt,
	}
	t.st.milestones[key] = row
	return row, nil
}

func (t *tx) ListUncreditedMilestones(ctx context.Context, sessionID string) ([]sqlc.ViewMilestone, error) {
	var items []sqlc.ViewMilestone
	for key, row := range t.st.milestones {
		if key.sessionID == sessionID && !row.Credited {
			items = append(items, row)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].PlacementID != items[j].PlacementID {
			return items[i].PlacementID < items[j].PlacementID
		}
		return items[i].MilestoneSeconds < items[j].MilestoneSeconds
	})
	return items, nil
}

func (t *tx) MarkMilestoneCredited(ctx context.Context, arg sqlc.MarkMilestoneCreditedParams) error {
	key := milestoneKey{arg.SessionID, arg.PlacementID, arg.MilestoneSeconds}
	row, ok := t.st.milestones[key]
	if !ok {
		return nil
	}
	row.Credited = true
	row.WalletAddress = arg.WalletAddress
	t.st.milestones[key] = row
	return nil
}

// Credits

func (t *tx) CreateCreditAward(ctx context.Context, arg sqlc.CreateCreditAwardParams) (sqlc.CreditAward, error) {
	if _, ok := t.st.awards[arg.IdempotencyKey]; ok {
		// ON CONFLICT DO NOTHING RETURNING yields no row.
		return sqlc.CreditAward{}, pgx.ErrNoRows
	}
	row := sqlc.CreditAward{
		IdempotencyKey: arg.IdempotencyKey,
		WalletAddress:  arg.WalletAddress,
		Amount:         arg.Amount,
		CreatedAt:      t.timestamp(),
	}
	t.st.awards[arg.IdempotencyKey] = row
	return row, nil
}

func (t *tx) GetCreditBalance(ctx context.Context, walletAddress string) (sqlc.CreditBalance, error) {
	row, ok := t.st.balances[walletAddress]
	if !ok {
		return sqlc.CreditBalance{}, pgx.ErrNoRows
	}
	return row, nil
}

func (t *tx) AddCreditBalance(ctx context.Context, arg sqlc.AddCreditBalanceParams) (decimal.Decimal, error) {
	row, ok := t.st.balances[arg.WalletAddress]
	if !ok {
		row = sqlc.CreditBalance{WalletAddress: arg.WalletAddress, TotalCredits: decimal.Zero}
	}
	total := row.TotalCredits.Add(arg.TotalCredits)
	if total.IsNegative() {
		return decimal.Zero, checkViolation("credit_balances_total_credits_check")
	}
	row.TotalCredits = total
	row.UpdatedAt = t.timestamp()
	t.st.balances[arg.WalletAddress] = row
	return total, nil
}

func (t *tx) DebitCreditBalance(ctx context.Context, arg sqlc.DebitCreditBalanceParams) (decimal.Decimal, error) {
	row, ok := t.st.balances[arg.WalletAddress]
	if !ok || row.TotalCredits.LessThan(arg.Amount) {
		return decimal.Zero, pgx.ErrNoRows
	}
	row.TotalCredits = row.TotalCredits.Sub(arg.Amount)
	row.UpdatedAt = t.timestamp()
	t.st.balances[arg.WalletAddress] = row
	return row.TotalCredits, nil
}

func (t *tx) CreateCreditHistory(ctx context.Context, arg sqlc.CreateCreditHistoryParams) (sqlc.CreditHistory, error) {
	t.st.historySeq++
	row := sqlc.CreditHistory{
		ID:            t.st.historySeq,
		WalletAddress: arg.WalletAddress,
		Amount:        arg.Amount,
		EntryType:     arg.EntryType,
		Reference:     arg.Reference,
		CreatedAt:     t.timestamp(),
	}
	t.st.history = append(t.st.history, row)
	return row, nil
}

func (t *tx) ListCreditHistory(ctx context.Context, arg sqlc.ListCreditHistoryParams) ([]sqlc.CreditHistory, error) {
	var items []sqlc.CreditHistory
	for i := len(t.st.history) - 1; i >= 0 && int32(len(items)) < arg.Limit; i-- {
		if t.st.history[i].WalletAddress == arg.WalletAddress {
			items = append(items, t.st.history[i])
		}
	}
	return items, nil
}

func (t *tx) CheckAndIncrementRateLimit(ctx context.Context, key string) (int32, error) {
	window := t.now().Truncate(time.Minute)
	row, ok := t.st.rateLimits[key]
	if ok && row.WindowStart.Time.Equal(window) {
		row.Count++
	} else {
		row = sqlc.RateLimit{Key: key, WindowStart: pgtype.Timestamptz{Time: window, Valid: true}, Count: 1}
	}
	t.st.rateLimits[key] = row
	return row.Count, nil
}
