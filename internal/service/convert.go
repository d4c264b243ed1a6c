package service

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/repository/sqlc"
)

// pgTimestamptzToTime converts pgtype.Timestamptz to time.Time.
func pgTimestamptzToTime(ts pgtype.Timestamptz) time.Time {
	if ts.Valid {
		return ts.Time
	}
	return time.Time{}
}

// pgTimestamptzToTimePtr converts pgtype.Timestamptz to *time.Time.
func pgTimestamptzToTimePtr(ts pgtype.Timestamptz) *time.Time {
	if ts.Valid {
		t := ts.Time
		return &t
	}
	return nil
}

// timeToPgTimestamptz converts time.Time to pgtype.Timestamptz.
func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

// stringToPtr returns nil for the empty string.
func stringToPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func rowToSlot(row sqlc.AdSlot) *domain.AdSlot {
	durations := make([]time.Duration, len(row.DurationOptions))
	for i, secs := range row.DurationOptions {
		durations[i] = time.Duration(secs) * time.Second
	}
	return &domain.AdSlot{
		ID:               row.SlotID,
		MinimumBasePrice: row.MinimumBasePrice,
		DurationOptions:  durations,
		Category:         row.Category,
		CreatedAt:        pgTimestamptzToTime(row.CreatedAt),
	}
}

func rowToEntry(row sqlc.QueueEntry) *domain.QueueEntry {
	return &domain.QueueEntry{
		ID:              row.ID,
		Seq:             row.Seq,
		SlotID:          row.SlotID,
		BidderWallet:    row.BidderWallet,
		BidAmount:       row.BidAmount,
		AmountPaid:      row.AmountPaid,
		DiscountApplied: row.DiscountApplied,
		Duration:        time.Duration(row.DurationSeconds) * time.Second,
		Status:          domain.EntryStatus(row.Status),
		Creative: domain.Creative{
			Kind:        domain.ContentKind(row.ContentKind),
			ContentURL:  row.ContentUrl,
			ClickURL:    row.ClickUrl,
			Description: row.Description,
		},
		PaymentTxHash: row.PaymentTxHash,
		SubmittedAt:   pgTimestamptzToTime(row.SubmittedAt),
		StartsAt:      pgTimestamptzToTimePtr(row.StartsAt),
		ExpiresAt:     pgTimestamptzToTimePtr(row.ExpiresAt),
	}
}

func rowsToEntries(rows []sqlc.QueueEntry) []*domain.QueueEntry {
	entries := make([]*domain.QueueEntry, len(rows))
	for i, row := range rows {
		entries[i] = rowToEntry(row)
	}
	return entries
}

func rowToMilestone(row sqlc.ViewMilestone) *domain.ViewMilestone {
	return &domain.ViewMilestone{
		SessionID:        row.SessionID,
		PlacementID:      row.PlacementID,
		SlotID:           row.SlotID,
		MilestoneSeconds: int(row.MilestoneSeconds),
		Credits:          row.Credits,
		WalletAddress:    row.WalletAddress,
		Credited:         row.Credited,
		ReachedAt:        pgTimestamptzToTime(row.ReachedAt),
	}
}

func rowToCreditRecord(row sqlc.CreditHistory) domain.CreditRecord {
	return domain.CreditRecord{
		ID:            row.ID,
		WalletAddress: row.WalletAddress,
		Amount:        row.Amount,
		EntryType:     domain.CreditEntryType(row.EntryType),
		Reference:     row.Reference,
		CreatedAt:     pgTimestamptzToTime(row.CreatedAt),
	}
}
