package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/repository"
	"github.com/swift-add/website/internal/repository/sqlc"
)

// LedgerService is the only writer of credit balances.
type LedgerService struct {
	store  repository.Store
	notify Notifier
}

func NewLedgerService(store repository.Store, notify Notifier) *LedgerService {
	return &LedgerService{store: store, notify: orNop(notify)}
}

// MilestoneKey is the award idempotency key for one reached milestone.
func MilestoneKey(sessionID, placementID string, milestoneSeconds int) string {
	return sessionID + ":" + placementID + ":" + strconv.Itoa(milestoneSeconds)
}

// Award adds amount to wallet once per idempotency key. A repeated key is a
// no-op reported as accepted=false.
func (s *LedgerService) Award(ctx context.Context, wallet string, amount decimal.Decimal, idempotencyKey string) (bool, error) {
	if !validWallet(wallet) {
		return false, domain.ErrInvalidWallet
	}
	if amount.IsNegative() || !validAmountScale(amount) {
		return false, domain.ErrInvalidAmount
	}
	if idempotencyKey == "" {
		return false, domain.ErrInvalidIdentifier
	}

	var accepted bool
	err := s.store.ExecTx(ctx, func(q sqlc.Querier) error {
		var err error
		accepted, err = awardTx(ctx, q, wallet, amount, idempotencyKey)
		return err
	})
	if err != nil {
		return false, err
	}
	return accepted, nil
}

// awardTx inserts the award row first; the conflicting insert returns no
// row, so the key check and the balance increment share one transaction.
func awardTx(ctx context.Context, q sqlc.Querier, wallet string, amount decimal.Decimal, key string) (bool, error) {
	_, err := q.CreateCreditAward(ctx, sqlc.CreateCreditAwardParams{
		IdempotencyKey: key,
		WalletAddress:  wallet,
		Amount:         amount,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create award: %w", err)
	}

	if _, err := q.AddCreditBalance(ctx, sqlc.AddCreditBalanceParams{
		WalletAddress: wallet,
		TotalCredits:  amount,
	}); err != nil {
		return false, fmt.Errorf("add balance: %w", err)
	}

	if _, err := q.CreateCreditHistory(ctx, sqlc.CreateCreditHistoryParams{
		WalletAddress: wallet,
		Amount:        amount,
		EntryType:     string(domain.CreditEntryAward),
		Reference:     key,
	}); err != nil {
		return false, fmt.Errorf("create history: %w", err)
	}
	return true, nil
}

// GetBalance returns zero for wallets that never earned anything.
func (s *LedgerService) GetBalance(ctx context.Context, wallet string) (decimal.Decimal, error) {
	if !validWallet(wallet) {
		return decimal.Zero, domain.ErrInvalidWallet
	}
	return balanceOf(ctx, s.store, wallet)
}

func balanceOf(ctx context.Context, q sqlc.Querier, wallet string) (decimal.Decimal, error) {
	row, err := q.GetCreditBalance(ctx, wallet)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return row.TotalCredits, nil
}

// Redeem debits amount in full or not at all.
func (s *LedgerService) Redeem(ctx context.Context, wallet string, amount decimal.Decimal, reference string) (decimal.Decimal, error) {
	if !validWallet(wallet) {
		return decimal.Zero, domain.ErrInvalidWallet
	}
	if !amount.IsPositive() || !validAmountScale(amount) {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	var remaining decimal.Decimal
	err := s.store.ExecTx(ctx, func(q sqlc.Querier) error {
		var err error
		remaining, err = redeemTx(ctx, q, wallet, amount, reference)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.notify.CreditsRedeemed(ctx, wallet, amount, reference)
	return remaining, nil
}

func redeemTx(ctx context.Context, q sqlc.Querier, wallet string, amount decimal.Decimal, reference string) (decimal.Decimal, error) {
	remaining, err := q.DebitCreditBalance(ctx, sqlc.DebitCreditBalanceParams{
		Amount:        amount,
		WalletAddress: wallet,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, domain.ErrInsufficientCredits
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("debit balance: %w", err)
	}

	if _, err := q.CreateCreditHistory(ctx, sqlc.CreateCreditHistoryParams{
		WalletAddress: wallet,
		Amount:        amount.Neg(),
		EntryType:     string(domain.CreditEntryRedemption),
		Reference:     reference,
	}); err != nil {
		return decimal.Zero, fmt.Errorf("create history: %w", err)
	}
	return remaining, nil
}

type ClaimResult struct {
	CreditsClaimed decimal.Decimal
	ViewsClaimed   int
}

// ClaimPendingCredits pays out milestones a session reached before it had a
// wallet. Awards reuse the milestone keys, so anything already paid is skipped.
func (s *LedgerService) ClaimPendingCredits(ctx context.Context, sessionID, wallet string) (*ClaimResult, error) {
	if !validIdentifier(sessionID) {
		return nil, domain.ErrInvalidIdentifier
	}
	if !validWallet(wallet) {
		return nil, domain.ErrInvalidWallet
	}

	result := &ClaimResult{CreditsClaimed: decimal.Zero}
	err := s.store.ExecTx(ctx, func(q sqlc.Querier) error {
		// Same lock order as ReportMilestone: session rows, then milestones.
		if _, err := q.LockViewSessions(ctx, sessionID); err != nil {
			return fmt.Errorf("lock session: %w", err)
		}
		if err := q.AttachSessionWallet(ctx, sqlc.AttachSessionWalletParams{
			SessionID:     sessionID,
			WalletAddress: &wallet,
		}); err != nil {
			return fmt.Errorf("attach wallet: %w", err)
		}

		pending, err := q.ListUncreditedMilestones(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("list pending milestones: %w", err)
		}

		for _, m := range pending {
			key := MilestoneKey(m.SessionID, m.PlacementID, int(m.MilestoneSeconds))
			accepted, err := awardTx(ctx, q, wallet, m.Credits, key)
			if err != nil {
				return err
			}
			if err := q.MarkMilestoneCredited(ctx, sqlc.MarkMilestoneCreditedParams{
				SessionID:        m.SessionID,
				PlacementID:      m.PlacementID,
				MilestoneSeconds: m.MilestoneSeconds,
				WalletAddress:    &wallet,
			}); err != nil {
				return fmt.Errorf("mark credited: %w", err)
			}
			if accepted {
				result.CreditsClaimed = result.CreditsClaimed.Add(m.Credits)
				result.ViewsClaimed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// History lists the most recent ledger movements, newest first.
func (s *LedgerService) History(ctx context.Context, wallet string) ([]domain.CreditRecord, error) {
	if !validWallet(wallet) {
		return nil, domain.ErrInvalidWallet
	}
	rows, err := s.store.ListCreditHistory(ctx, sqlc.ListCreditHistoryParams{
		WalletAddress: wallet,
		Limit:         config.HistoryPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	records := make([]domain.CreditRecord, len(rows))
	for i, row := range rows {
		records[i] = rowToCreditRecord(row)
	}
	return records, nil
}
