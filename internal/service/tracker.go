package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/domain"
	"github.com/swift-add/website/internal/repository"
	"github.com/swift-add/website/internal/repository/sqlc"
)

type TrackerConfig struct {
	Milestones     []int
	Schedule       domain.CreditSchedule
	ClockTolerance time.Duration
}

// TrackerService turns client milestone reports into at-most-once credit.
type TrackerService struct {
	store repository.Store
	cfg   TrackerConfig
	now   func() time.Time
}

func NewTrackerService(store repository.Store, cfg TrackerConfig) *TrackerService {
	return &TrackerService{store: store, cfg: cfg, now: time.Now}
}

type MilestoneReport struct {
	SessionID        string
	PlacementID      string
	SlotID           string
	MilestoneSeconds int
	WalletAddress    string
}

var errIgnoredReport = errors.New("report ignored")

// ReportMilestone records a reached milestone and credits it when a wallet is
// known. Reports that are unknown, out of order or repeated earn zero without
// failing. A report that arrives faster than the viewer could have watched
// since the previous milestone is recorded with zero credit, so the sequence
// continues from it.
//
// The session's rows are locked in placement order before any wallet attach
// or milestone write, the same order ClaimPendingCredits takes them.
func (s *TrackerService) ReportMilestone(ctx context.Context, r MilestoneReport) (decimal.Decimal, error) {
	if !validIdentifier(r.SessionID) || !validIdentifier(r.PlacementID) || !validIdentifier(r.SlotID) {
		return decimal.Zero, domain.ErrInvalidIdentifier
	}
	if r.WalletAddress != "" && !validWallet(r.WalletAddress) {
		return decimal.Zero, domain.ErrInvalidWallet
	}
	if !slices.Contains(s.cfg.Milestones, r.MilestoneSeconds) {
		return decimal.Zero, nil
	}

	now := s.now()
	earned := decimal.Zero
	err := s.store.ExecTx(ctx, func(q sqlc.Querier) error {
		placement, err := q.GetQueueEntry(ctx, r.PlacementID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrPlacementNotFound
		}
		if err != nil {
			return fmt.Errorf("get placement: %w", err)
		}
		if placement.SlotID != r.SlotID || placement.Status == string(domain.EntryStatusQueued) {
			return domain.ErrPlacementNotFound
		}

		wallet := stringToPtr(r.WalletAddress)
		if err := q.CreateViewSession(ctx, sqlc.CreateViewSessionParams{
			SessionID:     r.SessionID,
			PlacementID:   r.PlacementID,
			SlotID:        r.SlotID,
			WalletAddress: wallet,
			CreatedAt:     timeToPgTimestamptz(now),
		}); err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		rows, err := q.LockViewSessions(ctx, r.SessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}
		idx := slices.IndexFunc(rows, func(v sqlc.ViewSession) bool { return v.PlacementID == r.PlacementID })
		if idx < 0 {
			return fmt.Errorf("lock session: %w", pgx.ErrNoRows)
		}
		row := rows[idx]
		if wallet != nil {
			if err := q.AttachSessionWallet(ctx, sqlc.AttachSessionWalletParams{
				SessionID:     r.SessionID,
				WalletAddress: wallet,
			}); err != nil {
				return fmt.Errorf("attach wallet: %w", err)
			}
			if row.WalletAddress == nil {
				row.WalletAddress = wallet
			}
		}

		reachedRows, err := q.ListViewMilestones(ctx, sqlc.ListViewMilestonesParams{
			SessionID:   r.SessionID,
			PlacementID: r.PlacementID,
		})
		if err != nil {
			return fmt.Errorf("list milestones: %w", err)
		}
		session := domain.ViewSession{
			SessionID:     row.SessionID,
			PlacementID:   row.PlacementID,
			SlotID:        row.SlotID,
			WalletAddress: row.WalletAddress,
			CreatedAt:     pgTimestamptzToTime(row.CreatedAt),
		}
		var prev *domain.ViewMilestone
		for _, m := range reachedRows {
			prev = rowToMilestone(m)
			session.MilestonesReached = append(session.MilestonesReached, prev.MilestoneSeconds)
		}

		next, ok := session.NextMilestone(s.cfg.Milestones)
		if !ok || next != r.MilestoneSeconds {
			return errIgnoredReport
		}
		credits := s.cfg.Schedule.For(r.MilestoneSeconds)
		if !s.plausible(r.MilestoneSeconds, prev, now) {
			slog.Warn("milestone reported too early",
				"session_id", r.SessionID,
				"placement_id", r.PlacementID,
				"milestone", r.MilestoneSeconds,
			)
			credits = decimal.Zero
		}

		if _, err := q.CreateViewMilestone(ctx, sqlc.CreateViewMilestoneParams{
			SessionID:        r.SessionID,
			PlacementID:      r.PlacementID,
			MilestoneSeconds: int32(r.MilestoneSeconds),
			SlotID:           r.SlotID,
			Credits:          credits,
			WalletAddress:    session.WalletAddress,
			Credited:         session.WalletAddress != nil || credits.IsZero(),
			ReachedAt:        timeToPgTimestamptz(now),
		}); err != nil {
			if repository.IsUniqueViolation(err) {
				return errIgnoredReport
			}
			return fmt.Errorf("create milestone: %w", err)
		}

		if session.WalletAddress == nil || credits.IsZero() {
			return nil
		}
		key := MilestoneKey(r.SessionID, r.PlacementID, r.MilestoneSeconds)
		accepted, err := awardTx(ctx, q, *session.WalletAddress, credits, key)
		if err != nil {
			return err
		}
		if accepted {
			earned = credits
		}
		return nil
	})
	if errors.Is(err, errIgnoredReport) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return earned, nil
}

// plausible rejects milestone m when less wall time has passed since the
// previous milestone than a viewer needs to cover most of the gap. Measuring
// from the previous report keeps one late report from failing the rest.
func (s *TrackerService) plausible(m int, prev *domain.ViewMilestone, now time.Time) bool {
	if prev == nil {
		return true
	}
	gap := time.Duration(m-prev.MilestoneSeconds) * time.Second
	need := gap*config.MinViewPacePercent/100 - s.cfg.ClockTolerance
	return now.Sub(prev.ReachedAt) >= need
}
