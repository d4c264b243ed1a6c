package memstore

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/swift-add/website/internal/repository/sqlc"
)

type viewKey struct {
	sessionID   string
	placementID string
}

type milestoneKey struct {
	sessionID   string
	placementID string
	milestone   int32
}

type state struct {
	slots      map[string]sqlc.AdSlot
	entries    map[string]sqlc.QueueEntry
	entrySeq   int64
	sessions   map[viewKey]sqlc.ViewSession
	milestones map[milestoneKey]sqlc.ViewMilestone
	balances   map[string]sqlc.CreditBalance
	awards     map[string]sqlc.CreditAward
	history    []sqlc.CreditHistory
	historySeq int64
	rateLimits map[string]sqlc.RateLimit
}

func newState() *state {
	return &state{
		slots:      make(map[string]sqlc.AdSlot),
		entries:    make(map[string]sqlc.QueueEntry),
		sessions:   make(map[viewKey]sqlc.ViewSession),
		milestones: make(map[milestoneKey]sqlc.ViewMilestone),
		balances:   make(map[string]sqlc.CreditBalance),
		awards:     make(map[string]sqlc.CreditAward),
		rateLimits: make(map[string]sqlc.RateLimit),
	}
}

// clone copies every table. Rows are values; the only shared backing arrays
// are the slot duration slices, which are copied too.
func (s *state) clone() *state {
	c := &state{
		slots:      make(map[string]sqlc.AdSlot, len(s.slots)),
		entries:    make(map[string]sqlc.QueueEntry, len(s.entries)),
		entrySeq:   s.entrySeq,
		sessions:   make(map[viewKey]sqlc.ViewSession, len(s.sessions)),
		milestones: make(map[milestoneKey]sqlc.ViewMilestone, len(s.milestones)),
		balances:   make(map[string]sqlc.CreditBalance, len(s.balances)),
		awards:     make(map[string]sqlc.CreditAward, len(s.awards)),
		history:    make([]sqlc.CreditHistory, len(s.history)),
		historySeq: s.historySeq,
		rateLimits: make(map[string]sqlc.RateLimit, len(s.rateLimits)),
	}
	for k, v := range s.slots {
		v.DurationOptions = append([]int64(nil), v.DurationOptions...)
		c.slots[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.milestones {
		c.milestones[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.awards {
		c.awards[k] = v
	}
	copy(c.history, s.history)
	for k, v := range s.rateLimits {
		c.rateLimits[k] = v
	}
	return c
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        "insert or update violates foreign key constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}

func checkViolation(constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23514",
		Message:        "new row violates check constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}
