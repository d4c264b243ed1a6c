package config

import "time"

// Milestones is the cumulative visible-seconds sequence shared with the
// browser tracker. Reports for any other value are ignored.
var Milestones = []int{10, 30, 60, 120, 240, 480}

// DefaultDurationOptions is offered by slots registered without their own set.
var DefaultDurationOptions = []time.Duration{
	30 * time.Minute,
	time.Hour,
	6 * time.Hour,
	24 * time.Hour,
}

const (
	// HTTP server
	ReadHeaderTimeout = 5 * time.Second
	RequestTimeout    = 15 * time.Second
	ShutdownTimeout   = 10 * time.Second
	MaxRequestBody    = 1 << 20

	// Decimal places kept by the NUMERIC(20,7) amount columns
	AmountScale = 7

	// Share of a milestone gap that must pass in wall time before the next
	// milestone earns credit
	MinViewPacePercent = 75

	// Credit history page size
	HistoryPageSize = 50

	// Text creatives
	MaxTextCreativeLen = 280

	// Scheduler pass timeout
	ActivationPassTimeout = 20 * time.Second

	// Telegram log send timeout
	TelegramSendTimeout = 10 * time.Second
)
