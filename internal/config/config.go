package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/domain"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	// Storage
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Server
	Port        int      `env:"PORT" envDefault:"8080"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Bidding and pricing
	BidIncrement        decimal.Decimal `env:"BID_INCREMENT" envDefault:"0.1"`
	MinPaymentFloor     decimal.Decimal `env:"MIN_PAYMENT_FLOOR" envDefault:"0.01"`
	MaxDiscountRatio    decimal.Decimal `env:"MAX_DISCOUNT_RATIO" envDefault:"0.5"`
	PaymentMemoPrefix   string          `env:"PAYMENT_MEMO_PREFIX" envDefault:"SwiftAd"`
	RequirePaymentProof bool            `env:"REQUIRE_PAYMENT_PROOF" envDefault:"true"`

	// View-to-earn: milestone seconds -> credits
	CreditTable        map[string]string `env:"CREDIT_TABLE" envSeparator:"," envKeyValSeparator:":" envDefault:"10:0.01,30:0.02,60:0.03,120:0.06,240:0.12,480:0.24"`
	TrackViewRateLimit int               `env:"TRACK_VIEW_RATE_LIMIT" envDefault:"120"`
	ViewClockTolerance time.Duration     `env:"VIEW_CLOCK_TOLERANCE" envDefault:"3s"`

	// Activation scheduler
	SchedulerEnabled  bool          `env:"SCHEDULER_ENABLED" envDefault:"true"`
	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"30s"`

	// Telegram logging
	TelegramBotToken   string `env:"TELEGRAM_BOT_TOKEN"`
	LogTelegramChatID  int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError      int    `env:"LOG_TOPIC_ERROR"`
	LogTopicActivation int    `env:"LOG_TOPIC_ACTIVATION"`
	LogTopicRedemption int    `env:"LOG_TOPIC_REDEMPTION"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.BidIncrement.IsNegative() {
		return fmt.Errorf("BID_INCREMENT must not be negative")
	}
	if !c.MinPaymentFloor.IsPositive() {
		return fmt.Errorf("MIN_PAYMENT_FLOOR must be positive")
	}
	if c.MaxDiscountRatio.IsNegative() || c.MaxDiscountRatio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("MAX_DISCOUNT_RATIO must be within [0, 1]")
	}
	if c.SchedulerEnabled && c.SchedulerInterval <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL must be positive")
	}
	if _, err := c.CreditSchedule(); err != nil {
		return err
	}
	return nil
}

// CreditSchedule parses CREDIT_TABLE. Every milestone must be priced and a
// later milestone never pays less than an earlier one.
func (c *Config) CreditSchedule() (domain.CreditSchedule, error) {
	schedule := make(domain.CreditSchedule, len(c.CreditTable))
	for k, v := range c.CreditTable {
		m, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("credit table: bad milestone %q: %w", k, err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("credit table: bad amount for %ds: %w", m, err)
		}
		if !amount.Equal(amount.Truncate(AmountScale)) {
			return nil, fmt.Errorf("credit table: amount for %ds has more than %d decimals", m, AmountScale)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("credit table: negative amount for %ds", m)
		}
		schedule[m] = amount
	}

	known := make(map[int]bool, len(Milestones))
	prev := decimal.Zero
	for _, m := range Milestones {
		known[m] = true
		amount, ok := schedule[m]
		if !ok {
			return nil, fmt.Errorf("credit table: milestone %ds has no amount", m)
		}
		if amount.LessThan(prev) {
			return nil, fmt.Errorf("credit table: %ds pays less than the milestone before it", m)
		}
		prev = amount
	}
	extra := make([]int, 0)
	for m := range schedule {
		if !known[m] {
			extra = append(extra, m)
		}
	}
	if len(extra) > 0 {
		sort.Ints(extra)
		return nil, fmt.Errorf("credit table: unknown milestones %v", extra)
	}
	return schedule, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.LogTelegramChatID != 0
}
