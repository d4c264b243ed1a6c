package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/shopspring/decimal"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/domain"
)

type LogType string

const (
	LogTypeError      LogType = "error"
	LogTypeActivation LogType = "activation"
	LogTypeRedemption LogType = "redemption"
)

// TelegramLogger mirrors operational events into forum topics of one chat.
// Sends run in the background so request handlers never wait on Telegram.
type TelegramLogger struct {
	sender MessageSender
	chatID int64
	topics map[LogType]int
	now    func() time.Time
	wg     sync.WaitGroup
}

func NewTelegramLogger(sender MessageSender, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{
		sender: sender,
		chatID: cfg.LogTelegramChatID,
		topics: map[LogType]int{
			LogTypeError:      cfg.LogTopicError,
			LogTypeActivation: cfg.LogTopicActivation,
			LogTypeRedemption: cfg.LogTopicRedemption,
		},
		now: time.Now,
	}
}

// NewBot builds a send-only client; no updates are polled.
func NewBot(token string) (*bot.Bot, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return b, nil
}

// Log queues message for its topic. Types without a configured topic are dropped.
func (l *TelegramLogger) Log(logType LogType, message string) {
	if l.chatID == 0 {
		return
	}
	topicID := l.topics[logType]
	if topicID == 0 {
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), config.TelegramSendTimeout)
		defer cancel()

		if err := sendLogMessage(ctx, l.sender, l.chatID, topicID, message); err != nil {
			slog.Error("failed to send telegram log", "type", logType, "error", err)
		}
	}()
}

// Wait blocks until queued messages are sent or their timeouts expire.
func (l *TelegramLogger) Wait() {
	l.wg.Wait()
}

func (l *TelegramLogger) SlotActivated(_ context.Context, entry *domain.QueueEntry) {
	msg := fmt.Sprintf("📣 *Slot Activated*\n\n*Slot:* %s\n*Entry:* %s\n*Bidder:* %s\n*Bid:* %s\n*Until:* %s",
		code(entry.SlotID), code(entry.ID), code(entry.BidderWallet), entry.BidAmount.String(), formatTime(entry.ExpiresAt))
	l.Log(LogTypeActivation, msg)
}

func (l *TelegramLogger) CreditsRedeemed(_ context.Context, wallet string, amount decimal.Decimal, reference string) {
	msg := fmt.Sprintf("🎟 *Credits Redeemed*\n\n*Wallet:* %s\n*Amount:* %s\n*Reference:* %s",
		code(wallet), amount.String(), code(reference))
	l.Log(LogTypeRedemption, msg)
}

func (l *TelegramLogger) ActivationFailed(_ context.Context, slotID string, err error) {
	where := "activation pass"
	if slotID != "" {
		where = "slot " + code(slotID)
	}
	msg := fmt.Sprintf("❌ *Activation Error*\n\n*Context:* %s\n*Error:* %s\n*Time:* %s",
		where, escapeMarkdown(err.Error()), l.now().UTC().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
