package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const MaxMessageLen = 4096

// MessageSender is the part of *bot.Bot the ops logger needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// sendLogMessage sends Markdown first and falls back to plain text when
// Telegram rejects the entities.
func sendLogMessage(ctx context.Context, s MessageSender, chatID int64, topicID int, text string) error {
	text = closeInlineCode(truncate(text))

	params := &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            text,
		ParseMode:       models.ParseModeMarkdownV1,
		MessageThreadID: topicID,
	}
	if _, err := s.SendMessage(ctx, params); err != nil {
		slog.Warn("markdown send failed, falling back to plain text", "error", err)
		params.ParseMode = ""
		if _, err := s.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxMessageLen {
		return text
	}
	return string(runes[:MaxMessageLen-20]) + "\n\n... (truncated)"
}

// closeInlineCode balances a backtick left open by truncation or by an
// error string that contained one.
func closeInlineCode(text string) string {
	if strings.Count(text, "`")%2 != 0 {
		return text + "`"
	}
	return text
}
