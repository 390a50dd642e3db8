package sink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rickgao/auction-watch/internal/config"
	"github.com/rickgao/auction-watch/internal/model"
)

// chattableSender is the part of *tgbotapi.BotAPI the sink uses.
type chattableSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends a chat message for each selected event kind.
type Telegram struct {
	*batcher
	bot    chattableSender
	chatID int64
	kinds  map[model.EventKind]bool
}

// NewTelegram connects the bot and creates the sink. An empty event list
// selects every kind.
func NewTelegram(cfg config.TelegramConfig, logger *slog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return newTelegram(bot, cfg.ChatID, cfg.Events, logger), nil
}

func newTelegram(bot chattableSender, chatID int64, kinds []string, logger *slog.Logger) *Telegram {
	t := &Telegram{bot: bot, chatID: chatID}
	if len(kinds) > 0 {
		t.kinds = make(map[model.EventKind]bool, len(kinds))
		for _, k := range kinds {
			t.kinds[model.EventKind(k)] = true
		}
	}
	t.batcher = newBatcher("telegram", BatchConfig{BatchSize: 10, BufferSize: 500}, t.send, logger)
	return t
}

// Handle queues e when its kind is selected.
func (t *Telegram) Handle(ctx context.Context, e model.Event) error {
	if t.kinds != nil && !t.kinds[e.Kind] {
		return nil
	}
	return t.batcher.Handle(ctx, e)
}

func (t *Telegram) send(ctx context.Context, batch []model.Event) (int, error) {
	sent := 0
	var lastErr error
	for _, e := range batch {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		msg := tgbotapi.NewMessage(t.chatID, formatMessage(e, time.Now()))
		msg.DisableWebPagePreview = true
		if _, err := t.bot.Send(msg); err != nil {
			t.logger.Warn("telegram send failed", "err", err, "kind", e.Kind, "item_id", e.Item.ID)
			lastErr = err
			continue
		}
		sent++
	}
	if sent == 0 && lastErr != nil {
		return 0, fmt.Errorf("send telegram messages: %w", lastErr)
	}
	return sent, nil
}

// formatMessage renders the chat text for e.
func formatMessage(e model.Event, now time.Time) string {
	var b strings.Builder
	b.WriteString(e.Summary())
	fmt.Fprintf(&b, "\nAccount: %s", e.Account)
	if e.Item.Seller.Username != "" {
		fmt.Fprintf(&b, "\nSeller: %s (%d)", e.Item.Seller.Username, e.Item.Seller.FeedbackScore)
	}
	if remaining, ok := e.Item.Remaining(now); ok && e.Kind != model.EventAuctionWon && e.Kind != model.EventAuctionLost {
		fmt.Fprintf(&b, "\nTime left: %s", model.FormatRemaining(remaining))
	}
	if e.Item.TrackingNumber != "" {
		fmt.Fprintf(&b, "\nTracking: %s", e.Item.TrackingNumber)
	}
	if e.Item.URL != "" {
		fmt.Fprintf(&b, "\n%s", e.Item.URL)
	}
	return b.String()
}
