package sink

import (
	"context"
	"log/slog"

	"github.com/rickgao/auction-watch/internal/model"
)

// Log writes one structured line per event.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a log sink.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Handle(ctx context.Context, e model.Event) error {
	attrs := []any{
		"kind", e.Kind,
		"account", e.Account,
		"item_id", e.Item.ID,
		"title", e.Item.Title,
		"price", e.Item.Price.String(),
	}
	if e.SearchID != "" {
		attrs = append(attrs, "search_id", e.SearchID, "query", e.Query)
	}
	if e.Kind == model.EventEndingSoon {
		attrs = append(attrs, "minutes_remaining", e.MinutesRemaining)
	}
	l.logger.InfoContext(ctx, e.Summary(), attrs...)
	return nil
}
