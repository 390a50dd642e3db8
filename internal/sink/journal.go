package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/auction-watch/internal/config"
	"github.com/rickgao/auction-watch/internal/database"
	"github.com/rickgao/auction-watch/internal/model"
)

var journalSchema = []string{
	`CREATE TABLE IF NOT EXISTS event_journal (
		id          UUID PRIMARY KEY,
		kind        TEXT        NOT NULL,
		account     TEXT        NOT NULL,
		item_id     TEXT        NOT NULL,
		search_id   TEXT,
		occurred_at TIMESTAMPTZ NOT NULL,
		payload     JSONB       NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS event_journal_account_time ON event_journal (account, occurred_at DESC)`,
}

// Journal appends every event to the event_journal table. Inserts are
// idempotent on the event id.
type Journal struct {
	*batcher
	db *pgxpool.Pool
}

// NewJournal ensures the table exists and creates the sink.
func NewJournal(ctx context.Context, db *pgxpool.Pool, cfg config.JournalConfig, logger *slog.Logger) (*Journal, error) {
	if err := database.EnsureSchema(ctx, db, journalSchema...); err != nil {
		return nil, fmt.Errorf("create journal table: %w", err)
	}
	j := &Journal{db: db}
	j.batcher = newBatcher("journal", BatchConfig{
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		BufferSize:    cfg.BufferSize,
	}, j.insert, logger)
	return j, nil
}

type journalRow struct {
	ID         string
	Kind       string
	Account    string
	ItemID     string
	SearchID   *string
	OccurredAt time.Time
	Payload    []byte
}

func toJournalRow(e model.Event) (journalRow, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return journalRow{}, fmt.Errorf("encode event: %w", err)
	}
	row := journalRow{
		ID:         e.ID.String(),
		Kind:       string(e.Kind),
		Account:    e.Account,
		ItemID:     e.Item.ID,
		OccurredAt: e.OccurredAt,
		Payload:    payload,
	}
	if e.SearchID != "" {
		id := e.SearchID
		row.SearchID = &id
	}
	return row, nil
}

// insert writes rows with pgx.Batch and ON CONFLICT DO NOTHING.
func (j *Journal) insert(ctx context.Context, events []model.Event) (int, error) {
	batch := &pgx.Batch{}
	queued := 0
	for _, e := range events {
		r, err := toJournalRow(e)
		if err != nil {
			j.logger.Warn("skipping event", "err", err, "event_id", e.ID)
			continue
		}
		batch.Queue(`
			INSERT INTO event_journal (id, kind, account, item_id, search_id, occurred_at, payload)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`, r.ID, r.Kind, r.Account, r.ItemID, r.SearchID, r.OccurredAt, r.Payload)
		queued++
	}
	if queued == 0 {
		return 0, nil
	}

	results := j.db.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for i := 0; i < queued; i++ {
		ct, err := results.Exec()
		if err != nil {
			return 0, fmt.Errorf("insert event: %w", err)
		}
		written += int(ct.RowsAffected())
	}
	return written, nil
}
