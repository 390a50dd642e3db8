package sink

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rickgao/auction-watch/internal/config"
	"github.com/rickgao/auction-watch/internal/database"
	"github.com/rickgao/auction-watch/internal/model"
)

func TestToJournalRow(t *testing.T) {
	e := testEvent(9)
	row, err := toJournalRow(e)
	if err != nil {
		t.Fatalf("toJournalRow() error: %v", err)
	}
	if row.ID != e.ID.String() || row.Kind != "outbid" || row.ItemID != "9" || row.Account != "main" {
		t.Errorf("row = %+v", row)
	}
	if row.SearchID != nil {
		t.Errorf("SearchID = %v, want nil", *row.SearchID)
	}
	if !row.OccurredAt.Equal(e.OccurredAt) {
		t.Errorf("OccurredAt = %v, want %v", row.OccurredAt, e.OccurredAt)
	}

	e.SearchID = "s1"
	row, _ = toJournalRow(e)
	if row.SearchID == nil || *row.SearchID != "s1" {
		t.Errorf("SearchID = %v, want s1", row.SearchID)
	}
}

// TestJournal runs against a real database when WATCHER_TEST_PG_HOST is set.
func TestJournal(t *testing.T) {
	host := os.Getenv("WATCHER_TEST_PG_HOST")
	if host == "" {
		t.Skip("WATCHER_TEST_PG_HOST not set")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, config.DBConfig{
		Host:     host,
		Port:     5432,
		Name:     os.Getenv("WATCHER_TEST_PG_DB"),
		User:     os.Getenv("WATCHER_TEST_PG_USER"),
		Password: os.Getenv("WATCHER_TEST_PG_PASSWORD"),
		SSLMode:  "disable",
		MaxConns: 4,
	})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer pool.Close()

	j, err := NewJournal(ctx, pool, config.JournalConfig{BatchSize: 10, FlushInterval: time.Hour, BufferSize: 100}, nil)
	if err != nil {
		t.Fatalf("NewJournal failed: %v", err)
	}

	e := testEvent(1)
	written, err := j.insert(ctx, []model.Event{e, e})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if written != 1 {
		t.Errorf("written = %d, want 1 (duplicate id skipped)", written)
	}

	var kind string
	if err := pool.QueryRow(ctx, `SELECT kind FROM event_journal WHERE id = $1`, e.ID.String()).Scan(&kind); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if kind != "outbid" {
		t.Errorf("kind = %q, want outbid", kind)
	}
}
