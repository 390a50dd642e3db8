package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLog_Handle(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(slog.New(slog.NewJSONHandler(&buf, nil)))

	e := testEvent(3)
	e.SearchID = "s1"
	e.Query = "lamp"
	if err := l.Handle(context.Background(), e); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["kind"] != "outbid" || line["item_id"] != "3" || line["search_id"] != "s1" {
		t.Errorf("log line = %v", line)
	}
	if line["msg"] != e.Summary() {
		t.Errorf("msg = %v, want %q", line["msg"], e.Summary())
	}
}
