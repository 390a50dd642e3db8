package events

import (
	"context"
	"sync"

	"github.com/rickgao/auction-watch/internal/model"
)

// DefaultHistorySize is the number of events History keeps by default.
const DefaultHistorySize = 200

// History remembers the most recent events for the operator API.
type History struct {
	mu     sync.RWMutex
	events []model.Event
	next   int
	full   bool
}

// NewHistory creates a history holding up to size events.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{events: make([]model.Event, size)}
}

func (h *History) Handle(_ context.Context, e model.Event) error {
	h.mu.Lock()
	h.events[h.next] = e
	h.next = (h.next + 1) % len(h.events)
	if h.next == 0 {
		h.full = true
	}
	h.mu.Unlock()
	return nil
}

// Recent returns up to n events, newest first, optionally restricted to one
// account.
func (h *History) Recent(n int, account string) []model.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()

	size := h.next
	if h.full {
		size = len(h.events)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]model.Event, 0, n)
	for i := 1; i <= size && len(out) < n; i++ {
		e := h.events[(h.next-i+len(h.events))%len(h.events)]
		if account != "" && e.Account != account {
			continue
		}
		out = append(out, e)
	}
	return out
}
