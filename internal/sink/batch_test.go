package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

func testEvent(i int) model.Event {
	return model.NewEvent(model.EventOutbid, "main", model.Item{ID: fmt.Sprintf("%d", i), Title: "lamp"},
		time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
}

// collector records written batches.
type collector struct {
	mu      sync.Mutex
	batches [][]model.Event
	err     error
}

func (c *collector) write(_ context.Context, batch []model.Event) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	c.batches = append(c.batches, batch)
	return len(batch), nil
}

func (c *collector) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBatcher_FlushOnSize(t *testing.T) {
	c := &collector{}
	b := newBatcher("test", BatchConfig{BatchSize: 3, FlushInterval: time.Hour}, c.write, nil)
	ctx := context.Background()
	b.Start(ctx)
	defer b.Stop(ctx)

	for i := 0; i < 6; i++ {
		if err := b.Handle(ctx, testEvent(i)); err != nil {
			t.Fatalf("Handle() error: %v", err)
		}
	}

	waitUntil(t, func() bool { return c.total() == 6 })

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.batches) != 2 || len(c.batches[0]) != 3 {
		t.Errorf("batches = %d, want 2 of 3", len(c.batches))
	}
	if c.batches[0][0].Item.ID != "0" || c.batches[1][2].Item.ID != "5" {
		t.Error("events out of order")
	}
}

func TestBatcher_FlushOnInterval(t *testing.T) {
	c := &collector{}
	b := newBatcher("test", BatchConfig{BatchSize: 100, FlushInterval: 20 * time.Millisecond}, c.write, nil)
	ctx := context.Background()
	b.Start(ctx)
	defer b.Stop(ctx)

	b.Handle(ctx, testEvent(1))

	waitUntil(t, func() bool { return c.total() == 1 })
	if s := b.Stats(); s.Flushes < 1 || s.Written != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestBatcher_StopDrains(t *testing.T) {
	c := &collector{}
	b := newBatcher("test", BatchConfig{BatchSize: 100, FlushInterval: time.Hour}, c.write, nil)
	ctx := context.Background()
	b.Start(ctx)

	for i := 0; i < 10; i++ {
		b.Handle(ctx, testEvent(i))
	}
	if err := b.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	if got := c.total(); got != 10 {
		t.Errorf("written = %d, want 10", got)
	}
	if err := b.Handle(ctx, testEvent(11)); !errors.Is(err, ErrBufferFull) {
		t.Errorf("Handle() after Stop error = %v, want ErrBufferFull", err)
	}
}

func TestBatcher_BufferFull(t *testing.T) {
	c := &collector{}
	// Not started: nothing drains the queue.
	b := newBatcher("test", BatchConfig{BufferSize: 2}, c.write, nil)

	ctx := context.Background()
	b.Handle(ctx, testEvent(1))
	b.Handle(ctx, testEvent(2))
	if err := b.Handle(ctx, testEvent(3)); !errors.Is(err, ErrBufferFull) {
		t.Errorf("Handle() error = %v, want ErrBufferFull", err)
	}
	if s := b.Stats(); s.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", s.Dropped)
	}
}

func TestBatcher_WriteError(t *testing.T) {
	c := &collector{err: errors.New("unreachable")}
	b := newBatcher("test", BatchConfig{BatchSize: 2, FlushInterval: time.Hour}, c.write, nil)
	ctx := context.Background()
	b.Start(ctx)

	b.Handle(ctx, testEvent(1))
	b.Handle(ctx, testEvent(2))
	waitUntil(t, func() bool { return b.Stats().Errors == 1 })
	b.Stop(ctx)

	s := b.Stats()
	if s.Failed != 2 || s.Written != 0 || s.Flushes != 0 {
		t.Errorf("Stats() = %+v, want 2 failed", s)
	}
}

func TestBatchConfig_Defaults(t *testing.T) {
	got := BatchConfig{}.withDefaults()
	if got != DefaultBatchConfig() {
		t.Errorf("withDefaults() = %+v, want %+v", got, DefaultBatchConfig())
	}
	custom := BatchConfig{BatchSize: 5, FlushInterval: time.Second, BufferSize: 7}
	if got := custom.withDefaults(); got != custom {
		t.Errorf("withDefaults() = %+v, want %+v", got, custom)
	}
}
