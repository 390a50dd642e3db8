package sink

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/auction-watch/internal/events"
	"github.com/rickgao/auction-watch/internal/model"
)

// ErrBufferFull is returned when a sink cannot accept another event.
var ErrBufferFull = errors.New("sink buffer full")

// BatchConfig controls buffering and flushing.
type BatchConfig struct {
	BatchSize     int           // events per write (default: 100)
	FlushInterval time.Duration // max time an event waits (default: 1s)
	BufferSize    int           // queued events before rejecting (default: 10000)
}

// DefaultBatchConfig returns the default batching settings.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize:     100,
		FlushInterval: time.Second,
		BufferSize:    10000,
	}
}

func (c BatchConfig) withDefaults() BatchConfig {
	def := DefaultBatchConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = def.FlushInterval
	}
	if c.BufferSize <= 0 {
		c.BufferSize = def.BufferSize
	}
	return c
}

// Stats counts a batching sink's work.
type Stats struct {
	Written   int64 `json:"written"`
	Conflicts int64 `json:"conflicts"` // duplicates skipped by the destination
	Failed    int64 `json:"failed"`    // events lost to write errors
	Flushes   int64 `json:"flushes"`
	Errors    int64 `json:"errors"`
	Dropped   int64 `json:"dropped"` // rejected because the buffer was full
}

// writeFunc writes one batch and returns how many events were stored.
type writeFunc func(ctx context.Context, batch []model.Event) (int, error)

// batcher accumulates events from its queue and hands them to write in
// batches, on size or on interval.
type batcher struct {
	name   string
	cfg    BatchConfig
	logger *slog.Logger
	write  writeFunc

	input *events.Queue[model.Event]

	batch   []model.Event
	batchMu sync.Mutex
	stats   Stats

	ctx     context.Context
	cancel  context.CancelFunc
	consume sync.WaitGroup
	ticker  sync.WaitGroup
}

func newBatcher(name string, cfg BatchConfig, write writeFunc, logger *slog.Logger) *batcher {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &batcher{
		name:   name,
		cfg:    cfg,
		logger: logger.With("sink", name),
		write:  write,
		input:  events.NewQueue[model.Event](min(cfg.BufferSize, 1024), cfg.BufferSize),
		batch:  make([]model.Event, 0, cfg.BatchSize),
	}
}

// Handle queues e without blocking.
func (b *batcher) Handle(_ context.Context, e model.Event) error {
	if !b.input.Push(e) {
		b.batchMu.Lock()
		b.stats.Dropped++
		b.batchMu.Unlock()
		return ErrBufferFull
	}
	return nil
}

// Start begins consuming queued events.
func (b *batcher) Start(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.consume.Add(1)
	go b.consumeLoop()

	b.ticker.Add(1)
	go b.flushLoop()

	b.logger.Info("sink started",
		"batch_size", b.cfg.BatchSize,
		"flush_interval", b.cfg.FlushInterval,
	)
	return nil
}

// Stop stops accepting events, drains the queue and writes what is left.
// ctx bounds the final write.
func (b *batcher) Stop(ctx context.Context) error {
	b.logger.Info("stopping sink")

	b.input.Close()

	done := make(chan struct{})
	go func() {
		b.consume.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("sink drain timed out", "pending", b.input.Len())
	}

	if b.cancel != nil {
		b.cancel()
	}
	b.ticker.Wait()

	b.flush(ctx)
	b.logger.Info("sink stopped")
	return nil
}

// Stats returns the current counters.
func (b *batcher) Stats() Stats {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()
	return b.stats
}

func (b *batcher) consumeLoop() {
	defer b.consume.Done()

	for {
		e, ok := b.input.Pop()
		if !ok {
			return
		}

		b.batchMu.Lock()
		b.batch = append(b.batch, e)
		full := len(b.batch) >= b.cfg.BatchSize
		b.batchMu.Unlock()

		if full {
			b.flush(b.ctx)
		}
	}
}

func (b *batcher) flushLoop() {
	defer b.ticker.Done()

	t := time.NewTicker(b.cfg.FlushInterval)
	defer t.Stop()

	for {
		select {
		case <-b.ctx.Done():
			return
		case <-t.C:
			b.flush(b.ctx)
		}
	}
}

// flush writes the current batch. A failed batch is logged and dropped;
// events are notifications, not the source of truth.
func (b *batcher) flush(ctx context.Context) {
	b.batchMu.Lock()
	if len(b.batch) == 0 {
		b.batchMu.Unlock()
		return
	}
	batch := b.batch
	b.batch = make([]model.Event, 0, b.cfg.BatchSize)
	b.batchMu.Unlock()

	start := time.Now()
	written, err := b.write(ctx, batch)

	b.batchMu.Lock()
	if err != nil {
		b.stats.Errors++
		b.stats.Failed += int64(len(batch))
	} else {
		b.stats.Written += int64(written)
		b.stats.Conflicts += int64(len(batch) - written)
		b.stats.Flushes++
	}
	b.batchMu.Unlock()

	if err != nil {
		b.logger.Error("batch write failed", "err", err, "count", len(batch))
		return
	}
	b.logger.Debug("flushed events",
		"count", len(batch),
		"written", written,
		"duration", time.Since(start),
	)
}
