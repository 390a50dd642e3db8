package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
	"github.com/rickgao/auction-watch/internal/store"
)

// Config holds poller configuration.
type Config struct {
	Account  string
	Name     string        // label for logs and metrics (default: strategy kind)
	Interval time.Duration // time between cycles (default: 15m)

	// Store and Key locate the persisted state. A nil Store keeps state in
	// memory only.
	Store store.Store
	Key   string

	Publisher Publisher
	Observer  Observer
	Logger    *slog.Logger
	Now       func() time.Time
}

// DefaultInterval is used when Config.Interval is zero.
const DefaultInterval = 15 * time.Minute

// Status describes the most recent cycles of a poller.
type Status struct {
	Account     string        `json:"account"`
	Kind        string        `json:"kind"`
	Name        string        `json:"name"`
	Interval    time.Duration `json:"interval"`
	Running     bool          `json:"running"`
	Cycles      int64         `json:"cycles"`
	Items       int           `json:"items"`
	LastAttempt *time.Time    `json:"last_attempt,omitempty"`
	LastSuccess *time.Time    `json:"last_success,omitempty"`
	LastError   string        `json:"last_error,omitempty"`
}

// Runner is the type-erased view of a Poller used by account wiring.
type Runner interface {
	Kind() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Refresh(ctx context.Context) error
	SetInterval(d time.Duration)
	Items() []model.Item
	Status() Status
	Forget(ctx context.Context) error
}

// Poller periodically fetches one domain's items, diffs them against the
// previous cycle, publishes events and persists the merged state.
type Poller[S any] struct {
	cfg      Config
	name     string
	strategy Strategy[S]
	logger   *slog.Logger
	now      func() time.Time

	// cycleMu serializes cycles and guards state.
	cycleMu  sync.Mutex
	state    S
	hasPrior bool
	loaded   bool

	// mu guards the presentation snapshot and scheduling fields.
	mu       sync.RWMutex
	items    []model.Item
	status   Status
	interval time.Duration
	reset    chan time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Poller for the given strategy.
func New[S any](cfg Config, strategy Strategy[S]) *Poller[S] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	name := cfg.Name
	if name == "" {
		name = strategy.Kind()
	}

	p := &Poller[S]{
		cfg:      cfg,
		name:     name,
		strategy: strategy,
		logger:   logger.With("account", cfg.Account, "poller", name),
		now:      now,
		state:    strategy.Empty(),
		items:    []model.Item{},
		interval: interval,
		reset:    make(chan time.Duration, 1),
	}
	p.status = Status{Account: cfg.Account, Kind: strategy.Kind(), Name: name, Interval: interval}
	return p
}

// Kind returns the strategy's domain name.
func (p *Poller[S]) Kind() string {
	return p.strategy.Kind()
}

// Start begins the polling loop. The first cycle runs immediately.
func (p *Poller[S]) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return fmt.Errorf("%s poller already started", p.strategy.Kind())
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.status.Running = true
	interval := p.interval
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx, interval)

	p.logger.Info("poller started", "interval", interval)
	return nil
}

// Stop gracefully shuts down the poller. A cycle in progress finishes its
// current network call first.
func (p *Poller[S]) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.status.Running = false
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetInterval changes the time between cycles. A running loop picks the
// new interval up without waiting for the current tick.
func (p *Poller[S]) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInterval
	}

	p.mu.Lock()
	p.interval = d
	p.status.Interval = d
	p.mu.Unlock()

	// Keep only the latest pending change.
	select {
	case <-p.reset:
	default:
	}
	select {
	case p.reset <- d:
	default:
	}
}

// run is the main polling loop.
func (p *Poller[S]) run(ctx context.Context, interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-p.reset:
			ticker.Reset(d)
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller[S]) tick(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		p.logger.Warn("poll cycle failed", "err", err)
	}
}

// Refresh runs one cycle now: fetch, diff, publish, persist. A fetch error
// aborts the cycle and leaves both the stored state and the last good
// snapshot untouched.
func (p *Poller[S]) Refresh(ctx context.Context) error {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	start := p.now()
	p.ensureLoaded(ctx, start)

	current, err := p.strategy.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("fetch %s: %w", p.strategy.Kind(), err)
		p.recordFailure(start, err)
		return err
	}

	c := Cycle[S]{
		Prev:     p.state,
		HasPrior: p.hasPrior,
		Current:  current,
		Now:      start,
	}

	events := p.strategy.Diff(ctx, c)
	for _, e := range events {
		if p.cfg.Publisher != nil {
			p.cfg.Publisher.Publish(ctx, e)
		}
	}

	next := p.strategy.Merge(c)
	if p.cfg.Store != nil {
		if err := saveState(ctx, p.cfg.Store, p.cfg.Key, next, p.now()); err != nil {
			// Next cycle diffs against in-memory state; only a restart
			// before the next successful save sees stale data.
			p.logger.Error("failed to persist state", "key", p.cfg.Key, "err", err)
		}
	}
	p.state = next
	p.hasPrior = true

	items := make([]model.Item, len(current))
	copy(items, current)
	p.strategy.Sort(items)

	p.recordSuccess(start, items, len(events))
	return nil
}

// ensureLoaded reads prior state once, before the first diff.
func (p *Poller[S]) ensureLoaded(ctx context.Context, now time.Time) {
	if p.loaded {
		return
	}
	p.loaded = true

	if p.cfg.Store == nil {
		return
	}

	state, found, err := loadState[S](ctx, p.cfg.Store, p.cfg.Key)
	if err != nil {
		p.logger.Warn("prior state unavailable, starting empty", "key", p.cfg.Key, "err", err)
		return
	}
	if !found {
		p.logger.Debug("no prior state", "key", p.cfg.Key)
		return
	}

	p.state = p.strategy.Prune(state, now)
	p.hasPrior = true
	p.logger.Debug("loaded prior state", "key", p.cfg.Key)
}

func (p *Poller[S]) recordFailure(at time.Time, err error) {
	p.mu.Lock()
	p.status.Cycles++
	p.status.LastAttempt = &at
	p.status.LastError = err.Error()
	p.mu.Unlock()

	if p.cfg.Observer != nil {
		p.cfg.Observer.ObserveCycle(p.cfg.Account, p.name, p.now().Sub(at), 0, 0, err)
	}
}

func (p *Poller[S]) recordSuccess(at time.Time, items []model.Item, events int) {
	p.mu.Lock()
	p.items = items
	p.status.Cycles++
	p.status.Items = len(items)
	p.status.LastAttempt = &at
	p.status.LastSuccess = &at
	p.status.LastError = ""
	p.mu.Unlock()

	d := p.now().Sub(at)
	p.logger.Debug("poll cycle complete",
		"items", len(items),
		"events", events,
		"duration", d,
	)
	if p.cfg.Observer != nil {
		p.cfg.Observer.ObserveCycle(p.cfg.Account, p.name, d, len(items), events, nil)
	}
}

// Items returns the ordered items of the last successful cycle.
func (p *Poller[S]) Items() []model.Item {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]model.Item, len(p.items))
	copy(out, p.items)
	return out
}

// Status returns a copy of the poller status.
func (p *Poller[S]) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Forget deletes the persisted state and resets the in-memory state, so the
// next cycle behaves like a first run.
func (p *Poller[S]) Forget(ctx context.Context) error {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	p.state = p.strategy.Empty()
	p.hasPrior = false
	p.loaded = true

	if p.cfg.Store == nil {
		return nil
	}
	if err := p.cfg.Store.Delete(ctx, p.cfg.Key); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}
