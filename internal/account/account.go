package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/rickgao/auction-watch/internal/api"
	"github.com/rickgao/auction-watch/internal/model"
	"github.com/rickgao/auction-watch/internal/poller"
	"github.com/rickgao/auction-watch/internal/store"
)

// Activity poller domains.
const (
	DomainBids      = "bids"
	DomainWatchlist = "watchlist"
	DomainPurchases = "purchases"
)

// Marketplace is the client surface an account needs.
type Marketplace interface {
	poller.ActivitySource
	poller.ItemLookup
	poller.Searcher
	Site() string
	InvalidateActivity()
	Usage() api.UsageSnapshot
	ResetUsage()
	RemoteUsage(ctx context.Context) (map[api.Surface]api.RemoteQuota, error)
}

// Intervals sets the activity poll periods. Zero values use the poller
// default.
type Intervals struct {
	Bids      time.Duration
	Watchlist time.Duration
	Purchases time.Duration
}

// Deps are the shared services every account's pollers use.
type Deps struct {
	Store     store.Store
	Publisher poller.Publisher
	Observer  poller.Observer
	Logger    *slog.Logger
	Now       func() time.Time
}

// seriesForgetter is implemented by observers that keep per-poller series.
type seriesForgetter interface {
	Forget(account, poller string)
}

type savedSearch struct {
	strategy *poller.Search
	poller   *poller.Poller[model.SeenSet]
}

// Account is one marketplace account and its pollers.
type Account struct {
	name   string
	client Marketplace
	deps   Deps
	logger *slog.Logger

	bids      *poller.Poller[model.Snapshot]
	watchlist *poller.Poller[model.Snapshot]
	purchases *poller.Poller[model.Snapshot]

	mu       sync.RWMutex
	searches map[string]*savedSearch
	runCtx   context.Context // set while started
}

// New creates an account. Pollers do not run until Start.
func New(name string, client Marketplace, iv Intervals, deps Deps) *Account {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	a := &Account{
		name:     name,
		client:   client,
		deps:     deps,
		logger:   deps.Logger.With("account", name),
		searches: make(map[string]*savedSearch),
	}

	a.bids = poller.New(a.pollerConfig(iv.Bids, store.BidsKey(name), ""),
		poller.NewBids(name, client, client, a.logger))
	// The watchlist emits nothing, so its snapshot is not persisted.
	wl := a.pollerConfig(iv.Watchlist, "", "")
	wl.Store = nil
	a.watchlist = poller.New(wl, poller.NewWatchlist(client))
	a.purchases = poller.New(a.pollerConfig(iv.Purchases, store.PurchasesKey(name), ""),
		poller.NewPurchases(name, client))

	return a
}

func (a *Account) pollerConfig(interval time.Duration, key, label string) poller.Config {
	return poller.Config{
		Account:   a.name,
		Name:      label,
		Interval:  interval,
		Store:     a.deps.Store,
		Key:       key,
		Publisher: a.deps.Publisher,
		Observer:  a.deps.Observer,
		Logger:    a.deps.Logger,
		Now:       a.deps.Now,
	}
}

// Name returns the account name.
func (a *Account) Name() string {
	return a.name
}

// Start launches every poller. Each polls once immediately.
func (a *Account) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.runCtx != nil {
		return fmt.Errorf("account %s already started", a.name)
	}
	a.runCtx = ctx

	for _, r := range a.activityRunners() {
		if err := r.Start(ctx); err != nil {
			return fmt.Errorf("start %s poller: %w", r.Kind(), err)
		}
	}
	for id, s := range a.searches {
		if err := s.poller.Start(ctx); err != nil {
			return fmt.Errorf("start search %s: %w", id, err)
		}
	}

	a.logger.Info("account started", "searches", len(a.searches))
	return nil
}

// Stop stops every poller and waits for in-flight cycles.
func (a *Account) Stop(ctx context.Context) error {
	a.mu.Lock()
	a.runCtx = nil
	runners := a.activityRunners()
	for _, s := range a.searches {
		runners = append(runners, s.poller)
	}
	a.mu.Unlock()

	var errs []error
	for _, r := range runners {
		if err := r.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s poller: %w", r.Kind(), err))
		}
	}
	return errors.Join(errs...)
}

func (a *Account) activityRunners() []poller.Runner {
	return []poller.Runner{a.bids, a.watchlist, a.purchases}
}

// Runner returns the activity poller for domain.
func (a *Account) Runner(domain string) (poller.Runner, error) {
	switch domain {
	case DomainBids:
		return a.bids, nil
	case DomainWatchlist:
		return a.watchlist, nil
	case DomainPurchases:
		return a.purchases, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
}

// Refresh runs one cycle of the domain's poller now, bypassing the shared
// activity cache.
func (a *Account) Refresh(ctx context.Context, domain string) error {
	r, err := a.Runner(domain)
	if err != nil {
		return err
	}
	a.client.InvalidateActivity()
	if err := r.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh %s for %s: %w", domain, a.name, err)
	}
	return nil
}

// RefreshAll refreshes the activity pollers and every saved search. The
// activity lists are fetched once and shared.
func (a *Account) RefreshAll(ctx context.Context) error {
	a.client.InvalidateActivity()

	var errs []error
	for _, r := range a.activityRunners() {
		if err := r.Refresh(ctx); err != nil {
			errs = append(errs, fmt.Errorf("refresh %s for %s: %w", r.Kind(), a.name, err))
		}
	}
	for _, s := range a.searchList() {
		if err := s.poller.Refresh(ctx); err != nil {
			errs = append(errs, fmt.Errorf("refresh search %s: %w", s.strategy.Spec().ID, err))
		}
	}
	return errors.Join(errs...)
}

// View is the presentation of one poller: its ordered items and status.
type View struct {
	Items  []model.Item  `json:"items"`
	Status poller.Status `json:"status"`
}

// View returns the last successful items of an activity domain.
func (a *Account) View(domain string) (View, error) {
	r, err := a.Runner(domain)
	if err != nil {
		return View{}, err
	}
	return View{Items: r.Items(), Status: r.Status()}, nil
}

// Statuses returns the status of every poller of the account.
func (a *Account) Statuses() []poller.Status {
	out := make([]poller.Status, 0, 3)
	for _, r := range a.activityRunners() {
		out = append(out, r.Status())
	}
	for _, s := range a.searchList() {
		out = append(out, s.poller.Status())
	}
	return out
}

// searchList returns saved searches ordered by creation time.
func (a *Account) searchList() []*savedSearch {
	a.mu.RLock()
	out := make([]*savedSearch, 0, len(a.searches))
	for _, s := range a.searches {
		out = append(out, s)
	}
	a.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].strategy.Spec(), out[j].strategy.Spec()
		if !si.CreatedAt.Equal(sj.CreatedAt) {
			return si.CreatedAt.Before(sj.CreatedAt)
		}
		return si.ID < sj.ID
	})
	return out
}

// RateLimits reports local usage counters and, when available, the
// marketplace's own quotas.
type RateLimits struct {
	Account     string                          `json:"account"`
	Usage       api.UsageSnapshot               `json:"usage"`
	Remote      map[api.Surface]api.RemoteQuota `json:"remote,omitempty"`
	RemoteError string                          `json:"remote_error,omitempty"`
}

// RateLimits builds the usage report. A remote failure is reported, not
// returned.
func (a *Account) RateLimits(ctx context.Context) RateLimits {
	r := RateLimits{Account: a.name, Usage: a.client.Usage()}
	remote, err := a.client.RemoteUsage(ctx)
	if err != nil {
		a.logger.Debug("remote rate limits unavailable", "err", err)
		r.RemoteError = err.Error()
	} else {
		r.Remote = remote
	}
	return r
}

// ResetRateLimits zeroes the local usage counters.
func (a *Account) ResetRateLimits() {
	a.client.ResetUsage()
	a.logger.Info("usage counters reset")
}
