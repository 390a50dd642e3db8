package poller

import (
	"context"
	"time"

	"github.com/rickgao/auction-watch/internal/api"
	"github.com/rickgao/auction-watch/internal/model"
)

// Cycle is the input of one diff.
type Cycle[S any] struct {
	Prev     S
	HasPrior bool // prior state was loaded or an earlier cycle completed
	Current  []model.Item
	Now      time.Time
}

// Strategy supplies the domain rules of a poller.
type Strategy[S any] interface {
	// Kind names the domain, e.g. "bids".
	Kind() string

	// Fetch returns the current items. An error aborts the cycle.
	Fetch(ctx context.Context) ([]model.Item, error)

	// Diff returns the events for the transition from c.Prev to c.Current.
	Diff(ctx context.Context, c Cycle[S]) []model.Event

	// Merge returns the state to keep after the cycle.
	Merge(c Cycle[S]) S

	// Prune drops entries older than the retention window from loaded state.
	Prune(state S, now time.Time) S

	// Empty returns the zero state.
	Empty() S

	// Sort orders items for presentation.
	Sort(items []model.Item)
}

// Publisher receives the events of a cycle.
type Publisher interface {
	Publish(ctx context.Context, e model.Event)
}

// PublisherFunc is a function adapter for Publisher.
type PublisherFunc func(ctx context.Context, e model.Event)

func (f PublisherFunc) Publish(ctx context.Context, e model.Event) {
	f(ctx, e)
}

// Observer is notified after every cycle.
type Observer interface {
	ObserveCycle(account, poller string, d time.Duration, items, events int, err error)
}

// ActivitySource provides the account's bid, watch and purchase lists.
type ActivitySource interface {
	FetchMyActivity(ctx context.Context) (api.Activity, error)
}

// ItemLookup resolves a single listing authoritatively.
type ItemLookup interface {
	FetchItem(ctx context.Context, id string) (api.ItemDetail, bool)
	Identity() (string, bool)
}

// Searcher runs a saved search. It never fails; errors yield no items.
type Searcher interface {
	Search(ctx context.Context, spec model.SearchSpec) []model.Item
}
