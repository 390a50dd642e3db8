package poller

import (
	"context"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

// Watchlist refreshes the watched items for presentation. It emits no
// events and keeps no state beyond the last snapshot.
type Watchlist struct {
	source ActivitySource
}

// NewWatchlist creates the watchlist strategy.
func NewWatchlist(source ActivitySource) *Watchlist {
	return &Watchlist{source: source}
}

func (w *Watchlist) Kind() string { return "watchlist" }

func (w *Watchlist) Fetch(ctx context.Context) ([]model.Item, error) {
	act, err := w.source.FetchMyActivity(ctx)
	if err != nil {
		return nil, err
	}
	return act.Watchlist, nil
}

func (w *Watchlist) Diff(context.Context, Cycle[model.Snapshot]) []model.Event { return nil }

func (w *Watchlist) Merge(c Cycle[model.Snapshot]) model.Snapshot {
	return model.SnapshotOf(c.Current)
}

func (w *Watchlist) Prune(s model.Snapshot, _ time.Time) model.Snapshot { return s }

func (w *Watchlist) Empty() model.Snapshot { return model.Snapshot{} }

func (w *Watchlist) Sort(items []model.Item) { SortByEndTime(items) }
