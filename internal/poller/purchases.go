package poller

import (
	"context"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

// Purchases tracks won and bought items through shipping.
type Purchases struct {
	account   string
	source    ActivitySource
	retention time.Duration
}

// NewPurchases creates the purchases strategy.
func NewPurchases(account string, source ActivitySource) *Purchases {
	return &Purchases{account: account, source: source, retention: DefaultRetention}
}

func (p *Purchases) Kind() string { return "purchases" }

func (p *Purchases) Fetch(ctx context.Context) ([]model.Item, error) {
	act, err := p.source.FetchMyActivity(ctx)
	if err != nil {
		return nil, err
	}
	return act.Purchases, nil
}

// Diff emits new_purchase for unseen items and item_shipped / item_delivered
// when the status moves forward into that state. Backward moves emit nothing.
func (p *Purchases) Diff(_ context.Context, c Cycle[model.Snapshot]) []model.Event {
	var events []model.Event

	for _, cur := range c.Current {
		prev, seen := c.Prev[cur.ID]
		if !seen {
			events = append(events, model.NewEvent(model.EventNewPurchase, p.account, cur, c.Now))
			continue
		}

		from, to := prev.ShippingStatus.Rank(), cur.ShippingStatus.Rank()
		if to <= from {
			continue
		}
		switch cur.ShippingStatus {
		case model.ShippingShipped:
			events = append(events, model.NewEvent(model.EventItemShipped, p.account, cur, c.Now))
		case model.ShippingDelivered:
			events = append(events, model.NewEvent(model.EventItemDelivered, p.account, cur, c.Now))
		}
	}

	return events
}

func (p *Purchases) Merge(c Cycle[model.Snapshot]) model.Snapshot {
	return model.SnapshotOf(c.Current)
}

func (p *Purchases) Prune(s model.Snapshot, now time.Time) model.Snapshot {
	return pruneSnapshot(s, now, p.retention)
}

func (p *Purchases) Empty() model.Snapshot { return model.Snapshot{} }

func (p *Purchases) Sort(items []model.Item) { SortByPurchaseTime(items) }
