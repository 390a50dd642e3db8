package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

const (
	// EndingSoonWindow is how close to its end an auction must be to alert.
	EndingSoonWindow = 15 * time.Minute

	// EndingSoonCooldown is the minimum gap between alerts for one item.
	EndingSoonCooldown = 10 * time.Minute
)

// Bids tracks the auctions the account has bid on.
//
// The ending-soon cooldown map is only touched from Diff, which the poller
// never runs concurrently.
type Bids struct {
	account   string
	source    ActivitySource
	verifier  *Verifier
	logger    *slog.Logger
	retention time.Duration

	lastEndingSoon map[string]time.Time
}

// NewBids creates the bids strategy. lookup may be nil, in which case every
// vanished item is decided from the cached high-bidder flag.
func NewBids(account string, source ActivitySource, lookup ItemLookup, logger *slog.Logger) *Bids {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bids{
		account:        account,
		source:         source,
		verifier:       NewVerifier(lookup, logger),
		logger:         logger,
		retention:      DefaultRetention,
		lastEndingSoon: make(map[string]time.Time),
	}
}

func (b *Bids) Kind() string { return "bids" }

func (b *Bids) Fetch(ctx context.Context) ([]model.Item, error) {
	act, err := b.source.FetchMyActivity(ctx)
	if err != nil {
		return nil, err
	}
	return act.Bids, nil
}

// Diff emits high-bidder transitions for items seen before, ending-soon
// alerts for every current item, and won/lost for items that vanished.
func (b *Bids) Diff(ctx context.Context, c Cycle[model.Snapshot]) []model.Event {
	var events []model.Event
	current := make(map[string]bool, len(c.Current))

	for _, cur := range c.Current {
		current[cur.ID] = true

		if prev, ok := c.Prev[cur.ID]; ok {
			switch {
			case cur.HighBidder && !prev.HighBidder:
				events = append(events, model.NewEvent(model.EventBecameHighBidder, b.account, cur, c.Now))
			case !cur.HighBidder && prev.HighBidder:
				events = append(events, model.NewEvent(model.EventOutbid, b.account, cur, c.Now))
			}
		}

		if e, ok := b.endingSoon(cur, c.Now); ok {
			events = append(events, e)
		}
	}

	for id, prev := range c.Prev {
		if current[id] {
			continue
		}
		if e, ok := b.verifier.Resolve(ctx, b.account, prev, c.Now); ok {
			events = append(events, e)
		}
	}

	b.expireCooldowns(c.Now)
	return events
}

// endingSoon fires when 0 < remaining <= EndingSoonWindow and the item has
// not fired within EndingSoonCooldown.
func (b *Bids) endingSoon(it model.Item, now time.Time) (model.Event, bool) {
	remaining, ok := it.Remaining(now)
	if !ok || remaining <= 0 || remaining > EndingSoonWindow {
		return model.Event{}, false
	}
	if last, fired := b.lastEndingSoon[it.ID]; fired && now.Sub(last) <= EndingSoonCooldown {
		return model.Event{}, false
	}
	b.lastEndingSoon[it.ID] = now

	e := model.NewEvent(model.EventEndingSoon, b.account, it, now)
	e.MinutesRemaining = int(remaining.Minutes())
	return e, true
}

func (b *Bids) expireCooldowns(now time.Time) {
	for id, last := range b.lastEndingSoon {
		if now.Sub(last) > EndingSoonCooldown {
			delete(b.lastEndingSoon, id)
		}
	}
}

func (b *Bids) Merge(c Cycle[model.Snapshot]) model.Snapshot {
	return model.SnapshotOf(c.Current)
}

func (b *Bids) Prune(s model.Snapshot, now time.Time) model.Snapshot {
	return pruneSnapshot(s, now, b.retention)
}

func (b *Bids) Empty() model.Snapshot { return model.Snapshot{} }

func (b *Bids) Sort(items []model.Item) { SortByEndTime(items) }
