package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

// Activity is the combined "my account" view.
type Activity struct {
	Bids      []model.Item `json:"bids"`
	Watchlist []model.Item `json:"watchlist"`
	Purchases []model.Item `json:"purchases"`
	FetchedAt time.Time    `json:"fetched_at"`
}

type activityEntry struct {
	activity Activity
	at       time.Time
}

// FetchMyActivity returns the bid, watch and purchase lists.
//
// Results are reused for the activity TTL based purely on age, so sibling
// pollers refreshing together cost one round trip. Two callers that miss at
// the same time may both fetch; the later result replaces the earlier one.
// Failures are not cached.
func (c *Client) FetchMyActivity(ctx context.Context) (Activity, error) {
	c.cacheMu.Lock()
	if e := c.activity; e != nil && c.now().Sub(e.at) < c.activityTTL {
		act := e.activity
		c.cacheMu.Unlock()
		c.logger.Debug("using cached activity", "age", c.now().Sub(e.at))
		return act, nil
	}
	c.cacheMu.Unlock()

	act, err := c.fetchActivity(ctx)
	if err != nil {
		return Activity{}, err
	}

	c.cacheMu.Lock()
	c.activity = &activityEntry{activity: act, at: act.FetchedAt}
	c.cacheMu.Unlock()

	return act, nil
}

// InvalidateActivity drops the cached activity so the next fetch is fresh.
func (c *Client) InvalidateActivity() {
	c.cacheMu.Lock()
	c.activity = nil
	c.cacheMu.Unlock()
}

func (c *Client) fetchActivity(ctx context.Context) (Activity, error) {
	if !c.creds.HasUserToken() {
		return Activity{}, ErrNoUserToken
	}

	identity := c.resolveIdentity(ctx)

	bidPages, err := c.fetchList(ctx, listBids)
	if err != nil {
		return Activity{}, fmt.Errorf("fetch bids: %w", err)
	}
	watchPages, err := c.fetchList(ctx, listWatch)
	if err != nil {
		return Activity{}, fmt.Errorf("fetch watchlist: %w", err)
	}
	wonPages, err := c.fetchList(ctx, listPurchase)
	if err != nil {
		return Activity{}, fmt.Errorf("fetch purchases: %w", err)
	}

	now := c.now()
	act := Activity{
		Bids:      []model.Item{},
		Watchlist: []model.Item{},
		Purchases: []model.Item{},
		FetchedAt: now,
	}

	for _, p := range bidPages {
		if p.BidList == nil {
			continue
		}
		for i := range p.BidList.Items {
			item, err := p.BidList.Items[i].ToBid(identity, now)
			if err != nil {
				c.logger.Debug("skipping bid entry", "err", err)
				continue
			}
			act.Bids = append(act.Bids, item)
		}
	}

	for _, p := range watchPages {
		if p.WatchList == nil {
			continue
		}
		for i := range p.WatchList.Items {
			item, err := p.WatchList.Items[i].ToWatch(now)
			if err != nil {
				c.logger.Debug("skipping watchlist entry", "err", err)
				continue
			}
			act.Watchlist = append(act.Watchlist, item)
		}
	}

	for _, p := range wonPages {
		if p.WonList == nil {
			continue
		}
		for i := range p.WonList.Orders {
			item, err := p.WonList.Orders[i].ToPurchase(now)
			if err != nil {
				c.logger.Debug("skipping purchase entry", "err", err)
				continue
			}
			act.Purchases = append(act.Purchases, item)
		}
	}

	c.logger.Debug("fetched activity",
		"bids", len(act.Bids),
		"watchlist", len(act.Watchlist),
		"purchases", len(act.Purchases),
		"identity_resolved", identity != "",
	)
	return act, nil
}
