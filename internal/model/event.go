package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventKind names a domain transition.
type EventKind string

const (
	EventNewSearchResult  EventKind = "new_search_result"
	EventBecameHighBidder EventKind = "became_high_bidder"
	EventOutbid           EventKind = "outbid"
	EventEndingSoon       EventKind = "auction_ending_soon"
	EventAuctionWon       EventKind = "auction_won"
	EventAuctionLost      EventKind = "auction_lost"
	EventItemShipped      EventKind = "item_shipped"
	EventItemDelivered    EventKind = "item_delivered"
	EventNewPurchase      EventKind = "new_purchase"
)

// AllEventKinds lists every kind in a stable order.
var AllEventKinds = []EventKind{
	EventNewSearchResult,
	EventBecameHighBidder,
	EventOutbid,
	EventEndingSoon,
	EventAuctionWon,
	EventAuctionLost,
	EventItemShipped,
	EventItemDelivered,
	EventNewPurchase,
}

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	for _, known := range AllEventKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Event is a tagged record published once per item transition.
type Event struct {
	ID               uuid.UUID `json:"id"`
	Kind             EventKind `json:"kind"`
	Account          string    `json:"account"`
	SearchID         string    `json:"search_id,omitempty"`
	Query            string    `json:"query,omitempty"`
	MinutesRemaining int       `json:"minutes_remaining,omitempty"`
	Item             Item      `json:"item"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// NewEvent stamps a fresh ID and timestamp.
func NewEvent(kind EventKind, account string, item Item, now time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		Account:    account,
		Item:       item,
		OccurredAt: now,
	}
}

// Key identifies the (item, transition) pair the event reports.
func (e Event) Key() string {
	return string(e.Kind) + ":" + e.Item.ID
}

// Summary is a one-line human description used by notifiers.
func (e Event) Summary() string {
	title := e.Item.Title
	if title == "" {
		title = e.Item.ID
	}
	switch e.Kind {
	case EventNewSearchResult:
		return fmt.Sprintf("New result for %q: %s (%s)", e.Query, title, e.Item.Price)
	case EventBecameHighBidder:
		return fmt.Sprintf("You are the high bidder on %s at %s", title, e.Item.Price)
	case EventOutbid:
		return fmt.Sprintf("Outbid on %s, now %s", title, e.Item.Price)
	case EventEndingSoon:
		return fmt.Sprintf("%s ends in %d min (%s)", title, e.MinutesRemaining, e.Item.Price)
	case EventAuctionWon:
		return fmt.Sprintf("Won %s for %s", title, e.Item.Price)
	case EventAuctionLost:
		return fmt.Sprintf("Lost %s", title)
	case EventItemShipped:
		return fmt.Sprintf("%s has shipped", title)
	case EventItemDelivered:
		return fmt.Sprintf("%s was delivered", title)
	case EventNewPurchase:
		return fmt.Sprintf("Purchased %s for %s", title, e.Item.Price)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, title)
	}
}

// FormatRemaining renders a countdown like "2 days 3 hours" or "45 minutes".
// Minutes are dropped once the countdown is at least a day.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "Ended"
	}
	days := int(d / (24 * time.Hour))
	hours := int(d%(24*time.Hour)) / int(time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 && days == 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if len(parts) == 0 {
		return "Less than 1 minute"
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
