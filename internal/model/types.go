package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Listing Types
// -----------------------------------------------------------------------------

// ListingKind describes how an item is sold.
type ListingKind string

const (
	KindAuction    ListingKind = "auction"
	KindFixedPrice ListingKind = "fixed_price"
	KindUnknown    ListingKind = "unknown"
)

// ShippingStatus tracks a purchased item through delivery.
type ShippingStatus string

const (
	ShippingPending   ShippingStatus = "pending"
	ShippingShipped   ShippingStatus = "shipped"
	ShippingDelivered ShippingStatus = "delivered"
)

// Rank orders shipping statuses along pending -> shipped -> delivered.
// Unrecognised values rank below pending.
func (s ShippingStatus) Rank() int {
	switch s {
	case ShippingPending:
		return 0
	case ShippingShipped:
		return 1
	case ShippingDelivered:
		return 2
	default:
		return -1
	}
}

// Money is a decimal amount in a named currency (ISO 4217 code).
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
	"AUD": "A$",
	"CAD": "C$",
}

// String formats the amount with two decimals, e.g. "£3.20".
func (m Money) String() string {
	if sym, ok := currencySymbols[m.Currency]; ok {
		return sym + m.Amount.StringFixed(2)
	}
	if m.Currency == "" {
		return m.Amount.StringFixed(2)
	}
	return m.Amount.StringFixed(2) + " " + m.Currency
}

// IsZero reports whether no amount was observed.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Seller is the listing owner and their reputation.
type Seller struct {
	Username        string  `json:"username"`
	FeedbackScore   int     `json:"feedback_score"`
	PositivePercent float64 `json:"positive_percent"`
	Location        string  `json:"location,omitempty"`
}

// Item is a normalized marketplace listing or transaction record.
//
// ID is the identity; every other field is a snapshot of the latest poll.
// Fields only meaningful to one poller are zero elsewhere.
type Item struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Price   Money       `json:"price"`
	Kind    ListingKind `json:"kind"`
	Seller  Seller      `json:"seller"`
	EndTime *time.Time  `json:"end_time,omitempty"` // nil for fixed-price and purchased items

	// Bids
	HighBidder bool  `json:"high_bidder"`
	BidCount   int   `json:"bid_count,omitempty"`
	ReserveMet *bool `json:"reserve_met,omitempty"`

	// Purchases
	ShippingStatus ShippingStatus `json:"shipping_status,omitempty"`
	TrackingNumber string         `json:"tracking_number,omitempty"`
	PurchasedAt    *time.Time     `json:"purchased_at,omitempty"`

	// Watchlist
	Watchers int `json:"watchers,omitempty"`

	URL         string    `json:"url,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// Remaining returns the time left until EndTime, and false when the item
// has no end time.
func (i Item) Remaining(now time.Time) (time.Duration, bool) {
	if i.EndTime == nil {
		return 0, false
	}
	return i.EndTime.Sub(now), true
}

// Snapshot maps item ID to the last observed Item.
type Snapshot map[string]Item

// Items returns the snapshot values in unspecified order.
func (s Snapshot) Items() []Item {
	out := make([]Item, 0, len(s))
	for _, it := range s {
		out = append(out, it)
	}
	return out
}

// SnapshotOf indexes items by ID. Later duplicates win.
func SnapshotOf(items []Item) Snapshot {
	s := make(Snapshot, len(items))
	for _, it := range items {
		s[it.ID] = it
	}
	return s
}

// UnmarshalJSON decodes entries one by one. An entry whose timestamps
// cannot be read is kept with those timestamps cleared.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Snapshot, len(raw))
	for id, msg := range raw {
		var it Item
		if err := json.Unmarshal(msg, &it); err != nil {
			it, err = decodeLenient(msg)
			if err != nil {
				return fmt.Errorf("decode item %s: %w", id, err)
			}
		}
		if it.ID == "" {
			it.ID = id
		}
		out[id] = it
	}
	*s = out
	return nil
}

func decodeLenient(msg json.RawMessage) (Item, error) {
	type plain Item
	var aux struct {
		plain
		EndTime     json.RawMessage `json:"end_time,omitempty"`
		PurchasedAt json.RawMessage `json:"purchased_at,omitempty"`
		LastUpdated json.RawMessage `json:"last_updated"`
	}
	if err := json.Unmarshal(msg, &aux); err != nil {
		return Item{}, err
	}

	it := Item(aux.plain)
	it.EndTime = lenientTime(aux.EndTime)
	it.PurchasedAt = lenientTime(aux.PurchasedAt)
	if t := lenientTime(aux.LastUpdated); t != nil {
		it.LastUpdated = *t
	}
	return it, nil
}

func lenientTime(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil || t.IsZero() {
		return nil
	}
	return &t
}

// SeenSet is an ordered list of item IDs, oldest first.
type SeenSet []string

// Contains returns the ids as a lookup set.
func (s SeenSet) Contains() map[string]bool {
	m := make(map[string]bool, len(s))
	for _, id := range s {
		m[id] = true
	}
	return m
}
