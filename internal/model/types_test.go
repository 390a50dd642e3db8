package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMoneyString(t *testing.T) {
	tests := []struct {
		name  string
		money Money
		want  string
	}{
		{"pounds", Money{Amount: decimal.RequireFromString("3.2"), Currency: "GBP"}, "£3.20"},
		{"dollars", Money{Amount: decimal.RequireFromString("10"), Currency: "USD"}, "$10.00"},
		{"euro", Money{Amount: decimal.RequireFromString("0.5"), Currency: "EUR"}, "€0.50"},
		{"unknown currency", Money{Amount: decimal.RequireFromString("12.345"), Currency: "JPY"}, "12.35 JPY"},
		{"no currency", Money{Amount: decimal.RequireFromString("1")}, "1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShippingStatusRank(t *testing.T) {
	if !(ShippingPending.Rank() < ShippingShipped.Rank() && ShippingShipped.Rank() < ShippingDelivered.Rank()) {
		t.Errorf("ranks not ordered: pending=%d shipped=%d delivered=%d",
			ShippingPending.Rank(), ShippingShipped.Rank(), ShippingDelivered.Rank())
	}
	if got := ShippingStatus("lost").Rank(); got >= ShippingPending.Rank() {
		t.Errorf("unknown Rank() = %d, want below pending", got)
	}
}

func TestItemRemaining(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	end := now.Add(14 * time.Minute)

	it := Item{ID: "1", EndTime: &end}
	d, ok := it.Remaining(now)
	if !ok {
		t.Fatal("Remaining() ok = false, want true")
	}
	if d != 14*time.Minute {
		t.Errorf("Remaining() = %v, want %v", d, 14*time.Minute)
	}

	if _, ok := (Item{ID: "2"}).Remaining(now); ok {
		t.Error("Remaining() without end time ok = true, want false")
	}
}

func TestSnapshotOf(t *testing.T) {
	s := SnapshotOf([]Item{{ID: "a", Title: "first"}, {ID: "b"}, {ID: "a", Title: "second"}})
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if s["a"].Title != "second" {
		t.Errorf("duplicate ID kept %q, want %q", s["a"].Title, "second")
	}
	if len(s.Items()) != 2 {
		t.Errorf("Items() len = %d, want 2", len(s.Items()))
	}
}

func TestParseListingFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    ListingFilter
		wantErr bool
	}{
		{"", FilterBoth, false},
		{"both", FilterBoth, false},
		{"Auction", FilterAuction, false},
		{"fixed_price", FilterFixedPrice, false},
		{"FixedPrice", FilterFixedPrice, false},
		{"barter", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseListingFilter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseListingFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseListingFilter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSearchSpecValidate(t *testing.T) {
	lo := decimal.RequireFromString("50")
	hi := decimal.RequireFromString("10")

	tests := []struct {
		name    string
		spec    SearchSpec
		wantErr string
	}{
		{"valid", SearchSpec{Account: "main", Query: "lens"}, ""},
		{"missing query", SearchSpec{Account: "main", Query: "  "}, "query is required"},
		{"missing account", SearchSpec{Query: "lens"}, "account is required"},
		{"inverted prices", SearchSpec{Account: "main", Query: "lens", MinPrice: &lo, MaxPrice: &hi}, "exceeds max_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSearchSpecInterval(t *testing.T) {
	if got := (SearchSpec{}).Interval(); got != DefaultSearchInterval {
		t.Errorf("Interval() = %v, want %v", got, DefaultSearchInterval)
	}
	if got := (SearchSpec{IntervalMinutes: 5}).Interval(); got != 5*time.Minute {
		t.Errorf("Interval() = %v, want %v", got, 5*time.Minute)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "Ended"},
		{30 * time.Second, "Less than 1 minute"},
		{time.Minute, "1 minute"},
		{45 * time.Minute, "45 minutes"},
		{2*time.Hour + 5*time.Minute, "2 hours 5 minutes"},
		{24*time.Hour + 3*time.Hour + 10*time.Minute, "1 day 3 hours"},
		{3 * 24 * time.Hour, "3 days"},
	}

	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEventSummary(t *testing.T) {
	item := Item{ID: "123", Title: "Camera", Price: Money{Amount: decimal.RequireFromString("20"), Currency: "GBP"}}
	e := NewEvent(EventEndingSoon, "main", item, time.Now())
	e.MinutesRemaining = 7

	if got := e.Summary(); got != "Camera ends in 7 min (£20.00)" {
		t.Errorf("Summary() = %q", got)
	}
	if e.Key() != "auction_ending_soon:123" {
		t.Errorf("Key() = %q, want %q", e.Key(), "auction_ending_soon:123")
	}
	if e.ID.String() == "" {
		t.Error("NewEvent did not assign an ID")
	}
}

func TestEventKindValid(t *testing.T) {
	for _, k := range AllEventKinds {
		if !k.Valid() {
			t.Errorf("%q.Valid() = false, want true", k)
		}
	}
	if EventKind("price_drop").Valid() {
		t.Error(`"price_drop".Valid() = true, want false`)
	}
}

func TestSnapshotUnmarshalLenient(t *testing.T) {
	data := []byte(`{
		"a": {"id": "a", "title": "ok", "end_time": "2025-01-15T12:00:00Z", "last_updated": "2025-01-15T11:00:00Z"},
		"b": {"id": "b", "title": "bad time", "high_bidder": true, "end_time": "not a time", "last_updated": "also bad"}
	}`)

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("len(snap) = %d, want 2", len(snap))
	}
	if snap["a"].EndTime == nil {
		t.Error("a.EndTime should be set")
	}
	b := snap["b"]
	if b.EndTime != nil || !b.LastUpdated.IsZero() {
		t.Errorf("b timestamps = %v, %v, want cleared", b.EndTime, b.LastUpdated)
	}
	if b.Title != "bad time" || !b.HighBidder {
		t.Errorf("b = %+v, want other fields kept", b)
	}
}
