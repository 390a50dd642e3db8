package poller

import (
	"context"
	"testing"
	"time"

	"github.com/rickgao/auction-watch/internal/api"
	"github.com/rickgao/auction-watch/internal/model"
)

func TestVerifier_Resolve(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		detail   *api.ItemDetail // nil means lookup fails
		identity string
		cached   bool
		want     model.EventKind // empty means no event
	}{
		{"concluded and high bidder", &api.ItemDetail{Status: api.StatusCompleted, HighBidder: "buyer1"}, "buyer1", false, model.EventAuctionWon},
		{"high bidder case differs", &api.ItemDetail{Status: api.StatusEnded, HighBidder: "BUYER1"}, "buyer1", false, model.EventAuctionWon},
		{"concluded, someone else won", &api.ItemDetail{Status: api.StatusEndedWithSales, HighBidder: "other"}, "buyer1", true, model.EventAuctionLost},
		{"concluded without sale", &api.ItemDetail{Status: api.StatusEndedWithoutSales}, "buyer1", true, model.EventAuctionLost},
		{"active is silent", &api.ItemDetail{Status: api.StatusActive}, "buyer1", true, ""},
		{"cancelled is silent", &api.ItemDetail{Status: api.StatusCancelled}, "buyer1", true, ""},
		{"identity unresolved uses cache", &api.ItemDetail{Status: api.StatusCompleted, HighBidder: "buyer1"}, "", false, model.EventAuctionLost},
		{"custom status is silent", &api.ItemDetail{Status: "Custom"}, "buyer1", true, ""},
		{"custom code status is silent", &api.ItemDetail{Status: "CustomCode"}, "buyer1", true, ""},
		{"empty status is silent", &api.ItemDetail{Status: ""}, "buyer1", true, ""},
		{"lookup failed, cached high bidder", nil, "buyer1", true, model.EventAuctionWon},
		{"lookup failed, cached outbid", nil, "buyer1", false, model.EventAuctionLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{identity: tt.identity, details: map[string]api.ItemDetail{}}
			if tt.detail != nil {
				lookup.details["1"] = *tt.detail
			}
			v := NewVerifier(lookup, nil)
			last := model.Item{ID: "1", Title: "lamp", HighBidder: tt.cached}

			e, ok := v.Resolve(context.Background(), "main", last, now)
			if tt.want == "" {
				if ok {
					t.Errorf("Resolve() = %s, want no event", e.Kind)
				}
				return
			}
			if !ok || e.Kind != tt.want {
				t.Fatalf("Resolve() = %s, %v, want %s", e.Kind, ok, tt.want)
			}
			if e.Account != "main" || e.Item.Title != "lamp" || !e.OccurredAt.Equal(now) {
				t.Errorf("event = %+v", e)
			}
		})
	}
}

func TestVerifier_NilLookup(t *testing.T) {
	v := NewVerifier(nil, nil)
	e, ok := v.Resolve(context.Background(), "main", model.Item{ID: "1", HighBidder: true}, time.Now())
	if !ok || e.Kind != model.EventAuctionWon {
		t.Errorf("Resolve() = %s, %v, want auction_won", e.Kind, ok)
	}
}
