package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rickgao/auction-watch/internal/model"
)

func event(kind model.EventKind, account, id string) model.Event {
	return model.NewEvent(kind, account, model.Item{ID: id}, time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
}

type delivery struct {
	subscriber string
	kind       model.EventKind
	err        error
}

type fakeObserver struct {
	deliveries []delivery
}

func (f *fakeObserver) ObserveDelivery(subscriber string, kind model.EventKind, err error) {
	f.deliveries = append(f.deliveries, delivery{subscriber, kind, err})
}

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus(nil)
	var order []string

	bus.Subscribe("first", HandlerFunc(func(context.Context, model.Event) error {
		order = append(order, "first")
		return nil
	}))
	bus.Subscribe("second", HandlerFunc(func(context.Context, model.Event) error {
		order = append(order, "second")
		return nil
	}))

	bus.Publish(context.Background(), event(model.EventOutbid, "main", "1"))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("delivery order = %v, want [first second]", order)
	}
}

func TestBus_FailuresIsolated(t *testing.T) {
	obs := &fakeObserver{}
	bus := NewBus(nil, WithObserver(obs))
	boom := errors.New("boom")
	delivered := 0

	bus.Subscribe("failing", HandlerFunc(func(context.Context, model.Event) error { return boom }))
	bus.Subscribe("panicking", HandlerFunc(func(context.Context, model.Event) error { panic("bad") }))
	bus.Subscribe("ok", HandlerFunc(func(context.Context, model.Event) error {
		delivered++
		return nil
	}))

	bus.Publish(context.Background(), event(model.EventAuctionWon, "main", "1"))

	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
	if len(obs.deliveries) != 3 {
		t.Fatalf("observed %d deliveries, want 3", len(obs.deliveries))
	}
	if !errors.Is(obs.deliveries[0].err, boom) {
		t.Errorf("failing err = %v, want %v", obs.deliveries[0].err, boom)
	}
	if obs.deliveries[1].err == nil {
		t.Error("panic not reported as error")
	}
	if obs.deliveries[2].err != nil || obs.deliveries[2].kind != model.EventAuctionWon {
		t.Errorf("ok delivery = %+v", obs.deliveries[2])
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	unsubscribe := bus.Subscribe("counter", HandlerFunc(func(context.Context, model.Event) error {
		calls++
		return nil
	}))
	bus.Subscribe("other", HandlerFunc(func(context.Context, model.Event) error { return nil }))

	bus.Publish(context.Background(), event(model.EventOutbid, "main", "1"))
	unsubscribe()
	bus.Publish(context.Background(), event(model.EventOutbid, "main", "1"))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if names := bus.Subscribers(); len(names) != 1 || names[0] != "other" {
		t.Errorf("Subscribers() = %v, want [other]", names)
	}
}

func TestOnly(t *testing.T) {
	var got []model.EventKind
	h := Only(HandlerFunc(func(_ context.Context, e model.Event) error {
		got = append(got, e.Kind)
		return nil
	}), model.EventAuctionWon, model.EventOutbid)

	for _, k := range []model.EventKind{model.EventAuctionWon, model.EventItemShipped, model.EventOutbid} {
		h.Handle(context.Background(), event(k, "main", "1"))
	}

	if len(got) != 2 || got[0] != model.EventAuctionWon || got[1] != model.EventOutbid {
		t.Errorf("handled = %v, want [auction_won outbid]", got)
	}
}

func TestHistory_Recent(t *testing.T) {
	h := NewHistory(3)
	ctx := context.Background()

	for i, acct := range []string{"a", "b", "a", "b"} {
		h.Handle(ctx, event(model.EventOutbid, acct, string(rune('1'+i))))
	}

	all := h.Recent(0, "")
	if len(all) != 3 {
		t.Fatalf("Recent() returned %d events, want 3", len(all))
	}
	if all[0].Item.ID != "4" || all[2].Item.ID != "2" {
		t.Errorf("Recent() = %v, %v, %v, want newest first", all[0].Item.ID, all[1].Item.ID, all[2].Item.ID)
	}

	if got := h.Recent(10, "a"); len(got) != 1 || got[0].Item.ID != "3" {
		t.Errorf("Recent(account a) = %+v", got)
	}
	if got := h.Recent(1, ""); len(got) != 1 || got[0].Item.ID != "4" {
		t.Errorf("Recent(1) = %+v", got)
	}
}

func TestHistory_Empty(t *testing.T) {
	if got := NewHistory(0).Recent(5, ""); len(got) != 0 {
		t.Errorf("Recent() = %v, want empty", got)
	}
}
