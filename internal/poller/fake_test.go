package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rickgao/auction-watch/internal/api"
	"github.com/rickgao/auction-watch/internal/model"
)

var errFetch = errors.New("marketplace unavailable")

// fakeSource serves whatever activity the test sets.
type fakeSource struct {
	mu    sync.Mutex
	act   api.Activity
	err   error
	calls int
}

func (f *fakeSource) FetchMyActivity(context.Context) (api.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return api.Activity{}, f.err
	}
	return f.act, nil
}

func (f *fakeSource) setBids(items ...model.Item) {
	f.mu.Lock()
	f.act.Bids = items
	f.mu.Unlock()
}

func (f *fakeSource) setPurchases(items ...model.Item) {
	f.mu.Lock()
	f.act.Purchases = items
	f.mu.Unlock()
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeLookup answers item lookups from a table. Missing ids fail.
type fakeLookup struct {
	details  map[string]api.ItemDetail
	identity string
	lookups  int
}

func (f *fakeLookup) FetchItem(_ context.Context, id string) (api.ItemDetail, bool) {
	f.lookups++
	d, ok := f.details[id]
	return d, ok
}

func (f *fakeLookup) Identity() (string, bool) {
	return f.identity, f.identity != ""
}

// fakeSearcher returns a fixed result list.
type fakeSearcher struct {
	mu    sync.Mutex
	items []model.Item
	specs []model.SearchSpec
}

func (f *fakeSearcher) Search(_ context.Context, spec model.SearchSpec) []model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.specs = append(f.specs, spec)
	out := make([]model.Item, len(f.items))
	copy(out, f.items)
	return out
}

func (f *fakeSearcher) set(items ...model.Item) {
	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Publish(_ context.Context, e model.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// take returns and clears the recorded events.
func (r *recorder) take() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

func kinds(events []model.Event) []model.EventKind {
	out := make([]model.EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

// count returns how many events of kind concern item id.
func count(events []model.Event, kind model.EventKind, id string) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind && e.Item.ID == id {
			n++
		}
	}
	return n
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func at(t time.Time) *time.Time { return &t }

func bid(id string, high bool, end time.Time) model.Item {
	return model.Item{ID: id, Title: "item " + id, Kind: model.KindAuction, HighBidder: high, EndTime: at(end)}
}

func purchase(id string, status model.ShippingStatus) model.Item {
	return model.Item{ID: id, Title: "item " + id, ShippingStatus: status}
}

// failingStore rejects every save.
type failingStore struct{}

func (failingStore) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk gone")
}
func (failingStore) Save(context.Context, string, []byte) error { return errors.New("disk gone") }
func (failingStore) Delete(context.Context, string) error       { return nil }
func (failingStore) Close() error                               { return nil }
