package events

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rickgao/auction-watch/internal/model"
)

// Handler consumes published events.
type Handler interface {
	Handle(ctx context.Context, e model.Event) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, e model.Event) error

func (f HandlerFunc) Handle(ctx context.Context, e model.Event) error {
	return f(ctx, e)
}

// Observer is told the outcome of every delivery.
type Observer interface {
	ObserveDelivery(subscriber string, kind model.EventKind, err error)
}

type subscription struct {
	id      uint64
	name    string
	handler Handler
}

// Bus dispatches events synchronously, in subscription order, to every
// subscriber. A failing or panicking subscriber is logged and does not stop
// delivery to the others.
type Bus struct {
	logger   *slog.Logger
	observer Observer

	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithObserver sets the delivery observer.
func WithObserver(o Observer) BusOption {
	return func(b *Bus) {
		b.observer = o
	}
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger, opts ...BusOption) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bus{logger: logger}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h under name and returns a function that removes it.
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.id == id })
	}
}

// Subscribers returns the registered names in delivery order.
func (b *Bus) Subscribers() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, len(b.subs))
	for i, s := range b.subs {
		names[i] = s.name
	}
	return names
}

// Publish delivers e to every subscriber before returning.
func (b *Bus) Publish(ctx context.Context, e model.Event) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	b.logger.Debug("publishing event",
		"kind", e.Kind,
		"account", e.Account,
		"item_id", e.Item.ID,
		"subscribers", len(subs),
	)

	for _, s := range subs {
		err := deliver(ctx, s.handler, e)
		if err != nil {
			b.logger.Warn("event delivery failed",
				"subscriber", s.name,
				"kind", e.Kind,
				"item_id", e.Item.ID,
				"err", err,
			)
		}
		if b.observer != nil {
			b.observer.ObserveDelivery(s.name, e.Kind, err)
		}
	}
}

func deliver(ctx context.Context, h Handler, e model.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return h.Handle(ctx, e)
}

// Only wraps h so that it sees just the listed kinds. An empty list passes
// everything.
func Only(h Handler, kinds ...model.EventKind) Handler {
	if len(kinds) == 0 {
		return h
	}
	return HandlerFunc(func(ctx context.Context, e model.Event) error {
		if !slices.Contains(kinds, e.Kind) {
			return nil
		}
		return h.Handle(ctx, e)
	})
}
