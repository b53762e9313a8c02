// Package bus is a typed publish/subscribe bus. Events are matched by their
// static type, so an interface type collects every event published as it.
package bus

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
)

var _ctx = context.Background()

func SetContext(ctx context.Context) {
	_ctx = ctx
}

var (
	subsMu sync.RWMutex
	subs   = make(map[reflect.Type][]func(ctx context.Context, event any))
)

func topic[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) {
	subsMu.Lock()
	defer subsMu.Unlock()

	t := topic[T]()
	subs[t] = append(subs[t], func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	})
}

// Publish calls the subscribers of T synchronously.
func Publish[T any](event T) {
	subsMu.RLock()
	fns := subs[topic[T]()]
	subsMu.RUnlock()

	for _, fn := range fns {
		fn(_ctx, event)
	}
}

// HubBuffer is the number of events a hub subscriber may fall behind before
// events are dropped for it.
const HubBuffer = 64

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		subs: make(map[*chan T]struct{}),
	}
}

// Hub fans events out to channels. Broadcasting never blocks; a subscriber
// that is too slow misses events.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[*chan T]struct{}
}

func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case *sub <- event:
		default:
			slog.Debug("Dropped event for slow subscriber", "package", "bus")
		}
	}

	return nil
}

// Register subscribes the hub to events of type T on the bus.
func (h *Hub[T]) Register() *Hub[T] {
	Subscribe("bus.Hub", h.Broadcast)
	return h
}

func (h *Hub[T]) Subscribe(ctx context.Context) (<-chan T, func()) {
	h.mu.Lock()
	c := make(chan T, HubBuffer)

	key := &c
	h.subs[key] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, key)
		h.mu.Unlock()
	}
}
