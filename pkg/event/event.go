// Package event is an in-process publish/subscribe bus.
//
// Listeners are registered once at boot. Fire runs them inline; FireAsync
// hands them to a bounded worker pool so request handlers never wait on
// email or websocket side effects.
package event

import (
	"context"
	"sync"

	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/workerpool"
)

// Handler receives the payload of a fired event.
type Handler func(ctx context.Context, payload any)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *workerpool.Pool
}

// NewBus returns a bus. With a nil pool FireAsync behaves like Fire.
func NewBus(pool *workerpool.Pool) *Bus {
	return &Bus{handlers: map[string][]Handler{}, pool: pool}
}

// Listen registers h for name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[name]...)
}

// Fire runs every listener for name in registration order. A nil bus is a
// no-op so services can be built without one.
func (b *Bus) Fire(ctx context.Context, name string, payload any) {
	if b == nil {
		return
	}
	for _, h := range b.listeners(name) {
		h(ctx, payload)
	}
}

// FireAsync schedules each listener on the pool. The request context is
// detached from cancellation but keeps its values (request id, logger).
// When the pool is saturated the listener is dropped and logged.
func (b *Bus) FireAsync(ctx context.Context, name string, payload any) {
	if b == nil {
		return
	}
	if b.pool == nil {
		b.Fire(ctx, name, payload)
		return
	}

	bg := context.WithoutCancel(ctx)
	for _, h := range b.listeners(name) {
		h := h
		if err := b.pool.Submit(func() { h(bg, payload) }); err != nil {
			logger.WithCtx(ctx).Warn("event: listener dropped", "event", name, "error", err)
		}
	}
}

// Has reports whether any listener is registered for name.
func (b *Bus) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name]) > 0
}
