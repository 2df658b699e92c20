// Package listeners wires domain events to their side effects: queued
// emails and websocket pushes. Every listener is best effort; failures are
// logged and never reach the request that fired the event.
package listeners

import (
	"context"

	"github.com/chiquebutik/butik/app/events"
	"github.com/chiquebutik/butik/app/jobs"
	"github.com/chiquebutik/butik/pkg/event"
	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/queue"
	"github.com/chiquebutik/butik/pkg/ws"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

type Publisher interface {
	Publish(userID string, msg ws.Message) int
}

type Listeners struct {
	queue Dispatcher
	hub   Publisher
	deps  *jobs.Deps
}

// Register subscribes the listeners on bus. A nil hub disables pushes.
func Register(bus *event.Bus, q Dispatcher, hub Publisher, deps *jobs.Deps) *Listeners {
	l := &Listeners{queue: q, hub: hub, deps: deps}
	bus.Listen(events.CartChanged, l.cartChanged)
	bus.Listen(events.OrderPaid, l.orderPaid)
	bus.Listen(events.ContactReceived, l.contactReceived)
	return l
}

func (l *Listeners) cartChanged(_ context.Context, payload any) {
	p, ok := payload.(events.CartChangedPayload)
	if !ok {
		return
	}
	l.push(p.UserID, ws.Message{Type: events.CartChanged, Data: map[string]string{"op": p.Op}})
}

func (l *Listeners) orderPaid(ctx context.Context, payload any) {
	p, ok := payload.(events.OrderPaidPayload)
	if !ok {
		return
	}
	l.dispatch(ctx, jobs.NewOrderConfirmationEmail(l.deps, p.OrderID))
	l.push(p.UserID, ws.Message{Type: events.OrderPaid, Data: map[string]any{
		"order_id": p.OrderID,
		"total":    p.Total.StringFixed(2),
	}})
}

func (l *Listeners) contactReceived(ctx context.Context, payload any) {
	p, ok := payload.(events.ContactReceivedPayload)
	if !ok {
		return
	}
	l.dispatch(ctx, jobs.NewContactOwnerEmail(l.deps, p.MessageID))
	l.dispatch(ctx, jobs.NewContactConfirmationEmail(l.deps, p.MessageID))
}

func (l *Listeners) dispatch(ctx context.Context, job queue.Job) {
	if err := l.queue.Dispatch(ctx, job); err != nil {
		logger.WithCtx(ctx).Warn("listeners: could not queue job", "job", job.Name(), "error", err)
	}
}

func (l *Listeners) push(userID string, msg ws.Message) {
	if l.hub == nil || userID == "" {
		return
	}
	l.hub.Publish(userID, msg)
}
