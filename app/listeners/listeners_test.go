package listeners_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiquebutik/butik/app/events"
	"github.com/chiquebutik/butik/app/jobs"
	"github.com/chiquebutik/butik/app/listeners"
	"github.com/chiquebutik/butik/pkg/event"
	"github.com/chiquebutik/butik/pkg/queue"
	"github.com/chiquebutik/butik/pkg/ws"
)

type fakeQueue struct {
	jobs []queue.Job
	err  error
}

func (f *fakeQueue) Dispatch(_ context.Context, job queue.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeHub struct {
	users []string
	msgs  []ws.Message
}

func (f *fakeHub) Publish(userID string, msg ws.Message) int {
	f.users = append(f.users, userID)
	f.msgs = append(f.msgs, msg)
	return 1
}

func TestContactReceivedQueuesBothEmails(t *testing.T) {
	bus := event.NewBus(nil)
	q := &fakeQueue{}
	listeners.Register(bus, q, nil, &jobs.Deps{})

	bus.Fire(context.Background(), events.ContactReceived, events.ContactReceivedPayload{MessageID: 9})

	require.Len(t, q.jobs, 2)
	assert.Equal(t, "mail.contact_owner", q.jobs[0].Name())
	assert.Equal(t, "mail.contact_confirmation", q.jobs[1].Name())
	raw, err := json.Marshal(q.jobs[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"message_id":9}`, string(raw))
}

func TestOrderPaidQueuesReceiptAndPushes(t *testing.T) {
	bus := event.NewBus(nil)
	q, hub := &fakeQueue{}, &fakeHub{}
	listeners.Register(bus, q, hub, &jobs.Deps{})

	bus.Fire(context.Background(), events.OrderPaid, events.OrderPaidPayload{
		OrderID: 3,
		UserID:  "user-1",
		Total:   decimal.RequireFromString("598"),
	})

	require.Len(t, q.jobs, 1)
	assert.Equal(t, "mail.order_confirmation", q.jobs[0].Name())
	require.Len(t, hub.msgs, 1)
	assert.Equal(t, "user-1", hub.users[0])
	assert.Equal(t, events.OrderPaid, hub.msgs[0].Type)

	// Guest orders are not pushed anywhere.
	bus.Fire(context.Background(), events.OrderPaid, events.OrderPaidPayload{OrderID: 4})
	assert.Len(t, q.jobs, 2)
	assert.Len(t, hub.msgs, 1)
}

func TestQueueFailureIsSwallowed(t *testing.T) {
	bus := event.NewBus(nil)
	q, hub := &fakeQueue{err: errors.New("queue full")}, &fakeHub{}
	listeners.Register(bus, q, hub, &jobs.Deps{})

	assert.NotPanics(t, func() {
		bus.Fire(context.Background(), events.ContactReceived, events.ContactReceivedPayload{MessageID: 1})
		bus.Fire(context.Background(), events.CartChanged, events.CartChangedPayload{UserID: "user-1", Op: "add"})
	})
	require.Len(t, hub.msgs, 1)
	assert.Equal(t, events.CartChanged, hub.msgs[0].Type)
}
