// Package events names the domain events fired on the application bus and
// their payloads.
package events

import "github.com/shopspring/decimal"

const (
	CartChanged     = "cart.changed"
	OrderPaid       = "order.paid"
	ContactReceived = "contact.received"
)

type CartChangedPayload struct {
	UserID string
	Op     string
}

type OrderPaidPayload struct {
	OrderID uint
	UserID  string // empty for guest checkouts
	Email   string
	Total   decimal.Decimal
}

type ContactReceivedPayload struct {
	MessageID uint
}
