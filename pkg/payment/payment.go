// Package payment is the hosted-checkout provider adapter. It hides the
// Stripe SDK behind small value types so services and tests never touch
// provider structs.
package payment

import (
	"errors"
	"fmt"
)

// EventCheckoutSessionCompleted is the only event that creates orders.
const EventCheckoutSessionCompleted = "checkout.session.completed"

var (
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")
	ErrNotFound         = errors.New("payment: resource not found")
)

// ProviderError carries the provider's own message for operators.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment: provider error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("payment: provider error %d: %s", e.Status, e.Message)
}

// Is matches ErrNotFound for HTTP 404 responses.
func (e *ProviderError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

type LineItemInput struct {
	PriceRef string
	Quantity int64
}

type CheckoutRequest struct {
	LineItems          []LineItemInput
	SuccessURL         string
	CancelURL          string
	CustomerEmail      string
	ClientReferenceID  string
	Metadata           map[string]string
	PaymentMethodTypes []string
	ShippingCountries  []string
}

type LineItem struct {
	Description string `json:"description"`
	ProductRef  string `json:"product_ref,omitempty"`
	PriceRef    string `json:"price_ref,omitempty"`
	Quantity    int64  `json:"quantity"`
	UnitAmount  int64  `json:"unit_amount"`
	AmountTotal int64  `json:"amount_total"`
	Currency    string `json:"currency"`
}

type PaymentMethod struct {
	Type  string `json:"type"`
	Brand string `json:"brand,omitempty"`
	Last4 string `json:"last4,omitempty"`
}

// Session is a checkout session as seen by this service. Amounts are in
// minor currency units.
type Session struct {
	ID                string            `json:"id"`
	URL               string            `json:"url,omitempty"`
	Status            string            `json:"status"`
	PaymentStatus     string            `json:"payment_status"`
	Currency          string            `json:"currency"`
	AmountTotal       int64             `json:"amount_total"`
	CustomerEmail     string            `json:"customer_email"`
	CustomerName      string            `json:"customer_name,omitempty"`
	ClientReferenceID string            `json:"client_reference_id,omitempty"`
	Metadata          map[string]string `json:"-"`
	LineItems         []LineItem        `json:"line_items"`
	PaymentMethod     *PaymentMethod    `json:"payment_method,omitempty"`
}

// Event is a verified webhook event. Session is set for checkout events.
type Event struct {
	ID      string
	Type    string
	Session *Session
}
