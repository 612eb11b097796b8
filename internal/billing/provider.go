// Package billing reconciles payment provider subscriptions with the ticket ledger.
package billing

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Provider event types the reconciler acts on.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Subscription is the provider's view of one subscription.
type Subscription struct {
	ID         string
	CustomerID string
	Status     string
	PriceIDs   []string
	Metadata   map[string]string
}

// HasPrice reports whether the subscription bills the given price.
func (s Subscription) HasPrice(priceID string) bool {
	for _, p := range s.PriceIDs {
		if p == priceID {
			return true
		}
	}
	return false
}

// Entitles reports whether the status grants VIP on the pull path.
func (s Subscription) Entitles() bool {
	return s.Status == "active" || s.Status == "trialing"
}

// Terminal reports whether the status can no longer grant VIP.
func (s Subscription) Terminal() bool {
	switch s.Status {
	case "canceled", "unpaid", "incomplete_expired":
		return true
	}
	return false
}

// CheckoutSession is a completed hosted checkout.
type CheckoutSession struct {
	ID                string
	CustomerID        string
	SubscriptionID    string
	ClientReferenceID string
	Metadata          map[string]string
}

// Event is a verified provider notification. Exactly one payload pointer is
// set for the event types the reconciler handles.
type Event struct {
	ID           string
	Type         string
	Checkout     *CheckoutSession
	Subscription *Subscription
}

// CheckoutParams describes a subscription checkout for one account.
type CheckoutParams struct {
	CustomerID string
	AccountID  string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Provider is the payment provider surface used by the reconciler.
type Provider interface {
	CreateCustomer(ctx context.Context, email, accountID string) (string, error)
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	// ParseEvent verifies the signature before decoding anything.
	ParseEvent(payload []byte, signature string) (Event, error)
}
