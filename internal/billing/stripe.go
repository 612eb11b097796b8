package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// maxListedSubscriptions bounds the pull path lookup per customer.
const maxListedSubscriptions = 5

// StripeProvider implements Provider with the Stripe API.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider creates a provider for the given secret key.
func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	return &StripeProvider{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, email, accountID string) (string, error) {
	params := &stripe.CustomerParams{
		Email:    stripe.String(email),
		Metadata: map[string]string{"userId": accountID},
	}
	params.Context = ctx
	c, err := p.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return c.ID, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, cp CheckoutParams) (string, error) {
	meta := map[string]string{"userId": cp.AccountID}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(cp.CustomerID),
		ClientReferenceID: stripe.String(cp.AccountID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(cp.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(cp.SuccessURL),
		CancelURL:  stripe.String(cp.CancelURL),
		Metadata:   meta,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: meta,
		},
	}
	params.Context = ctx
	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create checkout session: %w", err)
	}
	return s.URL, nil
}

func (p *StripeProvider) ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(maxListedSubscriptions)
	params.AddExpand("data.items.data.price")

	var out []Subscription
	it := p.api.Subscriptions.List(params)
	for it.Next() && len(out) < maxListedSubscriptions {
		out = append(out, fromStripeSubscription(it.Subscription()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("stripe list subscriptions: %w", err)
	}
	return out, nil
}

func (p *StripeProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	if _, err := p.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return fmt.Errorf("stripe cancel subscription: %w", err)
	}
	return nil
}

func (p *StripeProvider) ParseEvent(payload []byte, signature string) (Event, error) {
	if signature == "" || p.webhookSecret == "" {
		return Event{}, ErrInvalidSignature
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data == nil {
		return out, nil
	}
	switch out.Type {
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return Event{}, fmt.Errorf("decode checkout session: %w", err)
		}
		cs := &CheckoutSession{ID: s.ID, ClientReferenceID: s.ClientReferenceID, Metadata: s.Metadata}
		if s.Customer != nil {
			cs.CustomerID = s.Customer.ID
		}
		if s.Subscription != nil {
			cs.SubscriptionID = s.Subscription.ID
		}
		out.Checkout = cs
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var s stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return Event{}, fmt.Errorf("decode subscription: %w", err)
		}
		sub := fromStripeSubscription(&s)
		out.Subscription = &sub
	}
	return out, nil
}

func fromStripeSubscription(s *stripe.Subscription) Subscription {
	sub := Subscription{ID: s.ID, Status: string(s.Status), Metadata: s.Metadata}
	if s.Customer != nil {
		sub.CustomerID = s.Customer.ID
	}
	if s.Items != nil {
		for _, item := range s.Items.Data {
			if item != nil && item.Price != nil {
				sub.PriceIDs = append(sub.PriceIDs, item.Price.ID)
			}
		}
	}
	return sub
}
