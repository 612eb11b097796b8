package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cefilm-backend/internal/ledger"
	"cefilm-backend/internal/metrics"
	"cefilm-backend/internal/models"
	"cefilm-backend/internal/quiz"
)

// AccountStore is the account lookup the reconciler needs.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByCustomerID(ctx context.Context, customerID string) (*models.Account, error)
	SetCustomerID(ctx context.Context, id, customerID string) error
}

// Reconciler applies provider subscription state to the ledger. Both the
// webhook path and the pull path end in ActivateVIP or DeactivateVIP.
type Reconciler struct {
	provider Provider
	accounts AccountStore
	ledger   *ledger.Ledger
	dedup    Deduper
	priceID  string
	appURL   string
}

// NewReconciler creates a Reconciler. provider may be nil when payments are
// not configured; dedup may be nil to process every delivery.
func NewReconciler(provider Provider, accounts AccountStore, l *ledger.Ledger, dedup Deduper, priceID, appURL string) *Reconciler {
	return &Reconciler{
		provider: provider,
		accounts: accounts,
		ledger:   l,
		dedup:    dedup,
		priceID:  priceID,
		appURL:   appURL,
	}
}

// Enabled reports whether a provider is configured.
func (r *Reconciler) Enabled() bool { return r.provider != nil }

// HandleWebhook verifies and applies one provider event. A returned error
// other than ErrInvalidSignature asks the provider to retry.
func (r *Reconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if r.provider == nil {
		return models.ErrNotConfigured
	}
	ev, err := r.provider.ParseEvent(payload, signature)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return err
	}

	if r.dedup != nil && ev.ID != "" {
		fresh, err := r.dedup.Claim(ctx, ev.ID)
		if err != nil {
			slog.Warn("event dedup unavailable, processing anyway", "event_id", ev.ID, "error", err)
		} else if !fresh {
			metrics.WebhookEvents.WithLabelValues(ev.Type, "duplicate").Inc()
			slog.Info("duplicate webhook event skipped", "event_id", ev.ID, "type", ev.Type)
			return nil
		}
	}

	handled, err := r.apply(ctx, ev)
	if err != nil {
		if r.dedup != nil && ev.ID != "" {
			r.dedup.Release(ctx, ev.ID)
		}
		metrics.WebhookEvents.WithLabelValues(ev.Type, "failed").Inc()
		return fmt.Errorf("handle %s %s: %w", ev.Type, ev.ID, err)
	}

	result := "ignored"
	if handled {
		result = "handled"
	}
	metrics.WebhookEvents.WithLabelValues(ev.Type, result).Inc()
	return nil
}

func (r *Reconciler) apply(ctx context.Context, ev Event) (bool, error) {
	switch {
	case ev.Type == EventCheckoutCompleted && ev.Checkout != nil:
		cs := ev.Checkout
		accountID := cs.Metadata["userId"]
		if accountID == "" {
			accountID = cs.ClientReferenceID
		}
		acc, err := r.resolve(ctx, accountID, cs.CustomerID)
		if acc == nil || err != nil {
			return false, err
		}
		if err := r.linkCustomer(ctx, acc, cs.CustomerID); err != nil {
			return false, err
		}
		_, err = r.ledger.ActivateVIP(ctx, ledger.Account(acc.ID), cs.SubscriptionID)
		return true, err

	case (ev.Type == EventSubscriptionCreated || ev.Type == EventSubscriptionUpdated) && ev.Subscription != nil:
		sub := ev.Subscription
		acc, err := r.resolve(ctx, sub.Metadata["userId"], sub.CustomerID)
		if acc == nil || err != nil {
			return false, err
		}
		if err := r.linkCustomer(ctx, acc, sub.CustomerID); err != nil {
			return false, err
		}
		if sub.Terminal() {
			_, err = r.ledger.DeactivateVIP(ctx, ledger.Account(acc.ID))
		} else {
			_, err = r.ledger.ActivateVIP(ctx, ledger.Account(acc.ID), sub.ID)
		}
		return true, err

	case ev.Type == EventSubscriptionDeleted && ev.Subscription != nil:
		sub := ev.Subscription
		acc, err := r.resolve(ctx, sub.Metadata["userId"], sub.CustomerID)
		if acc == nil || err != nil {
			return false, err
		}
		_, err = r.ledger.DeactivateVIP(ctx, ledger.Account(acc.ID))
		return true, err
	}
	return false, nil
}

// resolve finds the account by metadata id, then by customer. Unknown
// accounts return (nil, nil) so the event is acknowledged.
func (r *Reconciler) resolve(ctx context.Context, accountID, customerID string) (*models.Account, error) {
	if accountID != "" {
		acc, err := r.accounts.GetByID(ctx, accountID)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}
	if customerID != "" {
		acc, err := r.accounts.GetByCustomerID(ctx, customerID)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}
	slog.Warn("webhook event for unknown account", "account_id", accountID, "customer_id", customerID)
	return nil, nil
}

func (r *Reconciler) linkCustomer(ctx context.Context, acc *models.Account, customerID string) error {
	if customerID == "" || acc.StripeCustomerID == customerID {
		return nil
	}
	if err := r.accounts.SetCustomerID(ctx, acc.ID, customerID); err != nil {
		return fmt.Errorf("link customer: %w", err)
	}
	acc.StripeCustomerID = customerID
	return nil
}

// Sync pulls the account's subscriptions from the provider and corrects the
// ledger. Provider errors are logged and leave the account unchanged.
func (r *Reconciler) Sync(ctx context.Context, accountID string) (*models.Account, error) {
	acc, err := r.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if r.provider == nil || r.priceID == "" || acc.StripeCustomerID == "" {
		return acc, nil
	}

	subs, err := r.provider.ListSubscriptions(ctx, acc.StripeCustomerID)
	if err != nil {
		metrics.SubscriptionSyncs.WithLabelValues("error").Inc()
		slog.Error("subscription sync failed", "account_id", acc.ID, "error", err)
		return acc, nil
	}

	vip := pickSubscription(subs, r.priceID)

	switch {
	case vip != nil && vip.Entitles():
		_, err = r.ledger.ActivateVIP(ctx, ledger.Account(acc.ID), vip.ID)
		metrics.SubscriptionSyncs.WithLabelValues("activated").Inc()
	case acc.IsVIP || acc.StripeSubscriptionID != "":
		_, err = r.ledger.DeactivateVIP(ctx, ledger.Account(acc.ID))
		metrics.SubscriptionSyncs.WithLabelValues("deactivated").Inc()
	default:
		metrics.SubscriptionSyncs.WithLabelValues("unchanged").Inc()
		return acc, nil
	}
	if err != nil {
		slog.Error("subscription sync could not update ledger", "account_id", acc.ID, "error", err)
		return acc, nil
	}
	return r.accounts.GetByID(ctx, acc.ID)
}

// Checkout starts a VIP subscription checkout and returns the hosted page URL.
func (r *Reconciler) Checkout(ctx context.Context, accountID string, lang quiz.Language) (string, error) {
	if r.provider == nil || r.priceID == "" {
		return "", models.ErrNotConfigured
	}
	acc, err := r.accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	customerID := acc.StripeCustomerID
	if customerID == "" {
		customerID, err = r.provider.CreateCustomer(ctx, acc.Email, acc.ID)
		if err != nil {
			return "", fmt.Errorf("%w: %v", models.ErrProvider, err)
		}
		if err := r.accounts.SetCustomerID(ctx, acc.ID, customerID); err != nil {
			return "", fmt.Errorf("failed to store customer id: %w", err)
		}
	}

	url, err := r.provider.CreateCheckoutSession(ctx, CheckoutParams{
		CustomerID: customerID,
		AccountID:  acc.ID,
		PriceID:    r.priceID,
		SuccessURL: fmt.Sprintf("%s/dashboard?checkout=success&lang=%s", r.appURL, lang),
		CancelURL:  fmt.Sprintf("%s/?lang=%s", r.appURL, lang),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrProvider, err)
	}
	return url, nil
}

// CancelSubscription stops the account's recorded subscription, if any.
func (r *Reconciler) CancelSubscription(ctx context.Context, acc *models.Account) error {
	if acc.StripeSubscriptionID == "" {
		return nil
	}
	if r.provider == nil {
		return models.ErrNotConfigured
	}
	if err := r.provider.CancelSubscription(ctx, acc.StripeSubscriptionID); err != nil {
		return fmt.Errorf("%w: %v", models.ErrProvider, err)
	}
	slog.Info("subscription cancelled", "account_id", acc.ID, "subscription", acc.StripeSubscriptionID)
	return nil
}

// pickSubscription returns the entitling subscription billing priceID, or the
// first one billing it when none entitles.
func pickSubscription(subs []Subscription, priceID string) *Subscription {
	var first *Subscription
	for i := range subs {
		if !subs[i].HasPrice(priceID) {
			continue
		}
		if subs[i].Entitles() {
			return &subs[i]
		}
		if first == nil {
			first = &subs[i]
		}
	}
	return first
}
