// Package ledger tracks the consumable ticket quota of guests and accounts.
//
// A row exists per identity. Consumption saturates at zero, VIP rows are
// never decremented, and only accounts can hold VIP.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cefilm-backend/internal/metrics"
	"cefilm-backend/internal/models"
)

const (
	// DefaultTickets is the allotment of a new or reset identity.
	DefaultTickets = 5
	// VIPTickets marks an unlimited balance in storage.
	VIPTickets = 999
)

// Kind distinguishes guests from accounts.
type Kind string

const (
	KindGuest   Kind = "guest"
	KindAccount Kind = "account"
)

// Identity is the owner of a ledger row.
type Identity struct {
	Kind Kind
	Key  string
}

// Guest returns the identity of an anonymous client keyed by address.
func Guest(ip string) Identity { return Identity{Kind: KindGuest, Key: ip} }

// Account returns the identity of a registered account.
func Account(id string) Identity { return Identity{Kind: KindAccount, Key: id} }

func (i Identity) String() string { return string(i.Kind) + ":" + i.Key }

// Row is the quota state of one identity.
type Row struct {
	Identity        Identity
	Remaining       int
	IsVIP           bool
	VIPSince        *time.Time
	SubscriptionRef string
	LastResetAt     *time.Time
}

// Balance is the client-facing view of the row.
func (r Row) Balance() models.TicketBalance {
	return models.TicketBalance{Remaining: r.Remaining, Unlimited: r.IsVIP}
}

// Store persists ledger rows. Decrement must be a single atomic conditional
// update: it leaves VIP rows untouched and never goes below zero.
type Store interface {
	GetOrCreate(ctx context.Context, id Identity) (Row, error)
	Decrement(ctx context.Context, id Identity) (Row, error)
	Reset(ctx context.Context, id Identity, tickets int) (Row, error)
	SetVIP(ctx context.Context, accountID, subscriptionRef string, tickets int) (Row, error)
	ClearVIP(ctx context.Context, accountID string, tickets int) (Row, error)
}

// Ledger applies quota rules over a Store.
type Ledger struct {
	store Store
}

// New creates a Ledger.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// GetOrCreate returns the identity's row, creating a default one for guests.
func (l *Ledger) GetOrCreate(ctx context.Context, id Identity) (Row, error) {
	if id.Key == "" {
		return Row{}, models.Invalid("empty identity")
	}
	row, err := l.store.GetOrCreate(ctx, id)
	if err != nil {
		return Row{}, fmt.Errorf("failed to load ledger row %s: %w", id, err)
	}
	return row, nil
}

// Authorize fails with ErrTicketsExhausted when the identity cannot pay for a request.
func (l *Ledger) Authorize(ctx context.Context, id Identity) (Row, error) {
	row, err := l.GetOrCreate(ctx, id)
	if err != nil {
		return Row{}, err
	}
	if !row.IsVIP && row.Remaining <= 0 {
		return row, models.ErrTicketsExhausted
	}
	return row, nil
}

// Consume spends one ticket. VIP rows are returned unchanged; an empty row stays at zero.
func (l *Ledger) Consume(ctx context.Context, id Identity) (Row, error) {
	if id.Key == "" {
		return Row{}, models.Invalid("empty identity")
	}
	row, err := l.store.Decrement(ctx, id)
	if err != nil {
		return Row{}, fmt.Errorf("failed to consume ticket for %s: %w", id, err)
	}
	if !row.IsVIP {
		metrics.TicketsConsumed.WithLabelValues(string(id.Kind)).Inc()
	}
	return row, nil
}

// Reset restores the default allotment without touching the VIP flag.
func (l *Ledger) Reset(ctx context.Context, id Identity) (Row, error) {
	row, err := l.store.Reset(ctx, id, DefaultTickets)
	if err != nil {
		return Row{}, fmt.Errorf("failed to reset tickets for %s: %w", id, err)
	}
	slog.Info("tickets reset", "identity", id.String())
	return row, nil
}

// ActivateVIP grants the subscription tier. vipSince is kept from the first
// activation. An empty subscriptionRef keeps the one already recorded.
func (l *Ledger) ActivateVIP(ctx context.Context, id Identity, subscriptionRef string) (Row, error) {
	if id.Kind != KindAccount {
		return Row{}, models.ErrGuestNotEligible
	}
	row, err := l.store.SetVIP(ctx, id.Key, subscriptionRef, VIPTickets)
	if err != nil {
		return Row{}, fmt.Errorf("failed to activate vip for %s: %w", id, err)
	}
	metrics.VIPTransitions.WithLabelValues("activate").Inc()
	slog.Info("vip activated", "account_id", id.Key, "subscription", subscriptionRef)
	return row, nil
}

// DeactivateVIP drops the tier, restores the default allotment and clears the
// subscription reference. vipSince is preserved.
func (l *Ledger) DeactivateVIP(ctx context.Context, id Identity) (Row, error) {
	if id.Kind != KindAccount {
		return Row{}, models.ErrGuestNotEligible
	}
	row, err := l.store.ClearVIP(ctx, id.Key, DefaultTickets)
	if err != nil {
		return Row{}, fmt.Errorf("failed to deactivate vip for %s: %w", id, err)
	}
	metrics.VIPTransitions.WithLabelValues("deactivate").Inc()
	slog.Info("vip deactivated", "account_id", id.Key)
	return row, nil
}
