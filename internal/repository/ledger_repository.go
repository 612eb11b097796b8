package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cefilm-backend/internal/ledger"
)

// LedgerRepository stores ticket rows: guests in guest_tickets, accounts in users.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

var _ ledger.Store = (*LedgerRepository)(nil)

const (
	guestReturning   = `RETURNING ip, remaining, last_reset_at`
	accountReturning = `RETURNING id, free_tickets, is_vip, vip_since, stripe_subscription_id, last_ticket_reset`
)

func scanGuest(row rowScanner) (ledger.Row, error) {
	var (
		r         ledger.Row
		ip        string
		lastReset sql.NullTime
	)
	if err := row.Scan(&ip, &r.Remaining, &lastReset); err != nil {
		return ledger.Row{}, translate(err)
	}
	r.Identity = ledger.Guest(ip)
	if lastReset.Valid {
		r.LastResetAt = &lastReset.Time
	}
	return r, nil
}

func scanAccountRow(row rowScanner) (ledger.Row, error) {
	var (
		r                   ledger.Row
		id                  string
		vipSince, lastReset sql.NullTime
		subRef              sql.NullString
	)
	if err := row.Scan(&id, &r.Remaining, &r.IsVIP, &vipSince, &subRef, &lastReset); err != nil {
		return ledger.Row{}, translate(err)
	}
	r.Identity = ledger.Account(id)
	r.SubscriptionRef = subRef.String
	if vipSince.Valid {
		r.VIPSince = &vipSince.Time
	}
	if lastReset.Valid {
		r.LastResetAt = &lastReset.Time
	}
	return r, nil
}

// GetOrCreate inserts a default guest row if absent; concurrent first touches
// collapse into one row. Account rows are created at registration.
func (r *LedgerRepository) GetOrCreate(ctx context.Context, id ledger.Identity) (ledger.Row, error) {
	if id.Kind == ledger.KindAccount {
		return scanAccountRow(r.db.QueryRowContext(ctx, `
			SELECT id, free_tickets, is_vip, vip_since, stripe_subscription_id, last_ticket_reset
			FROM users WHERE id = $1
		`, id.Key))
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO guest_tickets (ip, remaining) VALUES ($1, $2)
		ON CONFLICT (ip) DO NOTHING
	`, id.Key, ledger.DefaultTickets); err != nil {
		return ledger.Row{}, fmt.Errorf("failed to create guest row: %w", err)
	}
	return scanGuest(r.db.QueryRowContext(ctx, `
		SELECT ip, remaining, last_reset_at FROM guest_tickets WHERE ip = $1
	`, id.Key))
}

// Decrement spends one ticket in a single statement.
func (r *LedgerRepository) Decrement(ctx context.Context, id ledger.Identity) (ledger.Row, error) {
	if id.Kind == ledger.KindAccount {
		return scanAccountRow(r.db.QueryRowContext(ctx, `
			UPDATE users SET
				free_tickets = CASE WHEN is_vip THEN free_tickets ELSE GREATEST(free_tickets - 1, 0) END,
				updated_at = NOW()
			WHERE id = $1
			`+accountReturning, id.Key))
	}
	return scanGuest(r.db.QueryRowContext(ctx, `
		INSERT INTO guest_tickets (ip, remaining) VALUES ($1, $2)
		ON CONFLICT (ip) DO UPDATE SET
			remaining = GREATEST(guest_tickets.remaining - 1, 0),
			updated_at = NOW()
		`+guestReturning, id.Key, ledger.DefaultTickets-1))
}

func (r *LedgerRepository) Reset(ctx context.Context, id ledger.Identity, tickets int) (ledger.Row, error) {
	if id.Kind == ledger.KindAccount {
		return scanAccountRow(r.db.QueryRowContext(ctx, `
			UPDATE users SET free_tickets = $2, last_ticket_reset = NOW(), updated_at = NOW()
			WHERE id = $1
			`+accountReturning, id.Key, tickets))
	}
	return scanGuest(r.db.QueryRowContext(ctx, `
		INSERT INTO guest_tickets (ip, remaining, last_reset_at) VALUES ($1, $2, NOW())
		ON CONFLICT (ip) DO UPDATE SET remaining = $2, last_reset_at = NOW(), updated_at = NOW()
		`+guestReturning, id.Key, tickets))
}

func (r *LedgerRepository) SetVIP(ctx context.Context, accountID, subscriptionRef string, tickets int) (ledger.Row, error) {
	return scanAccountRow(r.db.QueryRowContext(ctx, `
		UPDATE users SET
			is_vip = TRUE,
			vip_since = COALESCE(vip_since, NOW()),
			free_tickets = $3,
			stripe_subscription_id = COALESCE(NULLIF($2, ''), stripe_subscription_id),
			updated_at = NOW()
		WHERE id = $1
		`+accountReturning, accountID, subscriptionRef, tickets))
}

func (r *LedgerRepository) ClearVIP(ctx context.Context, accountID string, tickets int) (ledger.Row, error) {
	return scanAccountRow(r.db.QueryRowContext(ctx, `
		UPDATE users SET
			is_vip = FALSE,
			free_tickets = $2,
			stripe_subscription_id = NULL,
			updated_at = NOW()
		WHERE id = $1
		`+accountReturning, accountID, tickets))
}
