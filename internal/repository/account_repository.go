package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cefilm-backend/internal/models"
)

const accountColumns = `id, email, password_hash, name, avatar_url, is_vip, vip_since, free_tickets,
	last_ticket_reset, stripe_customer_id, stripe_subscription_id, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a                              models.Account
		name, avatar, customer, subRef sql.NullString
		vipSince, lastReset            sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &name, &avatar, &a.IsVIP, &vipSince,
		&a.FreeTickets, &lastReset, &customer, &subRef, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Name = name.String
	a.AvatarURL = avatar.String
	a.StripeCustomerID = customer.String
	a.StripeSubscriptionID = subRef.String
	if vipSince.Valid {
		a.VIPSince = &vipSince.Time
	}
	if lastReset.Valid {
		a.LastTicketReset = &lastReset.Time
	}
	return &a, nil
}

// Create inserts a new account with the default ticket allotment.
func (r *AccountRepository) Create(ctx context.Context, email, passwordHash, name string, tickets int) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, free_tickets)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		uuid.NewString(), strings.ToLower(email), passwordHash, nullString(name), tickets)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", translate(err))
	}
	return a, nil
}

// GetByID returns an account by id.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// GetByEmail returns an account by its (case-insensitive) email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// GetByCustomerID returns the account mapped to a payment provider customer.
func (r *AccountRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE stripe_customer_id = $1`, customerID))
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// SetCustomerID records the payment provider customer of an account.
func (r *AccountRepository) SetCustomerID(ctx context.Context, id, customerID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET stripe_customer_id = $2, updated_at = NOW() WHERE id = $1
	`, id, customerID)
	if err != nil {
		return fmt.Errorf("failed to set customer id: %w", translate(err))
	}
	return expectOne(res)
}

// Update changes profile fields; nil arguments keep the stored value.
func (r *AccountRepository) Update(ctx context.Context, id string, name, avatarURL, passwordHash *string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			avatar_url = COALESCE($3, avatar_url),
			password_hash = COALESCE($4, password_hash),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+accountColumns,
		id, name, avatarURL, passwordHash)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", translate(err))
	}
	return a, nil
}

// Delete removes an account and everything it owns.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"watchlist_items", "vip_history", "ratings", "discussions"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if err := expectOne(res); err != nil {
		return err
	}
	return tx.Commit()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
