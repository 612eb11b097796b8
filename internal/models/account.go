package models

import "time"

// Account is a registered user together with its ticket ledger columns.
type Account struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Name                 string     `json:"name,omitempty"`
	AvatarURL            string     `json:"avatarUrl,omitempty"`
	IsVIP                bool       `json:"isVip"`
	VIPSince             *time.Time `json:"vipSince,omitempty"`
	FreeTickets          int        `json:"freeTickets"`
	LastTicketReset      *time.Time `json:"lastTicketReset,omitempty"`
	StripeCustomerID     string     `json:"-"`
	StripeSubscriptionID string     `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Name     string `json:"name" validate:"omitempty,max=120"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateAccountRequest is the body of PATCH /auth/me. Nil fields are left unchanged.
type UpdateAccountRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=120"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,max=2048"`
	Password  *string `json:"password" validate:"omitempty,min=6,max=128"`
}

// TicketActionRequest is the body of the ticket endpoints.
type TicketActionRequest struct {
	Action string `json:"action" validate:"required,oneof=use reset"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string   `json:"token"`
	User  *Account `json:"user"`
}

// Dashboard is the GET /auth/me projection.
type Dashboard struct {
	User        *Account        `json:"user"`
	Watchlist   []WatchlistItem `json:"watchlist"`
	History     []HistoryEntry  `json:"history"`
	Ratings     []Rating        `json:"ratings"`
	Discussions []Discussion    `json:"discussions"`
}

// Rating is a user's score for a movie.
type Rating struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"-"`
	MovieTitle string    `json:"movieTitle"`
	IMDbID     string    `json:"imdbId,omitempty"`
	Score      int       `json:"score"`
	Review     string    `json:"review,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Discussion is a user's community post.
type Discussion struct {
	ID        string    `json:"id"`
	AccountID string    `json:"-"`
	Topic     string    `json:"topic"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// CheckoutRequest is the optional body of POST /billing/checkout.
type CheckoutRequest struct {
	Lang string `json:"lang" validate:"omitempty,oneof=ro en"`
}
