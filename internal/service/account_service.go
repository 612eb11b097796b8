package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cefilm-backend/internal/auth"
	"cefilm-backend/internal/ledger"
	"cefilm-backend/internal/models"
)

const dashboardLimit = 20

// AccountStore persists accounts.
type AccountStore interface {
	Create(ctx context.Context, email, passwordHash, name string, tickets int) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, id string, name, avatarURL, passwordHash *string) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}

// CommunityReader lists ratings and discussions.
type CommunityReader interface {
	ListRatings(ctx context.Context, accountID string, limit int) ([]models.Rating, error)
	ListDiscussions(ctx context.Context, accountID string, limit int) ([]models.Discussion, error)
}

// Subscriptions is the part of billing accounts depend on.
type Subscriptions interface {
	Sync(ctx context.Context, accountID string) (*models.Account, error)
	CancelSubscription(ctx context.Context, acc *models.Account) error
}

// AccountService handles registration, sessions, profile and tickets.
type AccountService struct {
	accounts  AccountStore
	watchlist WatchlistStore
	history   HistoryStore
	community CommunityReader
	subs      Subscriptions
	ledger    *ledger.Ledger
	jwt       *auth.JWTManager
}

func NewAccountService(
	accounts AccountStore,
	watchlist WatchlistStore,
	history HistoryStore,
	community CommunityReader,
	subs Subscriptions,
	l *ledger.Ledger,
	jwt *auth.JWTManager,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		watchlist: watchlist,
		history:   history,
		community: community,
		subs:      subs,
		ledger:    l,
		jwt:       jwt,
	}
}

// Register creates an account with the default ticket allotment and signs it in.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, models.Invalid(err.Error())
		}
		return nil, err
	}

	acc, err := s.accounts.Create(ctx, strings.TrimSpace(req.Email), hash, strings.TrimSpace(req.Name), ledger.DefaultTickets)
	if err != nil {
		return nil, err
	}
	slog.Info("account registered", "account_id", acc.ID)
	return s.session(acc)
}

// Login checks credentials. Unknown emails return ErrNotFound.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	acc, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(acc.PasswordHash, req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	return s.session(acc)
}

func (s *AccountService) session(acc *models.Account) (*models.AuthResponse, error) {
	token, err := s.jwt.Generate(acc.ID, acc.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: acc}, nil
}

// Get returns the account.
func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// Dashboard returns the account with its saved items. With sync set, the
// subscription state is pulled from the provider first.
func (s *AccountService) Dashboard(ctx context.Context, id string, sync bool) (*models.Dashboard, error) {
	var (
		acc *models.Account
		err error
	)
	if sync && s.subs != nil {
		acc, err = s.subs.Sync(ctx, id)
	} else {
		acc, err = s.accounts.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	d := &models.Dashboard{User: acc}
	if d.Watchlist, err = s.watchlist.List(ctx, id, 100); err != nil {
		return nil, err
	}
	if d.History, err = s.history.List(ctx, id, dashboardLimit); err != nil {
		return nil, err
	}
	if d.Ratings, err = s.community.ListRatings(ctx, id, dashboardLimit); err != nil {
		return nil, err
	}
	if d.Discussions, err = s.community.ListDiscussions(ctx, id, dashboardLimit); err != nil {
		return nil, err
	}
	return d, nil
}

// Update changes profile fields and, optionally, the password.
func (s *AccountService) Update(ctx context.Context, id string, req models.UpdateAccountRequest) (*models.Account, error) {
	var hash *string
	if req.Password != nil {
		h, err := auth.HashPassword(*req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrWeakPassword) {
				return nil, models.Invalid(err.Error())
			}
			return nil, err
		}
		hash = &h
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	return s.accounts.Update(ctx, id, req.Name, req.AvatarURL, hash)
}

// Delete cancels any paid subscription, then removes the account and its data.
// A failed cancellation aborts the deletion.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.subs != nil {
		if err := s.subs.CancelSubscription(ctx, acc); err != nil {
			return err
		}
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("account deleted", "account_id", id)
	return nil
}

// Tickets applies a ticket action ("use" or "reset") to the account.
func (s *AccountService) Tickets(ctx context.Context, id, action string) (*models.Account, error) {
	var err error
	switch action {
	case "use":
		_, err = s.ledger.Consume(ctx, ledger.Account(id))
	case "reset":
		_, err = s.ledger.Reset(ctx, ledger.Account(id))
	default:
		return nil, models.Invalid("action must be use or reset")
	}
	if err != nil {
		return nil, err
	}
	return s.accounts.GetByID(ctx, id)
}
