package service

import (
	"context"

	"cefilm-backend/internal/models"
)

const listLimit = 100

// WatchlistStore persists watchlist items scoped by owner.
type WatchlistStore interface {
	List(ctx context.Context, accountID string, limit int) ([]models.WatchlistItem, error)
	Get(ctx context.Context, accountID, id string) (*models.WatchlistItem, error)
	Create(ctx context.Context, accountID string, req models.CreateWatchlistItemRequest) (*models.WatchlistItem, error)
	Delete(ctx context.Context, accountID, id string) error
}

// HistoryStore persists VIP history scoped by owner.
type HistoryStore interface {
	HistoryWriter
	List(ctx context.Context, accountID string, limit int) ([]models.HistoryEntry, error)
	Get(ctx context.Context, accountID, id string) (*models.HistoryEntry, error)
}

// AccountReader loads an account.
type AccountReader interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

// LibraryService serves a user's watchlist and VIP history. Another user's
// records are reported as not found.
type LibraryService struct {
	accounts  AccountReader
	watchlist WatchlistStore
	history   HistoryStore
}

func NewLibraryService(accounts AccountReader, watchlist WatchlistStore, history HistoryStore) *LibraryService {
	return &LibraryService{accounts: accounts, watchlist: watchlist, history: history}
}

func (s *LibraryService) ListWatchlist(ctx context.Context, accountID string) ([]models.WatchlistItem, error) {
	return s.watchlist.List(ctx, accountID, listLimit)
}

func (s *LibraryService) GetWatchlistItem(ctx context.Context, accountID, id string) (*models.WatchlistItem, error) {
	return s.watchlist.Get(ctx, accountID, id)
}

func (s *LibraryService) AddToWatchlist(ctx context.Context, accountID string, req models.CreateWatchlistItemRequest) (*models.WatchlistItem, error) {
	return s.watchlist.Create(ctx, accountID, req)
}

func (s *LibraryService) RemoveFromWatchlist(ctx context.Context, accountID, id string) error {
	return s.watchlist.Delete(ctx, accountID, id)
}

func (s *LibraryService) requireVIP(ctx context.Context, accountID string) error {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !acc.IsVIP {
		return models.ErrVIPRequired
	}
	return nil
}

// ListHistory returns the VIP history, newest first.
func (s *LibraryService) ListHistory(ctx context.Context, accountID string) ([]models.HistoryEntry, error) {
	if err := s.requireVIP(ctx, accountID); err != nil {
		return nil, err
	}
	return s.history.List(ctx, accountID, listLimit)
}

// GetHistoryEntry returns one VIP history entry.
func (s *LibraryService) GetHistoryEntry(ctx context.Context, accountID, id string) (*models.HistoryEntry, error) {
	if err := s.requireVIP(ctx, accountID); err != nil {
		return nil, err
	}
	return s.history.Get(ctx, accountID, id)
}
