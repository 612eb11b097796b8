package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"cefilm-backend/internal/models"
)

const watchlistColumns = `id, user_id, title, original_title, imdb_id, year, notes, synopsis, reason, director, created_at`

// WatchlistRepository scopes every query to the owning account.
type WatchlistRepository struct {
	db *sql.DB
}

func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func scanWatchlistItem(row rowScanner) (models.WatchlistItem, error) {
	var (
		it                                                      models.WatchlistItem
		original, imdbID, year, notes, synopsis, reason, direct sql.NullString
	)
	err := row.Scan(&it.ID, &it.AccountID, &it.Title, &original, &imdbID, &year, &notes, &synopsis, &reason, &direct, &it.CreatedAt)
	if err != nil {
		return it, err
	}
	it.OriginalTitle = original.String
	it.IMDbID = imdbID.String
	it.Year = year.String
	it.Notes = notes.String
	it.Synopsis = synopsis.String
	it.Reason = reason.String
	it.Director = direct.String
	return it, nil
}

// List returns the account's items, newest first.
func (r *WatchlistRepository) List(ctx context.Context, accountID string, limit int) ([]models.WatchlistItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+watchlistColumns+`
		FROM watchlist_items
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	items := []models.WatchlistItem{}
	for rows.Next() {
		it, err := scanWatchlistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Get returns one item owned by the account.
func (r *WatchlistRepository) Get(ctx context.Context, accountID, id string) (*models.WatchlistItem, error) {
	it, err := scanWatchlistItem(r.db.QueryRowContext(ctx, `
		SELECT `+watchlistColumns+` FROM watchlist_items WHERE id = $1 AND user_id = $2
	`, id, accountID))
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

// Create stores a new item for the account.
func (r *WatchlistRepository) Create(ctx context.Context, accountID string, req models.CreateWatchlistItemRequest) (*models.WatchlistItem, error) {
	it, err := scanWatchlistItem(r.db.QueryRowContext(ctx, `
		INSERT INTO watchlist_items (id, user_id, title, original_title, imdb_id, year, notes, synopsis, reason, director)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+watchlistColumns,
		uuid.NewString(), accountID, req.Title, nullString(req.OriginalTitle), nullString(req.IMDbID),
		nullString(req.Year), nullString(req.Notes), nullString(req.Synopsis), nullString(req.Reason),
		nullString(req.Director)))
	if err != nil {
		return nil, fmt.Errorf("failed to create watchlist item: %w", translate(err))
	}
	return &it, nil
}

// Delete removes an item owned by the account.
func (r *WatchlistRepository) Delete(ctx context.Context, accountID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM watchlist_items WHERE id = $1 AND user_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}
	return expectOne(res)
}
