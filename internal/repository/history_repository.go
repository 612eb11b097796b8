package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"cefilm-backend/internal/models"
)

const historyColumns = `id, user_id, quiz_name, preferences_json, answers_json, result_main_json, alternatives_json, created_at`

// HistoryRepository stores VIP recommendation history. Entries are never updated.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func scanHistoryEntry(row rowScanner) (models.HistoryEntry, error) {
	var (
		e                                 models.HistoryEntry
		prefs, answers, main, alternative []byte
	)
	if err := row.Scan(&e.ID, &e.AccountID, &e.QuizName, &prefs, &answers, &main, &alternative, &e.CreatedAt); err != nil {
		return e, err
	}
	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{prefs, &e.Preferences},
		{answers, &e.Answers},
		{main, &e.Result},
		{alternative, &e.Alternatives},
	} {
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return e, fmt.Errorf("failed to decode history entry %s: %w", e.ID, err)
		}
	}
	return e, nil
}

// Create stores a completed recommendation for the account.
func (r *HistoryRepository) Create(ctx context.Context, e models.HistoryEntry) (*models.HistoryEntry, error) {
	if e.Preferences == nil {
		e.Preferences = []string{}
	}
	prefs, err := json.Marshal(e.Preferences)
	if err != nil {
		return nil, err
	}
	answers, err := json.Marshal(e.Answers)
	if err != nil {
		return nil, err
	}
	main, err := json.Marshal(e.Result)
	if err != nil {
		return nil, err
	}
	alternatives, err := json.Marshal(e.Alternatives)
	if err != nil {
		return nil, err
	}

	saved, err := scanHistoryEntry(r.db.QueryRowContext(ctx, `
		INSERT INTO vip_history (id, user_id, quiz_name, preferences_json, answers_json, result_main_json, alternatives_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+historyColumns,
		uuid.NewString(), e.AccountID, e.QuizName, string(prefs), string(answers), string(main), string(alternatives)))
	if err != nil {
		return nil, fmt.Errorf("failed to create history entry: %w", translate(err))
	}
	return &saved, nil
}

// List returns the account's entries, newest first.
func (r *HistoryRepository) List(ctx context.Context, accountID string, limit int) ([]models.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+historyColumns+`
		FROM vip_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		e, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry owned by the account.
func (r *HistoryRepository) Get(ctx context.Context, accountID, id string) (*models.HistoryEntry, error) {
	e, err := scanHistoryEntry(r.db.QueryRowContext(ctx, `
		SELECT `+historyColumns+` FROM vip_history WHERE id = $1 AND user_id = $2
	`, id, accountID))
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}
