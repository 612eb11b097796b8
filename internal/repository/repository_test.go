package repository

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cefilm-backend/internal/database"
	"cefilm-backend/internal/ledger"
	"cefilm-backend/internal/models"
)

// openTestDB connects to TEST_DATABASE_URL or skips.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func createAccount(t *testing.T, repo *AccountRepository) *models.Account {
	t.Helper()
	a, err := repo.Create(context.Background(), uuid.NewString()+"@example.com", "hash", "Ana", ledger.DefaultTickets)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Delete(context.Background(), a.ID) })
	return a
}

func TestAccountRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	a := createAccount(t, repo)
	assert.Equal(t, ledger.DefaultTickets, a.FreeTickets)

	_, err := repo.Create(ctx, a.Email, "hash", "", ledger.DefaultTickets)
	assert.ErrorIs(t, err, models.ErrConflict)

	require.NoError(t, repo.SetCustomerID(ctx, a.ID, "cus_"+a.ID))
	byCustomer, err := repo.GetByCustomerID(ctx, "cus_"+a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byCustomer.ID)

	name := "Ana Maria"
	updated, err := repo.Update(ctx, a.ID, &name, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "hash", updated.PasswordHash)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLedgerRepository(t *testing.T) {
	db := openTestDB(t)
	accounts := NewAccountRepository(db)
	store := NewLedgerRepository(db)
	l := ledger.New(store)
	ctx := context.Background()

	t.Run("guest concurrent first touch", func(t *testing.T) {
		ip := "test-" + uuid.NewString()
		t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM guest_tickets WHERE ip = $1`, ip) })

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = l.GetOrCreate(ctx, ledger.Guest(ip))
			}()
		}
		wg.Wait()

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM guest_tickets WHERE ip = $1`, ip).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("guest consume saturates", func(t *testing.T) {
		ip := "test-" + uuid.NewString()
		t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM guest_tickets WHERE ip = $1`, ip) })

		var row ledger.Row
		var err error
		for i := 0; i < ledger.DefaultTickets+2; i++ {
			row, err = l.Consume(ctx, ledger.Guest(ip))
			require.NoError(t, err)
		}
		assert.Equal(t, 0, row.Remaining)
	})

	t.Run("vip lifecycle", func(t *testing.T) {
		a := createAccount(t, accounts)
		id := ledger.Account(a.ID)

		first, err := l.ActivateVIP(ctx, id, "sub_1")
		require.NoError(t, err)
		assert.Equal(t, ledger.VIPTickets, first.Remaining)

		consumed, err := l.Consume(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, ledger.VIPTickets, consumed.Remaining)

		again, err := l.ActivateVIP(ctx, id, "")
		require.NoError(t, err)
		assert.True(t, first.VIPSince.Equal(*again.VIPSince))
		assert.Equal(t, "sub_1", again.SubscriptionRef)

		off, err := l.DeactivateVIP(ctx, id)
		require.NoError(t, err)
		assert.False(t, off.IsVIP)
		assert.Equal(t, ledger.DefaultTickets, off.Remaining)
		assert.Empty(t, off.SubscriptionRef)
		assert.NotNil(t, off.VIPSince)
	})
}

func TestWatchlistOwnership(t *testing.T) {
	db := openTestDB(t)
	accounts := NewAccountRepository(db)
	repo := NewWatchlistRepository(db)
	ctx := context.Background()

	owner := createAccount(t, accounts)
	other := createAccount(t, accounts)

	item, err := repo.Create(ctx, owner.ID, models.CreateWatchlistItemRequest{Title: "Cinema Paradiso", IMDbID: "tt0095765"})
	require.NoError(t, err)

	_, err = repo.Get(ctx, other.ID, item.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, other.ID, item.ID), models.ErrNotFound)

	items, err := repo.List(ctx, owner.ID, 50)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, repo.Delete(ctx, owner.ID, item.ID))
}

func TestHistoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	accounts := NewAccountRepository(db)
	repo := NewHistoryRepository(db)
	ctx := context.Background()

	a := createAccount(t, accounts)
	saved, err := repo.Create(ctx, models.HistoryEntry{
		AccountID: a.ID,
		QuizName:  "Mood",
		Answers:   []models.QuizAnswer{{Question: "Q", Answer: "A"}},
		Result:    models.MainPick{MovieFacts: models.MovieFacts{Title: "Amélie", IMDbID: "tt0211915"}},
		Alternatives: []models.MovieFacts{
			{Title: "One"}, {Title: "Two"}, {Title: "Three"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, saved.Preferences)

	got, err := repo.Get(ctx, a.ID, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amélie", got.Result.Title)
	assert.Len(t, got.Alternatives, 3)

	other := createAccount(t, accounts)
	_, err = repo.Get(ctx, other.ID, saved.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
