package ledger

import (
	"context"
	"sync"
	"time"

	"cefilm-backend/internal/models"
)

// MemoryStore is an in-process Store with the same semantics as the SQL one.
// Accounts must be added before use; guests are created on first touch.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[Identity]*Row
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[Identity]*Row)}
}

// AddAccount seeds an account row with the given state.
func (s *MemoryStore) AddAccount(row Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row.Identity.Kind = KindAccount
	r := row
	s.rows[row.Identity] = &r
}

func (s *MemoryStore) lookup(id Identity, create bool) (*Row, error) {
	r, ok := s.rows[id]
	if ok {
		return r, nil
	}
	if id.Kind != KindGuest || !create {
		return nil, models.ErrNotFound
	}
	r = &Row{Identity: id, Remaining: DefaultTickets}
	s.rows[id] = r
	return r, nil
}

func (s *MemoryStore) GetOrCreate(_ context.Context, id Identity) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.lookup(id, true)
	if err != nil {
		return Row{}, err
	}
	return *r, nil
}

func (s *MemoryStore) Decrement(_ context.Context, id Identity) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.lookup(id, true)
	if err != nil {
		return Row{}, err
	}
	if !r.IsVIP && r.Remaining > 0 {
		r.Remaining--
	}
	return *r, nil
}

func (s *MemoryStore) Reset(_ context.Context, id Identity, tickets int) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.lookup(id, true)
	if err != nil {
		return Row{}, err
	}
	now := time.Now()
	r.Remaining = tickets
	r.LastResetAt = &now
	return *r, nil
}

func (s *MemoryStore) SetVIP(_ context.Context, accountID, subscriptionRef string, tickets int) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.lookup(Account(accountID), false)
	if err != nil {
		return Row{}, err
	}
	if r.VIPSince == nil {
		now := time.Now()
		r.VIPSince = &now
	}
	r.IsVIP = true
	r.Remaining = tickets
	if subscriptionRef != "" {
		r.SubscriptionRef = subscriptionRef
	}
	return *r, nil
}

func (s *MemoryStore) ClearVIP(_ context.Context, accountID string, tickets int) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.lookup(Account(accountID), false)
	if err != nil {
		return Row{}, err
	}
	r.IsVIP = false
	r.Remaining = tickets
	r.SubscriptionRef = ""
	return *r, nil
}
