// Package memory provides an in-memory storage.Store. It backs the
// engine and service tests and doubles as a throwaway dev backend; the
// ledger only ever sees the storage.Store interface, so swapping it for
// SQLite is a wiring change.
package memory

import (
	"context"
	"sync"

	"github.com/grillburger/backend/internal/models"
	"github.com/grillburger/backend/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps all state in process memory. Safe for concurrent use.
//
// AppendErr and ListErr, when set, are returned by the corresponding
// operations; tests use them to exercise persistence failure paths.
type Store struct {
	mu     sync.Mutex
	orders map[string][]models.Order
	users  map[string]*models.User // by ID

	AppendErr error
	ListErr   error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		orders: make(map[string][]models.Order),
		users:  make(map[string]*models.User),
	}
}

// AppendOrder prepends a deep copy of the order to the account's
// history, newest first.
func (s *Store) AppendOrder(ctx context.Context, accountID string, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AppendErr != nil {
		return &storage.PersistenceError{Op: "append order", Err: s.AppendErr}
	}

	o := *order
	o.Lines = order.CloneLines()
	s.orders[accountID] = append([]models.Order{o}, s.orders[accountID]...)
	return nil
}

// ListOrders returns deep copies of the account's history, newest first.
func (s *Store) ListOrders(ctx context.Context, accountID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ListErr != nil {
		return nil, &storage.PersistenceError{Op: "list orders", Err: s.ListErr}
	}

	history := s.orders[accountID]
	out := make([]models.Order, len(history))
	for i, o := range history {
		out[i] = o
		out[i].Lines = o.CloneLines()
	}
	return out, nil
}

// CreateUser stores a copy of the user.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	s.users[u.ID] = &u
	return nil
}

// GetUserByUsername returns the user with the given sign-in name, or
// (nil, nil) if absent.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// GetUserByID returns the user with the given ID, or (nil, nil) if absent.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
