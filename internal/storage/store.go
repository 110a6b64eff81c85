// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"fmt"

	"github.com/grillburger/backend/internal/models"
)

// OrderStore is the per-account order history capability required by
// the ledger. Histories are append-only: orders are never edited or
// deleted once written.
type OrderStore interface {
	// AppendOrder persists a finalized order into the account's history.
	// The write is atomic; on error nothing is committed.
	AppendOrder(ctx context.Context, accountID string, order *models.Order) error

	// ListOrders returns the account's full history, newest first.
	// An account that has never checked out yields an empty slice.
	ListOrders(ctx context.Context, accountID string) ([]models.Order, error)
}

// UserStore is the account persistence capability required by the
// identity layer.
type UserStore interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by sign-in name.
	// Returns (nil, nil) when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) when no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store is the full persistence surface. This abstraction allows
// swapping backends (SQLite, in-memory, ...) without changing the
// service layer.
type Store interface {
	OrderStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// PersistenceError wraps a storage failure (backend unavailable, quota,
// corrupt data) so callers can distinguish it from domain errors.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
