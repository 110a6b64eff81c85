// Package ledger owns the per-account order history: the checkout
// transition that freezes a cart into an immutable order, the
// newest-first history reads, and loading a past order back into the
// working cart.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/grillburger/backend/internal/cart"
	"github.com/grillburger/backend/internal/models"
	"github.com/grillburger/backend/internal/storage"
)

var (
	// ErrEmptyCart reports a checkout attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNoActiveAccount reports a checkout without a signed-in account.
	ErrNoActiveAccount = errors.New("no active account")
)

// Ledger records finalized orders through an injected store. It holds
// no order state of its own; the store is the single source of truth.
type Ledger struct {
	store storage.OrderStore
}

// New creates a ledger over the given order store.
func New(store storage.OrderStore) *Ledger {
	return &Ledger{store: store}
}

// Checkout freezes the cart into an immutable order and appends it to
// the account's history. The order gets a fresh UUID and a unix-milli
// timestamp; its lines are deep copies, never shared with the live
// cart. On success the cart is cleared. If the store write fails the
// error propagates, the order is not committed and the cart is left
// intact for a retry.
func (l *Ledger) Checkout(ctx context.Context, accountID string, c *cart.Cart) (*models.Order, error) {
	if accountID == "" {
		return nil, ErrNoActiveAccount
	}
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UnixMilli(),
		Lines:     c.Lines(),
		Total:     c.Subtotal(),
	}

	if err := l.store.AppendOrder(ctx, accountID, order); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	c.Clear()
	slog.Info("Order placed", "order_id", order.ID, "account_id", accountID, "total", order.Total, "lines", len(order.Lines))
	return order, nil
}

// History returns the account's orders, newest first. A storage failure
// or corrupt history degrades to empty rather than failing the caller:
// losing the history view is preferable to blocking browsing.
func (l *Ledger) History(ctx context.Context, accountID string) []models.Order {
	orders, err := l.store.ListOrders(ctx, accountID)
	if err != nil {
		slog.Warn("Order history unavailable, treating as empty", "account_id", accountID, "error", err)
		return nil
	}
	return orders
}

// Latest returns the most recent order, or false if the account has
// never checked out.
func (l *Ledger) Latest(ctx context.Context, accountID string) (models.Order, bool) {
	history := l.History(ctx, accountID)
	if len(history) == 0 {
		return models.Order{}, false
	}
	return history[0], true
}

// LoadIntoCart reconstructs the order's lines as the cart's contents,
// replacing whatever was there. This backs both re-order and modify;
// the ledger itself is untouched.
func (l *Ledger) LoadIntoCart(order models.Order, c *cart.Cart) {
	c.Replace(order.Lines)
}
