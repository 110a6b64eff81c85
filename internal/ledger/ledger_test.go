package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/grillburger/backend/internal/cart"
	"github.com/grillburger/backend/internal/models"
	"github.com/grillburger/backend/internal/storage"
	"github.com/grillburger/backend/internal/storage/memory"
)

var frozenCase = models.Product{ID: "F1", Name: "Beef Patties", Category: "Frozen", Pack: "10kg case", Price: 10.00, Splittable: true}

func loadedCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	if _, err := c.AddLine(frozenCase, models.PortionHalf, 3); err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}
	return c
}

func TestCheckout(t *testing.T) {
	store := memory.New()
	l := New(store)
	ctx := context.Background()

	c := loadedCart(t)
	wantTotal := c.Subtotal()

	order, err := l.Checkout(ctx, "alice", c)
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	if order.ID == "" {
		t.Error("expected generated order ID")
	}
	if order.CreatedAt == 0 {
		t.Error("expected timestamp")
	}
	if math.Abs(order.Total-wantTotal) > 1e-9 {
		t.Errorf("order total = %v, want pre-checkout subtotal %v", order.Total, wantTotal)
	}
	if c.Len() != 0 {
		t.Error("checkout must clear the working cart")
	}

	history := l.History(ctx, "alice")
	if len(history) != 1 {
		t.Fatalf("expected 1 order in history, got %d", len(history))
	}
	if history[0].ID != order.ID {
		t.Errorf("history[0] = %s, want the returned order %s", history[0].ID, order.ID)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	store := memory.New()
	l := New(store)
	ctx := context.Background()

	_, err := l.Checkout(ctx, "alice", cart.New())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(l.History(ctx, "alice")) != 0 {
		t.Error("failed checkout must not mutate the ledger")
	}
}

func TestCheckoutRequiresAccount(t *testing.T) {
	store := memory.New()
	l := New(store)

	c := loadedCart(t)
	_, err := l.Checkout(context.Background(), "", c)
	if !errors.Is(err, ErrNoActiveAccount) {
		t.Fatalf("expected ErrNoActiveAccount, got %v", err)
	}
	if c.Len() != 1 {
		t.Error("failed checkout must leave the cart intact")
	}
}

func TestCheckoutSaveFailureIsNotCommitted(t *testing.T) {
	store := memory.New()
	store.AppendErr = errors.New("disk full")
	l := New(store)
	ctx := context.Background()

	c := loadedCart(t)
	_, err := l.Checkout(ctx, "alice", c)
	if err == nil {
		t.Fatal("expected checkout to fail")
	}
	var pe *storage.PersistenceError
	if !errors.As(err, &pe) {
		t.Errorf("expected a PersistenceError, got %v", err)
	}
	if c.Len() != 1 {
		t.Error("cart must be left intact after a failed write")
	}

	store.AppendErr = nil
	if len(l.History(ctx, "alice")) != 0 {
		t.Error("failed write must not commit an order")
	}
}

func TestHistoryDegradesToEmptyOnLoadFailure(t *testing.T) {
	store := memory.New()
	l := New(store)
	ctx := context.Background()

	c := loadedCart(t)
	if _, err := l.Checkout(ctx, "alice", c); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	store.ListErr = errors.New("corrupt data")
	if got := l.History(ctx, "alice"); len(got) != 0 {
		t.Errorf("expected degraded empty history, got %d orders", len(got))
	}
	if _, ok := l.Latest(ctx, "alice"); ok {
		t.Error("Latest must report absent under a degraded history")
	}
}

func TestLatest(t *testing.T) {
	store := memory.New()
	l := New(store)
	ctx := context.Background()

	if _, ok := l.Latest(ctx, "alice"); ok {
		t.Error("expected no latest order for a fresh account")
	}

	first, err := l.Checkout(ctx, "alice", loadedCart(t))
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	second, err := l.Checkout(ctx, "alice", loadedCart(t))
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	latest, ok := l.Latest(ctx, "alice")
	if !ok {
		t.Fatal("expected a latest order")
	}
	if latest.ID != second.ID {
		t.Errorf("latest = %s, want most recent %s (not %s)", latest.ID, second.ID, first.ID)
	}
}

func TestReorderRoundTrip(t *testing.T) {
	store := memory.New()
	l := New(store)
	ctx := context.Background()

	original, err := l.Checkout(ctx, "alice", loadedCart(t))
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	// Load the order back and check out again immediately.
	c := cart.New()
	l.LoadIntoCart(*original, c)
	if c.Len() != len(original.Lines) {
		t.Fatalf("expected %d reconstructed lines, got %d", len(original.Lines), c.Len())
	}

	time.Sleep(2 * time.Millisecond) // distinct timestamp
	repeat, err := l.Checkout(ctx, "alice", c)
	if err != nil {
		t.Fatalf("repeat Checkout failed: %v", err)
	}

	if repeat.ID == original.ID {
		t.Error("re-order must mint a distinct order ID")
	}
	if repeat.CreatedAt == original.CreatedAt {
		t.Error("re-order must carry a fresh timestamp")
	}
	if math.Abs(repeat.Total-original.Total) > 1e-9 {
		t.Errorf("re-order total = %v, want %v", repeat.Total, original.Total)
	}
	if len(repeat.Lines) != len(original.Lines) {
		t.Fatalf("line count mismatch: got %d, want %d", len(repeat.Lines), len(original.Lines))
	}
	for i := range repeat.Lines {
		if repeat.Lines[i] != original.Lines[i] {
			t.Errorf("line %d mismatch: got %+v, want %+v", i, repeat.Lines[i], original.Lines[i])
		}
	}
}

func TestOrderSnapshotIsIsolatedFromCart(t *testing.T) {
	store := memory.New()
	l := New(store)
	ctx := context.Background()

	c := loadedCart(t)
	order, err := l.Checkout(ctx, "alice", c)
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	// Mutating the cart after checkout must not reach the snapshot.
	c.AddLine(frozenCase, models.PortionHalf, 10)
	if got := l.History(ctx, "alice")[0].Lines[0].Quantity; got != order.Lines[0].Quantity {
		t.Errorf("snapshot mutated: quantity = %d, want %d", got, order.Lines[0].Quantity)
	}
}
