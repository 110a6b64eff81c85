package cart

import (
	"errors"
	"math"
	"testing"

	"github.com/grillburger/backend/internal/models"
	"github.com/grillburger/backend/internal/pricing"
)

var (
	frozenCase = models.Product{ID: "F1", Name: "Beef Patties", Category: "Frozen", Pack: "10kg case", Price: 10.00, Splittable: true}
	herbBunch  = models.Product{ID: "H1", Name: "Basil", Category: "Herbs", Pack: "bunch", Price: 1.80, Splittable: false}
)

func key(id string, p models.Portion) models.LineKey {
	return models.LineKey{ProductID: id, Portion: p}
}

func TestAddLineMergesSameKey(t *testing.T) {
	c := New()

	if _, err := c.AddLine(frozenCase, models.PortionHalf, 2); err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}
	if _, err := c.AddLine(frozenCase, models.PortionHalf, 1); err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", lines[0].Quantity)
	}
	// 10.00 x 0.5 x 3 = 15.00
	if got := pricing.LineTotal(lines[0]); math.Abs(got-15.00) > 1e-9 {
		t.Errorf("line total = %v, want 15.00", got)
	}
}

func TestAddLineDistinctPortionsAreDistinctLines(t *testing.T) {
	c := New()

	c.AddLine(frozenCase, models.PortionFull, 1)
	c.AddLine(frozenCase, models.PortionHalf, 1)

	if c.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", c.Len())
	}
}

func TestAddLineForcesFullForNonSplittable(t *testing.T) {
	c := New()

	line, err := c.AddLine(herbBunch, models.PortionHalf, 1)
	if err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}
	if line.Portion != models.PortionFull {
		t.Errorf("portion = %q, want forced %q", line.Portion, models.PortionFull)
	}

	// A later "quarter" add must merge into the same forced-full line.
	c.AddLine(herbBunch, models.PortionQuarter, 2)
	if c.Len() != 1 {
		t.Fatalf("expected forced adds to merge into 1 line, got %d", c.Len())
	}
	if got := c.Lines()[0].Quantity; got != 3 {
		t.Errorf("quantity = %d, want 3", got)
	}
}

func TestAddLineRejectsBadInput(t *testing.T) {
	c := New()

	if _, err := c.AddLine(frozenCase, models.PortionFull, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := c.AddLine(frozenCase, models.PortionFull, -2); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := c.AddLine(frozenCase, models.Portion("third"), 1); !errors.Is(err, pricing.ErrUnknownPortion) {
		t.Errorf("unknown portion: expected ErrUnknownPortion, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("rejected adds must leave the cart unchanged, got %d lines", c.Len())
	}
}

func TestSetQuantityClampsAtOne(t *testing.T) {
	c := New()
	c.AddLine(frozenCase, models.PortionFull, 2)
	k := key("F1", models.PortionFull)

	if err := c.SetQuantity(k, -5); err != nil {
		t.Fatalf("SetQuantity failed: %v", err)
	}
	if got := c.Lines()[0].Quantity; got != 1 {
		t.Errorf("quantity = %d, want clamp at 1", got)
	}
	if c.Len() != 1 {
		t.Error("decrement below 1 must never remove the line")
	}

	if err := c.SetQuantity(k, 4); err != nil {
		t.Fatalf("SetQuantity failed: %v", err)
	}
	if got := c.Lines()[0].Quantity; got != 5 {
		t.Errorf("quantity = %d, want 5", got)
	}
}

func TestSetQuantityUnknownLine(t *testing.T) {
	c := New()
	if err := c.SetQuantity(key("nope", models.PortionFull), 1); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
}

func TestChangePortionMergesIntoExistingLine(t *testing.T) {
	c := New()
	// A = (F1, full, qty 2), B = (F1, half, qty 3)
	c.AddLine(frozenCase, models.PortionFull, 2)
	c.AddLine(frozenCase, models.PortionHalf, 3)
	other, _ := c.AddLine(herbBunch, models.PortionFull, 1)

	if err := c.ChangePortion(key("F1", models.PortionFull), models.PortionHalf); err != nil {
		t.Fatalf("ChangePortion failed: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected merge to leave 2 lines, got %d", len(lines))
	}
	merged := lines[0]
	if merged.Portion != models.PortionHalf || merged.Quantity != 5 {
		t.Errorf("merged line = (%s, qty %d), want (half, qty 5)", merged.Portion, merged.Quantity)
	}
	if merged.BasePrice != frozenCase.Price {
		t.Errorf("merge must not touch base price: got %v", merged.BasePrice)
	}
	if lines[1] != other {
		t.Error("unrelated line must be unaffected by the merge")
	}
}

func TestChangePortionInPlace(t *testing.T) {
	c := New()
	c.AddLine(frozenCase, models.PortionFull, 2)

	if err := c.ChangePortion(key("F1", models.PortionFull), models.PortionQuarter); err != nil {
		t.Fatalf("ChangePortion failed: %v", err)
	}

	line := c.Lines()[0]
	if line.Portion != models.PortionQuarter {
		t.Errorf("portion = %q, want quarter", line.Portion)
	}
	if line.BasePrice != frozenCase.Price {
		t.Errorf("base price changed: got %v, want %v", line.BasePrice, frozenCase.Price)
	}
	// Only the multiplier changes: 10.00 x 0.25 x 2 = 5.00
	if got := c.Subtotal(); math.Abs(got-5.00) > 1e-9 {
		t.Errorf("subtotal = %v, want 5.00", got)
	}
}

func TestChangePortionErrors(t *testing.T) {
	c := New()
	c.AddLine(frozenCase, models.PortionFull, 1)

	if err := c.ChangePortion(key("F1", models.PortionHalf), models.PortionFull); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
	if err := c.ChangePortion(key("F1", models.PortionFull), models.Portion("slice")); !errors.Is(err, pricing.ErrUnknownPortion) {
		t.Errorf("expected ErrUnknownPortion, got %v", err)
	}
	if c.Len() != 1 {
		t.Error("failed operations must leave the cart unchanged")
	}
}

func TestRemoveLine(t *testing.T) {
	c := New()
	c.AddLine(frozenCase, models.PortionFull, 1)
	c.AddLine(herbBunch, models.PortionFull, 1)

	if err := c.RemoveLine(key("F1", models.PortionFull)); err != nil {
		t.Fatalf("RemoveLine failed: %v", err)
	}
	if c.Len() != 1 || c.Lines()[0].ProductID != "H1" {
		t.Errorf("expected only H1 to remain, got %+v", c.Lines())
	}

	if err := c.RemoveLine(key("F1", models.PortionFull)); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
}

func TestSubtotalAndClear(t *testing.T) {
	c := New()
	if got := c.Subtotal(); got != 0 {
		t.Errorf("empty cart subtotal = %v, want 0", got)
	}

	c.AddLine(frozenCase, models.PortionHalf, 3) // 15.00
	c.AddLine(herbBunch, models.PortionFull, 2)  // 3.60
	if got := c.Subtotal(); math.Abs(got-18.60) > 1e-9 {
		t.Errorf("subtotal = %v, want 18.60", got)
	}

	c.Clear()
	if c.Len() != 0 || c.Subtotal() != 0 {
		t.Error("Clear must empty the cart")
	}
}

func TestReplaceCopiesLines(t *testing.T) {
	c := New()
	src := []models.CartLine{
		{ProductID: "F1", Portion: models.PortionHalf, Quantity: 2, BasePrice: 10.00},
	}
	c.Replace(src)

	src[0].Quantity = 99
	if got := c.Lines()[0].Quantity; got != 2 {
		t.Errorf("Replace must deep-copy: quantity = %d, want 2", got)
	}

	got := c.Lines()
	got[0].Quantity = 7
	if c.Lines()[0].Quantity != 2 {
		t.Error("Lines must return a copy, not the backing slice")
	}
}
