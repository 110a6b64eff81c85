// Package cart implements the working cart for one browsing session:
// merge-on-add by (product, portion) key, quantity and portion
// mutation, and on-demand subtotals.
package cart

import (
	"errors"

	"github.com/grillburger/backend/internal/models"
	"github.com/grillburger/backend/internal/pricing"
)

var (
	// ErrInvalidQuantity reports an add with a zero or negative quantity.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrLineNotFound reports an operation on a line key not in the cart.
	ErrLineNotFound = errors.New("cart line not found")
)

// Cart holds the ordered cart lines for the current session. One cart
// exists per signed-in account at a time; operations are plain
// in-memory mutations with no locking of their own.
type Cart struct {
	lines []models.CartLine
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddLine adds quantity units of a product in the requested portion.
// Non-splittable products are forced to a full pack regardless of the
// requested portion. If a line with the same (product, portion) key
// already exists the quantities merge; otherwise a new line is appended
// with the product's price captured as its base price. Returns the
// resulting line.
func (c *Cart) AddLine(p models.Product, portion models.Portion, quantity int) (models.CartLine, error) {
	if quantity <= 0 {
		return models.CartLine{}, ErrInvalidQuantity
	}
	if _, err := pricing.Factor(portion); err != nil {
		return models.CartLine{}, err
	}
	if !p.Splittable {
		portion = models.PortionFull
	}

	key := models.LineKey{ProductID: p.ID, Portion: portion}
	if i := c.index(key); i >= 0 {
		c.lines[i].Quantity += quantity
		return c.lines[i], nil
	}

	line := models.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Pack:      p.Pack,
		Portion:   portion,
		Quantity:  quantity,
		BasePrice: p.Price,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// SetQuantity adjusts a line's quantity by delta, clamping at 1. A
// decrement never removes the line; removal is only ever RemoveLine.
func (c *Cart) SetQuantity(key models.LineKey, delta int) error {
	i := c.index(key)
	if i < 0 {
		return ErrLineNotFound
	}
	q := c.lines[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	c.lines[i].Quantity = q
	return nil
}

// ChangePortion moves a line to a new portion. If another line already
// holds the (product, newPortion) key the two merge: quantities sum
// into the existing line and the changed line is removed. The base
// price is never altered, only the multiplier applied when totalling.
func (c *Cart) ChangePortion(key models.LineKey, newPortion models.Portion) error {
	if _, err := pricing.Factor(newPortion); err != nil {
		return err
	}
	i := c.index(key)
	if i < 0 {
		return ErrLineNotFound
	}
	if key.Portion == newPortion {
		return nil
	}

	newKey := models.LineKey{ProductID: key.ProductID, Portion: newPortion}
	if j := c.index(newKey); j >= 0 {
		c.lines[j].Quantity += c.lines[i].Quantity
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}

	c.lines[i].Portion = newPortion
	return nil
}

// RemoveLine deletes a line unconditionally.
func (c *Cart) RemoveLine(key models.LineKey) error {
	i := c.index(key)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

// Subtotal recomputes the sum of line totals. Never cached.
func (c *Cart) Subtotal() float64 {
	return pricing.Subtotal(c.lines)
}

// Lines returns a copy of the cart lines in order.
func (c *Cart) Lines() []models.CartLine {
	lines := make([]models.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Clear empties the cart. Invoked by checkout.
func (c *Cart) Clear() {
	c.lines = nil
}

// Replace installs the given lines as the cart's contents, replacing
// whatever was there. Used to load a past order back into the cart.
func (c *Cart) Replace(lines []models.CartLine) {
	c.lines = make([]models.CartLine, len(lines))
	copy(c.lines, lines)
}

func (c *Cart) index(key models.LineKey) int {
	for i, line := range c.lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}
