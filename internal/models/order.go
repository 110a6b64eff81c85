package models

// Order is an immutable snapshot created at checkout. Its lines are
// deep copies of the cart lines at that moment and are never shared
// with the live cart. Orders belong to exactly one account's history;
// the store keys them by account ID.
type Order struct {
	// ID is the unique order identifier (UUID format). Uniqueness only
	// needs to hold within one account's history.
	ID string

	// CreatedAt is the checkout time as a unix millisecond timestamp.
	CreatedAt int64

	// Lines is the frozen sequence of cart line snapshots.
	Lines []CartLine

	// Total is the cart subtotal at the moment of checkout.
	Total float64
}

// CloneLines returns a deep copy of the order's lines, safe to hand to
// a mutable cart.
func (o Order) CloneLines() []CartLine {
	lines := make([]CartLine, len(o.Lines))
	copy(lines, o.Lines)
	return lines
}
