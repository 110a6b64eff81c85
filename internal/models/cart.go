package models

// Portion is the fractional purchase unit of a case. It is a closed
// enumeration; the pricing package owns the factor bound to each value.
type Portion string

const (
	PortionFull    Portion = "full"
	PortionHalf    Portion = "half"
	PortionQuarter Portion = "quarter"
)

// LineKey identifies a cart line. Two additions with the same key merge
// into one line; the same product in a different portion is a distinct
// line.
type LineKey struct {
	ProductID string
	Portion   Portion
}

// CartLine is one purchasable entry in the working cart.
type CartLine struct {
	// ProductID references the catalog product this line was added from.
	ProductID string

	// Name and Pack are captured from the product at add time so order
	// history renders without consulting the catalog.
	Name string
	Pack string

	// Portion is the effective portion for this line. Non-splittable
	// products are forced to full by the cart engine at add time.
	Portion Portion

	// Quantity is the number of units on the line. Always >= 1.
	Quantity int

	// BasePrice is the product's full-pack price captured at add time.
	// Portion changes only alter the multiplier applied when totalling,
	// never this field.
	BasePrice float64
}

// Key returns the line's identity key.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Portion: l.Portion}
}
