package models

// Product is a single catalog entry. Products are owned by the catalog
// provider and are immutable: the cart and ledger only ever read them.
type Product struct {
	// ID is the catalog identifier (e.g. "F1"), unique within the catalog.
	ID string

	// Name is the display name shown on cards and order lines.
	Name string

	// Category is the browsing category (e.g. "Frozen", "Fruit").
	Category string

	// Pack describes the wholesale unit (e.g. "10kg case").
	Pack string

	// Price is the base unit price in pounds for a full pack. Never negative.
	Price float64

	// Splittable reports whether the pack may be bought in half or
	// quarter portions. Non-splittable products are always sold full.
	Splittable bool

	// Description is optional detail copy for the product sheet.
	Description string
}
