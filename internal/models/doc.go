// Package models defines the core domain records for the Grillburger
// storefront backend.
//
//   - Product: a read-only catalog entry, owned by the catalog provider
//   - Portion: the fractional purchase unit of a case (full/half/quarter)
//   - CartLine: a purchasable entry in the working cart
//   - Order: an immutable snapshot of a cart, frozen at checkout
//   - User: a registered storefront account
//
// Models hold no behaviour beyond identity helpers; pricing math lives
// in the pricing package and mutation rules in the cart engine. To
// avoid circular references, relationships are expressed as ID strings,
// never pointers.
package models
