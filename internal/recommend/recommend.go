// Package recommend derives the "frequently bought" product list from
// an account's order history. The tally is recomputed on every call and
// never persisted; call volume is human-interactive.
package recommend

import (
	"sort"

	"github.com/grillburger/backend/internal/models"
)

// DefaultLimit is the number of products surfaced when the caller does
// not ask for a specific count.
const DefaultLimit = 6

// ProductResolver resolves product IDs against the current catalog.
type ProductResolver interface {
	Get(id string) (models.Product, bool)
}

// FrequentlyBought ranks products by cumulative quantity across the
// given history. Ties rank by first encounter; since the history is
// iterated newest first, ties favour more recently purchased products.
// Products that have left the catalog are silently dropped, so the
// result may be shorter than limit.
func FrequentlyBought(history []models.Order, catalog ProductResolver, limit int) []models.Product {
	if limit <= 0 {
		limit = DefaultLimit
	}

	type entry struct {
		id  string
		qty int
	}
	index := make(map[string]int)
	var tally []entry
	for _, order := range history {
		for _, line := range order.Lines {
			i, ok := index[line.ProductID]
			if !ok {
				i = len(tally)
				index[line.ProductID] = i
				tally = append(tally, entry{id: line.ProductID})
			}
			tally[i].qty += line.Quantity
		}
	}

	sort.SliceStable(tally, func(i, j int) bool {
		return tally[i].qty > tally[j].qty
	})

	if len(tally) > limit {
		tally = tally[:limit]
	}
	products := make([]models.Product, 0, len(tally))
	for _, e := range tally {
		if p, ok := catalog.Get(e.id); ok {
			products = append(products, p)
		}
	}
	return products
}
