// Package pricing holds the portion policy and the shared pricing math
// for cart lines. Everything here is a pure function over in-memory
// values; no state, no side effects.
package pricing

import (
	"errors"
	"fmt"

	"github.com/grillburger/backend/internal/models"
)

// ErrUnknownPortion reports a portion outside the closed enumeration.
// This is a contract violation by the caller, not a runtime condition
// to recover from.
var ErrUnknownPortion = errors.New("unknown portion")

// factors binds each portion to its price multiplier.
var factors = map[models.Portion]float64{
	models.PortionFull:    1,
	models.PortionHalf:    0.5,
	models.PortionQuarter: 0.25,
}

// Factor returns the price multiplier for a portion.
func Factor(p models.Portion) (float64, error) {
	f, ok := factors[p]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPortion, p)
	}
	return f, nil
}

// ParsePortion normalises boundary input into a portion value. The
// empty string means a full pack.
func ParsePortion(s string) (models.Portion, error) {
	if s == "" {
		return models.PortionFull, nil
	}
	p := models.Portion(s)
	if _, ok := factors[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPortion, s)
	}
	return p, nil
}

// LineTotal computes basePrice x portion factor x quantity for one
// line. Lines built through the cart engine always carry a valid
// portion; anything else is a programming error.
func LineTotal(line models.CartLine) float64 {
	f, err := Factor(line.Portion)
	if err != nil {
		panic(err)
	}
	return line.BasePrice * f * float64(line.Quantity)
}

// Subtotal sums the line totals of a cart or order snapshot.
func Subtotal(lines []models.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += LineTotal(line)
	}
	return total
}
