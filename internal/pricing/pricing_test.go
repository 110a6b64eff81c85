package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/grillburger/backend/internal/models"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		portion models.Portion
		want    float64
		wantErr bool
	}{
		{models.PortionFull, 1, false},
		{models.PortionHalf, 0.5, false},
		{models.PortionQuarter, 0.25, false},
		{models.Portion("third"), 0, true},
		{models.Portion(""), 0, true},
	}

	for _, tt := range tests {
		got, err := Factor(tt.portion)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownPortion) {
				t.Errorf("Factor(%q): expected ErrUnknownPortion, got %v", tt.portion, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Factor(%q): unexpected error %v", tt.portion, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Factor(%q) = %v, want %v", tt.portion, got, tt.want)
		}
	}
}

func TestParsePortion(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Portion
		wantErr bool
	}{
		{"", models.PortionFull, false},
		{"full", models.PortionFull, false},
		{"half", models.PortionHalf, false},
		{"quarter", models.PortionQuarter, false},
		{"HALF", "", true},
		{"eighth", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePortion(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownPortion) {
				t.Errorf("ParsePortion(%q): expected ErrUnknownPortion, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePortion(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePortion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name string
		line models.CartLine
		want float64
	}{
		{
			name: "full pack",
			line: models.CartLine{ProductID: "F1", Portion: models.PortionFull, Quantity: 2, BasePrice: 12.50},
			want: 25.0,
		},
		{
			// The canonical half-case scenario: 10.00 x 0.5 x 3 = 15.00.
			name: "half case times three",
			line: models.CartLine{ProductID: "F1", Portion: models.PortionHalf, Quantity: 3, BasePrice: 10.00},
			want: 15.0,
		},
		{
			name: "quarter case",
			line: models.CartLine{ProductID: "V2", Portion: models.PortionQuarter, Quantity: 4, BasePrice: 8.00},
			want: 8.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineTotal(tt.line); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LineTotal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubtotal(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: "F1", Portion: models.PortionHalf, Quantity: 3, BasePrice: 10.00},
		{ProductID: "F2", Portion: models.PortionFull, Quantity: 1, BasePrice: 4.25},
	}
	if got, want := Subtotal(lines), 19.25; math.Abs(got-want) > 1e-9 {
		t.Errorf("Subtotal = %v, want %v", got, want)
	}

	if got := Subtotal(nil); got != 0 {
		t.Errorf("Subtotal(nil) = %v, want 0", got)
	}
	if Subtotal(lines) < 0 {
		t.Error("Subtotal must never be negative")
	}
}
