package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
)

func items(pairs ...[2]int64) []LineItem {
	reqs := make([]LineItemRequest, len(pairs))
	for i, p := range pairs {
		reqs[i] = LineItemRequest{Description: "item", Quantity: p[0], UnitPrice: p[1]}
	}
	return BuildItems(reqs, "usd")
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		taxRate  decimal.Decimal
		subtotal int64
		tax      int64
		total    int64
	}{
		{
			name:     "two lines ten percent",
			items:    items([2]int64{2, 10000}, [2]int64{5, 8000}),
			taxRate:  decimal.NewFromInt(10),
			subtotal: 60000,
			tax:      6000,
			total:    66000,
		},
		{
			name:     "zero rate",
			items:    items([2]int64{3, 500}),
			taxRate:  decimal.Zero,
			subtotal: 1500,
			tax:      0,
			total:    1500,
		},
		{
			name:     "fractional rate",
			items:    items([2]int64{1, 10000}),
			taxRate:  decimal.RequireFromString("8.25"),
			subtotal: 10000,
			tax:      825,
			total:    10825,
		},
		{
			name:     "half cent rounds to even down",
			items:    items([2]int64{1, 125}),
			taxRate:  decimal.NewFromInt(10),
			subtotal: 125,
			tax:      12, // 12.5 rounds half-to-even
			total:    137,
		},
		{
			name:     "half cent rounds to even up",
			items:    items([2]int64{1, 135}),
			taxRate:  decimal.NewFromInt(10),
			subtotal: 135,
			tax:      14, // 13.5 rounds half-to-even
			total:    149,
		},
		{
			name:     "no items",
			items:    nil,
			taxRate:  decimal.NewFromInt(20),
			subtotal: 0,
			tax:      0,
			total:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.items, tt.taxRate, "usd")
			if got.Subtotal.Amount != tt.subtotal {
				t.Errorf("Subtotal: got %d, want %d", got.Subtotal.Amount, tt.subtotal)
			}
			if got.Tax.Amount != tt.tax {
				t.Errorf("Tax: got %d, want %d", got.Tax.Amount, tt.tax)
			}
			if got.Total.Amount != tt.total {
				t.Errorf("Total: got %d, want %d", got.Total.Amount, tt.total)
			}
			if got.Total.Currency != "usd" {
				t.Errorf("Currency: got %s, want usd", got.Total.Currency)
			}
		})
	}
}

func TestTaxAppliedOnceOnSubtotal(t *testing.T) {
	// Ten lines of 15 cents at 10%: per-line tax would round each 1.5
	// to 2, accumulating 20. On the subtotal it is exactly 15.
	lines := make([][2]int64, 10)
	for i := range lines {
		lines[i] = [2]int64{1, 15}
	}
	got := Calculate(items(lines...), decimal.NewFromInt(10), "usd")
	if got.Subtotal.Amount != 150 {
		t.Fatalf("Subtotal: got %d, want 150", got.Subtotal.Amount)
	}
	if got.Tax.Amount != 15 {
		t.Errorf("Tax: got %d, want 15", got.Tax.Amount)
	}
}

func TestBuildItems(t *testing.T) {
	built := BuildItems([]LineItemRequest{
		{Description: "Design work", Quantity: 2, UnitPrice: 10000},
		{Description: "Development", Quantity: 5, UnitPrice: 8000},
	}, "usd")

	if len(built) != 2 {
		t.Fatalf("expected 2 items, got %d", len(built))
	}
	if built[0].LineTotal.Amount != 20000 {
		t.Errorf("line 0 total: got %d, want 20000", built[0].LineTotal.Amount)
	}
	if built[1].LineTotal.Amount != 40000 {
		t.Errorf("line 1 total: got %d, want 40000", built[1].LineTotal.Amount)
	}
	if built[0].ID.IsNil() || built[1].ID.IsNil() {
		t.Error("expected assigned line item IDs")
	}
	if built[0].ID == built[1].ID {
		t.Error("expected distinct line item IDs")
	}
}

func TestValidTaxRate(t *testing.T) {
	tests := []struct {
		rate  string
		valid bool
	}{
		{"0", true},
		{"10", true},
		{"100", true},
		{"8.25", true},
		{"-0.01", false},
		{"100.01", false},
	}

	for _, tt := range tests {
		got := ValidTaxRate(decimal.RequireFromString(tt.rate))
		if got != tt.valid {
			t.Errorf("ValidTaxRate(%s): got %v, want %v", tt.rate, got, tt.valid)
		}
	}
}

func TestRecalculate(t *testing.T) {
	inv := &Invoice{
		Items:    items([2]int64{2, 10000}),
		Currency: "usd",
		TaxRate:  decimal.NewFromInt(10),
	}
	inv.Recalculate()
	if inv.Total.Amount != 22000 {
		t.Fatalf("Total: got %d, want 22000", inv.Total.Amount)
	}

	inv.TaxRate = decimal.Zero
	inv.Recalculate()
	if inv.Total.Amount != 20000 {
		t.Errorf("Total after rate change: got %d, want 20000", inv.Total.Amount)
	}
}
