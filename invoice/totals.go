package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/types"
)

// Totals is the computed monetary summary of an invoice.
type Totals struct {
	Subtotal types.Money `json:"subtotal"`
	Tax      types.Money `json:"tax"`
	Total    types.Money `json:"total"`
}

var percentDivisor = decimal.NewFromInt(100)

// ValidTaxRate reports whether rate is a percentage within 0..100
// inclusive.
func ValidTaxRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(percentDivisor)
}

// Calculate computes subtotal, tax and total for the given line items
// at the given tax percentage. Line totals and the subtotal are exact
// integer arithmetic in minor units. The tax is computed on the
// subtotal as a whole, rounded half-to-even to a minor unit, applied
// exactly once; per-line tax rounding would drift from the displayed
// subtotal.
func Calculate(items []LineItem, taxRate decimal.Decimal, currency string) Totals {
	subtotal := int64(0)
	for _, item := range items {
		subtotal += item.LineTotal.Amount
	}
	tax := decimal.NewFromInt(subtotal).
		Mul(taxRate).
		Div(percentDivisor).
		RoundBank(0).
		IntPart()
	return Totals{
		Subtotal: types.Minor(subtotal, currency),
		Tax:      types.Minor(tax, currency),
		Total:    types.Minor(subtotal+tax, currency),
	}
}

// BuildItems converts caller-supplied line item requests into stored
// line items, assigning identifiers and exact line totals.
func BuildItems(reqs []LineItemRequest, currency string) []LineItem {
	items := make([]LineItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, LineItem{
			ID:          id.NewLineItemID(),
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   types.Minor(r.UnitPrice, currency),
			LineTotal:   types.Minor(r.Quantity*r.UnitPrice, currency),
		})
	}
	return items
}

// Recalculate rebuilds the invoice's stored totals from its current
// line items and tax rate.
func (inv *Invoice) Recalculate() {
	t := Calculate(inv.Items, inv.TaxRate, inv.Currency)
	inv.Subtotal = t.Subtotal
	inv.Tax = t.Tax
	inv.Total = t.Total
}
