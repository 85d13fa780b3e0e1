// Package invoice defines the invoice aggregate: line items, monetary
// totals, the status lifecycle, and the typed requests used to create
// and mutate invoices.
//
// All monetary amounts are integer minor units (see types.Money).
// Totals are computed by Calculate and stored on the invoice; they are
// recomputed on every mutation of line items or tax rate and never
// patched directly.
package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/types"
)

// Invoice is an issued or in-progress bill from an organization to one
// of its clients.
type Invoice struct {
	types.Entity
	ID       id.InvoiceID      `json:"id"`
	OrgID    id.OrganizationID `json:"org_id"`
	ClientID id.ClientID       `json:"client_id"`

	// Number is the human-facing identifier, e.g. "INV-1042". Assigned
	// once at creation from the organization's sequence; immutable.
	Number string `json:"number"`

	Status   Status          `json:"status"`
	Items    []LineItem      `json:"items"`
	Currency string          `json:"currency"`
	TaxRate  decimal.Decimal `json:"tax_rate"` // percentage, 0..100
	Subtotal types.Money     `json:"subtotal"`
	Tax      types.Money     `json:"tax"`
	Total    types.Money     `json:"total"`
	Notes    string          `json:"notes,omitempty"`
	DueDate  *time.Time      `json:"due_date,omitempty"`
	SentAt   *time.Time      `json:"sent_at,omitempty"`
	PaidAt   *time.Time      `json:"paid_at,omitempty"`
}

// LineItem is a single billable line. LineTotal is Quantity times
// UnitPrice, computed exactly in integer arithmetic.
type LineItem struct {
	ID          id.LineItemID `json:"id"`
	Description string        `json:"description"`
	Quantity    int64         `json:"quantity"`
	UnitPrice   types.Money   `json:"unit_price"`
	LineTotal   types.Money   `json:"line_total"`
}

// CreateRequest carries the caller-supplied fields for a new invoice.
// The invoice number, status and totals are assigned by the engine.
type CreateRequest struct {
	ClientID id.ClientID       `json:"client_id"`
	Items    []LineItemRequest `json:"items"`
	Currency string            `json:"currency,omitempty"`
	TaxRate  decimal.Decimal   `json:"tax_rate"`
	Notes    string            `json:"notes,omitempty"`
	DueDate  *time.Time        `json:"due_date,omitempty"`
}

// LineItemRequest is the caller-facing shape of a line item. Amount is
// the unit price in minor units of the invoice currency.
type LineItemRequest struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// UpdateRequest enumerates the fields a draft invoice accepts. Nil
// pointers leave the field untouched; a non-nil Items slice replaces
// the line items wholesale and triggers a totals recomputation.
type UpdateRequest struct {
	ClientID *id.ClientID      `json:"client_id,omitempty"`
	Items    []LineItemRequest `json:"items,omitempty"`
	TaxRate  *decimal.Decimal  `json:"tax_rate,omitempty"`
	Notes    *string           `json:"notes,omitempty"`
	DueDate  *time.Time        `json:"due_date,omitempty"`
}

// Empty reports whether the update would change nothing.
func (r UpdateRequest) Empty() bool {
	return r.ClientID == nil && r.Items == nil && r.TaxRate == nil &&
		r.Notes == nil && r.DueDate == nil
}

// SortField selects the ordering column for invoice listings.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByNumber    SortField = "number"
	SortByTotal     SortField = "total"
	SortByDueDate   SortField = "due_date"
)

// ListOpts filters, sorts and paginates invoice listings within one
// organization.
type ListOpts struct {
	Status    Status      `json:"status,omitempty"`
	ClientID  id.ClientID `json:"client_id,omitempty"`
	SortBy    SortField   `json:"sort_by,omitempty"`
	Ascending bool        `json:"ascending,omitempty"`
	Page      int         `json:"page,omitempty"`
	Limit     int         `json:"limit,omitempty"`
}
