// Package organization defines the tenant root entity.
//
// Every other entity in the ledger is scoped to exactly one organization.
// The organization also owns the invoice-number sequence for its tenancy;
// the sequence counter is mutated only through the store's atomic
// increment primitive, never by direct field assignment.
package organization

import (
	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/types"
)

// Organization is the tenant root.
type Organization struct {
	types.Entity
	ID       id.OrganizationID `json:"id"`
	Name     string            `json:"name"`
	Billing  BillingProfile    `json:"billing"`
	Sequence SequenceSettings  `json:"sequence"`
	Currency string            `json:"currency"`
	Timezone string            `json:"timezone"`
}

// BillingProfile carries the organization's own billing details,
// printed on outgoing invoices by the document renderer.
type BillingProfile struct {
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	TaxID      string `json:"tax_id,omitempty"`
}

// SequenceSettings holds the per-organization invoice number sequence.
// NextNumber is the number the next allocation will return; it must be
// read-modify-written atomically by the backing store.
type SequenceSettings struct {
	Prefix     string `json:"prefix"`
	NextNumber int64  `json:"next_number"`
}

// Sequence defaults applied when an organization is created without
// explicit settings.
const (
	DefaultPrefix     = "INV"
	DefaultNextNumber = 1000
	DefaultCurrency   = "usd"
	DefaultTimezone   = "UTC"
)

// ApplyDefaults fills zero-valued sequence and locale settings.
func (o *Organization) ApplyDefaults() {
	if o.Sequence.Prefix == "" {
		o.Sequence.Prefix = DefaultPrefix
	}
	if o.Sequence.NextNumber == 0 {
		o.Sequence.NextNumber = DefaultNextNumber
	}
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	if o.Timezone == "" {
		o.Timezone = DefaultTimezone
	}
}

// UpdateRequest enumerates the organization fields a caller may change.
// The sequence counter is deliberately absent: it is owned by the
// sequence allocator.
type UpdateRequest struct {
	Name    *string         `json:"name,omitempty"`
	Billing *BillingProfile `json:"billing,omitempty"`
}
