// Package client defines the billable parties an organization invoices.
package client

import (
	"strings"

	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/types"
)

// Client is a billable party scoped to one organization. Invoices
// reference clients by identifier only, so invoice totals stay stable
// when client details change later.
type Client struct {
	types.Entity
	ID         id.ClientID       `json:"id"`
	OrgID      id.OrganizationID `json:"org_id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"` // lowercase; unique per organization
	Address    string            `json:"address,omitempty"`
	City       string            `json:"city,omitempty"`
	Country    string            `json:"country,omitempty"`
	PostalCode string            `json:"postal_code,omitempty"`
	TaxID      string            `json:"tax_id,omitempty"`
	Contact    string            `json:"contact,omitempty"`
	Active     bool              `json:"active"`
}

// NormalizeEmail lowercases and trims an email for use as the
// per-organization uniqueness key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UpdateRequest enumerates the client fields a caller may change.
// Nil pointers leave the field untouched.
type UpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	Country    *string `json:"country,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	TaxID      *string `json:"tax_id,omitempty"`
	Contact    *string `json:"contact,omitempty"`
}

// ListOpts filters and paginates client listings. Search matches name or
// email, case-insensitively. Only active clients are returned unless
// IncludeInactive is set.
type ListOpts struct {
	Search          string
	IncludeInactive bool
	Page            int
	Limit           int
}
