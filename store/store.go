// Package store defines the unified persistence interface for the ledger
// and is implemented by the memory, mongo and postgres backends.
package store

import (
	"context"

	"github.com/paperledger/ledger/audit"
	"github.com/paperledger/ledger/client"
	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/invoice"
	"github.com/paperledger/ledger/organization"
)

// Store is the unified storage interface for all Ledger entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Organization methods
	CreateOrganization(ctx context.Context, org *organization.Organization) error
	GetOrganization(ctx context.Context, orgID id.OrganizationID) (*organization.Organization, error)
	UpdateOrganization(ctx context.Context, org *organization.Organization) error

	// IncrementInvoiceSequence atomically reads and advances the
	// organization's invoice counter. Concurrent calls for one
	// organization must never return the same number.
	IncrementInvoiceSequence(ctx context.Context, orgID id.OrganizationID) (prefix string, number int64, err error)

	// Client methods
	CreateClient(ctx context.Context, c *client.Client) error
	GetClient(ctx context.Context, orgID id.OrganizationID, clientID id.ClientID) (*client.Client, error)
	FindClientByEmail(ctx context.Context, orgID id.OrganizationID, email string) (*client.Client, error)
	ListClients(ctx context.Context, orgID id.OrganizationID, opts client.ListOpts) ([]*client.Client, int64, error)
	UpdateClient(ctx context.Context, c *client.Client) error

	// Invoice methods. UpdateInvoice checks the entity version recorded
	// at read time and reports a conflict on mismatch.
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) error
	GetInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) (*invoice.Invoice, error)
	ListInvoices(ctx context.Context, orgID id.OrganizationID, opts invoice.ListOpts) ([]*invoice.Invoice, int64, error)
	UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error
	DeleteInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) error

	// Audit methods. Entries are append-only.
	AppendAuditEntry(ctx context.Context, entry *audit.Entry) error
	ListAuditEntries(ctx context.Context, orgID id.OrganizationID, opts audit.ListOpts) ([]*audit.Entry, int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
