package invoice

import (
	"context"

	"github.com/paperledger/ledger/id"
)

// Store is the persistence contract for invoices. All lookups are
// scoped by organization. Update performs an optimistic-concurrency
// check against the entity version recorded when the invoice was read;
// a version mismatch is reported as a conflict.
type Store interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) (*Invoice, error)
	List(ctx context.Context, orgID id.OrganizationID, opts ListOpts) ([]*Invoice, int64, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) error
}
