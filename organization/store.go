package organization

import (
	"context"

	"github.com/paperledger/ledger/id"
)

// Store is the persistence contract for organizations.
type Store interface {
	Create(ctx context.Context, org *Organization) error
	Get(ctx context.Context, orgID id.OrganizationID) (*Organization, error)
	Update(ctx context.Context, org *Organization) error

	// IncrementInvoiceSequence atomically fetches the sequence prefix and
	// current next-number, and advances the counter by one, as a single
	// unit against the backing store. Two concurrent calls for the same
	// organization must never observe the same number.
	IncrementInvoiceSequence(ctx context.Context, orgID id.OrganizationID) (prefix string, number int64, err error)
}
