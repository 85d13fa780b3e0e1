package audit

import (
	"context"

	"github.com/paperledger/ledger/id"
)

// Store is the persistence contract for audit entries. Entries are
// append-only; there is no update or delete.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, orgID id.OrganizationID, opts ListOpts) ([]*Entry, int64, error)
}
