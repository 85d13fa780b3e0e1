package ledger

import "github.com/paperledger/ledger/id"

// ID is the primary identifier type for all Ledger entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
