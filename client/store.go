package client

import (
	"context"

	"github.com/paperledger/ledger/id"
)

// Store is the persistence contract for clients. All lookups are scoped
// by organization; a client belonging to another tenant is reported as
// absent, never as forbidden.
type Store interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, orgID id.OrganizationID, clientID id.ClientID) (*Client, error)
	FindByEmail(ctx context.Context, orgID id.OrganizationID, email string) (*Client, error)
	List(ctx context.Context, orgID id.OrganizationID, opts ListOpts) ([]*Client, int64, error)
	Update(ctx context.Context, c *Client) error
}
