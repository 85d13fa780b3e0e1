// Package sequence allocates gap-tolerant, strictly increasing invoice
// numbers per organization.
//
// Allocation delegates to the backing store's atomic increment so that
// concurrent allocations for the same organization never collide, even
// across multiple processes sharing one database. Numbers consumed by
// failed invoice creations are not reclaimed; gaps are acceptable,
// duplicates are not.
package sequence

import (
	"context"
	"fmt"

	"github.com/paperledger/ledger/id"
)

// Counter is the minimal store capability the allocator needs: an
// atomic fetch-and-increment of an organization's invoice counter.
type Counter interface {
	IncrementInvoiceSequence(ctx context.Context, orgID id.OrganizationID) (prefix string, number int64, err error)
}

// Allocator produces formatted invoice numbers.
type Allocator struct {
	counter Counter
}

// NewAllocator creates an allocator over the given counter.
func NewAllocator(counter Counter) *Allocator {
	return &Allocator{counter: counter}
}

// Next reserves the next invoice number for the organization and
// returns it formatted as "{prefix}-{number}", e.g. "INV-1042". The
// reservation is permanent: the number stays consumed even if the
// caller's invoice creation fails afterwards.
func (a *Allocator) Next(ctx context.Context, orgID id.OrganizationID) (string, error) {
	prefix, number, err := a.counter.IncrementInvoiceSequence(ctx, orgID)
	if err != nil {
		return "", fmt.Errorf("sequence: allocate for %s: %w", orgID, err)
	}
	return Format(prefix, number), nil
}

// Format renders a prefix and number as an invoice number string.
func Format(prefix string, number int64) string {
	return fmt.Sprintf("%s-%d", prefix, number)
}
