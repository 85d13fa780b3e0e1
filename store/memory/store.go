// Package memory provides an in-memory Store for tests and local
// development. All entities are copied on the way in and out so callers
// never share memory with the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/paperledger/ledger"
	"github.com/paperledger/ledger/audit"
	"github.com/paperledger/ledger/client"
	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/invoice"
	"github.com/paperledger/ledger/organization"
)

type Store struct {
	mu sync.RWMutex

	// Organization storage
	orgs map[string]*organization.Organization

	// Client storage
	clients map[string]*client.Client

	// Invoice storage
	invoices map[string]*invoice.Invoice

	// Audit storage, append-only
	auditEntries []*audit.Entry

	closed bool
}

func New() *Store {
	return &Store{
		orgs:         make(map[string]*organization.Organization),
		clients:      make(map[string]*client.Client),
		invoices:     make(map[string]*invoice.Invoice),
		auditEntries: make([]*audit.Entry, 0),
	}
}

// Organization Store implementation

func (s *Store) CreateOrganization(_ context.Context, org *organization.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ledger.ErrStoreClosed
	}
	if _, exists := s.orgs[org.ID.String()]; exists {
		return ledger.ErrAlreadyExists
	}
	s.orgs[org.ID.String()] = cloneOrganization(org)
	return nil
}

func (s *Store) GetOrganization(_ context.Context, orgID id.OrganizationID) (*organization.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if org, ok := s.orgs[orgID.String()]; ok {
		return cloneOrganization(org), nil
	}
	return nil, ledger.ErrOrganizationNotFound
}

func (s *Store) UpdateOrganization(_ context.Context, org *organization.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.orgs[org.ID.String()]
	if !exists {
		return ledger.ErrOrganizationNotFound
	}
	if stored.Version != org.Version {
		return ledger.ErrVersionConflict
	}
	org.Version++
	// Counter advances through IncrementInvoiceSequence only; a stale
	// in-memory copy must not roll it back.
	org.Sequence.NextNumber = stored.Sequence.NextNumber
	s.orgs[org.ID.String()] = cloneOrganization(org)
	return nil
}

func (s *Store) IncrementInvoiceSequence(_ context.Context, orgID id.OrganizationID) (string, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.orgs[orgID.String()]
	if !ok {
		return "", 0, ledger.ErrOrganizationNotFound
	}
	number := org.Sequence.NextNumber
	org.Sequence.NextNumber++
	return org.Sequence.Prefix, number, nil
}

// Client Store implementation

func (s *Store) CreateClient(_ context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[c.ID.String()]; exists {
		return ledger.ErrAlreadyExists
	}
	for _, existing := range s.clients {
		if existing.OrgID == c.OrgID && existing.Email == c.Email {
			return ledger.ErrDuplicateClientEmail
		}
	}
	s.clients[c.ID.String()] = cloneClient(c)
	return nil
}

func (s *Store) GetClient(_ context.Context, orgID id.OrganizationID, clientID id.ClientID) (*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.clients[clientID.String()]; ok && c.OrgID == orgID {
		return cloneClient(c), nil
	}
	return nil, ledger.ErrClientNotFound
}

func (s *Store) FindClientByEmail(_ context.Context, orgID id.OrganizationID, email string) (*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients {
		if c.OrgID == orgID && c.Email == email {
			return cloneClient(c), nil
		}
	}
	return nil, ledger.ErrClientNotFound
}

func (s *Store) ListClients(_ context.Context, orgID id.OrganizationID, opts client.ListOpts) ([]*client.Client, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(opts.Search)
	result := make([]*client.Client, 0)
	for _, c := range s.clients {
		if c.OrgID != orgID {
			continue
		}
		if !opts.IncludeInactive && !c.Active {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(c.Email, search) {
			continue
		}
		result = append(result, cloneClient(c))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	total := int64(len(result))
	return page(result, opts.Page, opts.Limit), total, nil
}

func (s *Store) UpdateClient(_ context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.clients[c.ID.String()]
	if !exists || stored.OrgID != c.OrgID {
		return ledger.ErrClientNotFound
	}
	if stored.Version != c.Version {
		return ledger.ErrVersionConflict
	}
	for _, existing := range s.clients {
		if existing.OrgID == c.OrgID && existing.Email == c.Email && existing.ID != c.ID {
			return ledger.ErrDuplicateClientEmail
		}
	}
	c.Version++
	s.clients[c.ID.String()] = cloneClient(c)
	return nil
}

// Invoice Store implementation

func (s *Store) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID.String()]; exists {
		return ledger.ErrAlreadyExists
	}
	for _, existing := range s.invoices {
		if existing.OrgID == inv.OrgID && existing.Number == inv.Number {
			return ledger.ErrDuplicateInvoiceNumber
		}
	}
	s.invoices[inv.ID.String()] = cloneInvoice(inv)
	return nil
}

func (s *Store) GetInvoice(_ context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[invoiceID.String()]; ok && inv.OrgID == orgID {
		return cloneInvoice(inv), nil
	}
	return nil, ledger.ErrInvoiceNotFound
}

func (s *Store) ListInvoices(_ context.Context, orgID id.OrganizationID, opts invoice.ListOpts) ([]*invoice.Invoice, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*invoice.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.OrgID != orgID {
			continue
		}
		if opts.Status != "" && inv.Status != opts.Status {
			continue
		}
		if !opts.ClientID.IsNil() && inv.ClientID != opts.ClientID {
			continue
		}
		result = append(result, cloneInvoice(inv))
	}

	sortInvoices(result, opts.SortBy, opts.Ascending)

	total := int64(len(result))
	return page(result, opts.Page, opts.Limit), total, nil
}

func (s *Store) UpdateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.invoices[inv.ID.String()]
	if !exists || stored.OrgID != inv.OrgID {
		return ledger.ErrInvoiceNotFound
	}
	if stored.Version != inv.Version {
		return ledger.ErrVersionConflict
	}
	inv.Version++
	s.invoices[inv.ID.String()] = cloneInvoice(inv)
	return nil
}

func (s *Store) DeleteInvoice(_ context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv, ok := s.invoices[invoiceID.String()]; !ok || inv.OrgID != orgID {
		return ledger.ErrInvoiceNotFound
	}
	delete(s.invoices, invoiceID.String())
	return nil
}

// Audit Store implementation

func (s *Store) AppendAuditEntry(_ context.Context, entry *audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ledger.ErrStoreClosed
	}
	s.auditEntries = append(s.auditEntries, cloneEntry(entry))
	return nil
}

func (s *Store) ListAuditEntries(_ context.Context, orgID id.OrganizationID, opts audit.ListOpts) ([]*audit.Entry, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*audit.Entry, 0)
	for _, entry := range s.auditEntries {
		if entry.OrgID != orgID {
			continue
		}
		if opts.Action != "" && entry.Action != opts.Action {
			continue
		}
		if opts.TargetType != "" && entry.TargetType != opts.TargetType {
			continue
		}
		if !opts.TargetID.IsNil() && entry.TargetID != opts.TargetID {
			continue
		}
		if !opts.ActorID.IsNil() && entry.ActorID != opts.ActorID {
			continue
		}
		result = append(result, cloneEntry(entry))
	}

	// Newest first
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	total := int64(len(result))
	return page(result, opts.Page, opts.Limit), total, nil
}

// Core methods

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ledger.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Helpers

func sortInvoices(invs []*invoice.Invoice, by invoice.SortField, ascending bool) {
	less := func(i, j int) bool {
		a, b := invs[i], invs[j]
		switch by {
		case invoice.SortByNumber:
			return a.Number < b.Number
		case invoice.SortByTotal:
			return a.Total.Amount < b.Total.Amount
		case invoice.SortByDueDate:
			// Invoices without a due date sort after dated ones
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	if ascending {
		sort.SliceStable(invs, less)
	} else {
		sort.SliceStable(invs, func(i, j int) bool { return less(j, i) })
	}
}

func page[T any](items []T, pageNum, limit int) []T {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 {
		limit = ledger.DefaultPageLimit
	}
	start := (pageNum - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func cloneOrganization(org *organization.Organization) *organization.Organization {
	dup := *org
	return &dup
}

func cloneClient(c *client.Client) *client.Client {
	dup := *c
	return &dup
}

func cloneInvoice(inv *invoice.Invoice) *invoice.Invoice {
	dup := *inv
	dup.Items = make([]invoice.LineItem, len(inv.Items))
	copy(dup.Items, inv.Items)
	return &dup
}

func cloneEntry(entry *audit.Entry) *audit.Entry {
	dup := *entry
	if entry.Changes != nil {
		dup.Changes = make(map[string]any, len(entry.Changes))
		for k, v := range entry.Changes {
			dup.Changes[k] = v
		}
	}
	if entry.Metadata != nil {
		meta := *entry.Metadata
		dup.Metadata = &meta
	}
	return &dup
}
