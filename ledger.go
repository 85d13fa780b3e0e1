package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paperledger/ledger/audit"
	"github.com/paperledger/ledger/client"
	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/invoice"
	"github.com/paperledger/ledger/organization"
	"github.com/paperledger/ledger/plugin"
	"github.com/paperledger/ledger/sequence"
	"github.com/paperledger/ledger/store"
	"github.com/paperledger/ledger/types"
)

// DefaultPageLimit is the page size used when a listing request does not
// specify one.
const DefaultPageLimit = 20

// Ledger is the main invoicing engine.
type Ledger struct {
	store     store.Store
	plugins   *plugin.Registry
	sequences *sequence.Allocator
	recorder  *audit.Recorder
	logger    *slog.Logger

	// Audit recorder configuration
	auditBufferSize   int
	auditWriteTimeout time.Duration
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:             s,
		plugins:           plugin.NewRegistry(),
		sequences:         sequence.NewAllocator(s),
		logger:            slog.Default(),
		auditBufferSize:   1000,
		auditWriteTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(l)
	}

	l.recorder = audit.NewRecorder(auditStoreAdapter{s},
		audit.WithRecorderLogger(l.logger),
		audit.WithRecorderBuffer(l.auditBufferSize),
		audit.WithRecorderWriteTimeout(l.auditWriteTimeout),
	)

	return l
}

// auditStoreAdapter narrows store.Store to the audit.Store contract.
type auditStoreAdapter struct {
	s store.Store
}

func (a auditStoreAdapter) Append(ctx context.Context, entry *audit.Entry) error {
	return a.s.AppendAuditEntry(ctx, entry)
}

func (a auditStoreAdapter) List(ctx context.Context, orgID id.OrganizationID, opts audit.ListOpts) ([]*audit.Entry, int64, error) {
	return a.s.ListAuditEntries(ctx, orgID, opts)
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithAuditConfig configures the asynchronous audit recorder.
func WithAuditConfig(bufferSize int, writeTimeout time.Duration) Option {
	return func(l *Ledger) {
		l.auditBufferSize = bufferSize
		l.auditWriteTimeout = writeTimeout
	}
}

// Start begins background workers.
func (l *Ledger) Start(ctx context.Context) error {
	// Migrate database
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	// Initialize plugins
	l.plugins.EmitInit(ctx, l)

	// Start audit writer
	l.recorder.Start()

	l.logger.Info("ledger started",
		"audit_buffer", l.auditBufferSize,
		"audit_timeout", l.auditWriteTimeout,
	)

	return nil
}

// Stop shuts down the Ledger, draining any buffered audit entries.
func (l *Ledger) Stop() error {
	l.recorder.Stop()

	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Actor context
// ──────────────────────────────────────────────────

type contextKey struct{ name string }

var (
	actorKey = contextKey{"actor"}
	metaKey  = contextKey{"request_meta"}
)

// WithActor returns a context carrying the acting user, recorded on
// every audit entry produced under that context.
func WithActor(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, actorKey, userID)
}

// ActorFromContext returns the acting user, or the nil ID for system
// operations.
func ActorFromContext(ctx context.Context) id.UserID {
	if v, ok := ctx.Value(actorKey).(id.UserID); ok {
		return v
	}
	return id.Nil
}

// WithRequestMeta returns a context carrying request provenance
// (endpoint, method, IP, user agent), stamped on every audit entry
// produced under that context. The transport layer sets this.
func WithRequestMeta(ctx context.Context, meta *audit.RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey, meta)
}

// RequestMetaFromContext returns the request provenance, or nil.
func RequestMetaFromContext(ctx context.Context) *audit.RequestMeta {
	if v, ok := ctx.Value(metaKey).(*audit.RequestMeta); ok {
		return v
	}
	return nil
}

// ──────────────────────────────────────────────────
// Organization Management
// ──────────────────────────────────────────────────

// CreateOrganization creates a new tenant organization.
func (l *Ledger) CreateOrganization(ctx context.Context, org *organization.Organization) error {
	if org.Name == "" {
		return ValidationError{Field: "name", Message: "is required"}
	}
	if org.ID.IsNil() {
		org.ID = id.NewOrganizationID()
	}
	org.Entity = types.NewEntity()
	org.ApplyDefaults()

	if err := l.store.CreateOrganization(ctx, org); err != nil {
		return err
	}

	l.logger.Info("organization created",
		"org_id", org.ID,
		"name", org.Name,
	)
	return nil
}

// GetOrganization fetches an organization by ID.
func (l *Ledger) GetOrganization(ctx context.Context, orgID id.OrganizationID) (*organization.Organization, error) {
	return l.store.GetOrganization(ctx, orgID)
}

// UpdateOrganization applies the given changes to an organization.
func (l *Ledger) UpdateOrganization(ctx context.Context, orgID id.OrganizationID, req organization.UpdateRequest) (*organization.Organization, error) {
	org, err := l.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ValidationError{Field: "name", Message: "cannot be empty"}
		}
		org.Name = *req.Name
	}
	if req.Billing != nil {
		org.Billing = *req.Billing
	}
	org.Touch()

	if err := l.store.UpdateOrganization(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// ──────────────────────────────────────────────────
// Client Management
// ──────────────────────────────────────────────────

// CreateClient creates a new billable client for an organization.
func (l *Ledger) CreateClient(ctx context.Context, c *client.Client) error {
	if c.OrgID.IsNil() {
		return ValidationError{Field: "org_id", Message: "is required"}
	}
	if c.Name == "" {
		return ValidationError{Field: "name", Message: "is required"}
	}
	if c.Email == "" {
		return ValidationError{Field: "email", Message: "is required"}
	}

	if _, err := l.store.GetOrganization(ctx, c.OrgID); err != nil {
		return err
	}

	if c.ID.IsNil() {
		c.ID = id.NewClientID()
	}
	c.Entity = types.NewEntity()
	c.Email = client.NormalizeEmail(c.Email)
	c.Active = true

	if err := l.store.CreateClient(ctx, c); err != nil {
		return err
	}

	l.recordAudit(ctx, c.OrgID, audit.ActionCreate, audit.TargetClient, c.ID, map[string]any{
		"name":  c.Name,
		"email": c.Email,
	})
	l.plugins.EmitClientCreated(ctx, c)

	l.logger.Info("client created",
		"org_id", c.OrgID,
		"client_id", c.ID,
	)
	return nil
}

// GetClient fetches a client within an organization.
func (l *Ledger) GetClient(ctx context.Context, orgID id.OrganizationID, clientID id.ClientID) (*client.Client, error) {
	return l.store.GetClient(ctx, orgID, clientID)
}

// ListClients lists an organization's clients.
func (l *Ledger) ListClients(ctx context.Context, orgID id.OrganizationID, opts client.ListOpts) ([]*client.Client, types.Pagination, error) {
	clients, total, err := l.store.ListClients(ctx, orgID, opts)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	return clients, types.NewPagination(total, opts.Page, opts.Limit, DefaultPageLimit), nil
}

// UpdateClient applies the given changes to a client.
func (l *Ledger) UpdateClient(ctx context.Context, orgID id.OrganizationID, clientID id.ClientID, req client.UpdateRequest) (*client.Client, error) {
	c, err := l.store.GetClient(ctx, orgID, clientID)
	if err != nil {
		return nil, err
	}
	before := *c

	changed := make([]string, 0)
	setString := func(field string, dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = append(changed, field)
		}
	}

	if req.Name != nil && *req.Name == "" {
		return nil, ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if req.Email != nil {
		normalized := client.NormalizeEmail(*req.Email)
		if normalized == "" {
			return nil, ValidationError{Field: "email", Message: "cannot be empty"}
		}
		req.Email = &normalized
	}

	setString("name", &c.Name, req.Name)
	setString("email", &c.Email, req.Email)
	setString("address", &c.Address, req.Address)
	setString("city", &c.City, req.City)
	setString("country", &c.Country, req.Country)
	setString("postal_code", &c.PostalCode, req.PostalCode)
	setString("tax_id", &c.TaxID, req.TaxID)
	setString("contact", &c.Contact, req.Contact)

	if len(changed) == 0 {
		return c, nil
	}
	c.Touch()

	if err := l.store.UpdateClient(ctx, c); err != nil {
		return nil, err
	}

	l.recordAudit(ctx, orgID, audit.ActionUpdate, audit.TargetClient, c.ID, map[string]any{
		"fields": changed,
	})
	l.plugins.EmitClientUpdated(ctx, &before, c)

	return c, nil
}

// DeactivateClient soft-deletes a client. Existing invoices keep their
// reference; the client stops appearing in default listings.
func (l *Ledger) DeactivateClient(ctx context.Context, orgID id.OrganizationID, clientID id.ClientID) error {
	c, err := l.store.GetClient(ctx, orgID, clientID)
	if err != nil {
		return err
	}
	if !c.Active {
		return nil
	}
	c.Active = false
	c.Touch()

	if err := l.store.UpdateClient(ctx, c); err != nil {
		return err
	}

	l.recordAudit(ctx, orgID, audit.ActionDelete, audit.TargetClient, c.ID, map[string]any{
		"email": c.Email,
	})
	l.plugins.EmitClientDeactivated(ctx, c)

	return nil
}

// ──────────────────────────────────────────────────
// Invoice Management
// ──────────────────────────────────────────────────

// CreateInvoice creates a draft invoice and assigns the next number from
// the organization's sequence. The consumed number is not reclaimed if a
// later step fails.
func (l *Ledger) CreateInvoice(ctx context.Context, orgID id.OrganizationID, req invoice.CreateRequest) (*invoice.Invoice, error) {
	if err := validateInvoiceItems(req.Items); err != nil {
		return nil, err
	}
	if !invoice.ValidTaxRate(req.TaxRate) {
		return nil, ErrInvalidTaxRate
	}

	org, err := l.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	c, err := l.store.GetClient(ctx, orgID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, ErrClientNotFound
	}

	currency := req.Currency
	if currency == "" {
		currency = org.Currency
	}

	number, err := l.sequences.Next(ctx, orgID)
	if err != nil {
		return nil, err
	}

	inv := &invoice.Invoice{
		Entity:   types.NewEntity(),
		ID:       id.NewInvoiceID(),
		OrgID:    orgID,
		ClientID: req.ClientID,
		Number:   number,
		Status:   invoice.StatusDraft,
		Items:    invoice.BuildItems(req.Items, currency),
		Currency: currency,
		TaxRate:  req.TaxRate,
		Notes:    req.Notes,
		DueDate:  req.DueDate,
	}
	inv.Recalculate()

	if err := l.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	l.recordAudit(ctx, orgID, audit.ActionCreate, audit.TargetInvoice, inv.ID, map[string]any{
		"number": inv.Number,
		"total":  inv.Total.Amount,
	})
	l.plugins.EmitInvoiceCreated(ctx, inv)

	l.logger.Info("invoice created",
		"org_id", orgID,
		"invoice_id", inv.ID,
		"number", inv.Number,
		"total", inv.Total,
	)
	return inv, nil
}

// GetInvoice fetches an invoice within an organization.
func (l *Ledger) GetInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	return l.store.GetInvoice(ctx, orgID, invoiceID)
}

// InvoiceDocument bundles an invoice with its client and the issuing
// organization, everything a document renderer needs in one read.
type InvoiceDocument struct {
	Invoice      *invoice.Invoice           `json:"invoice"`
	Client       *client.Client             `json:"client"`
	Organization *organization.Organization `json:"organization"`
}

// GetInvoiceDocument fetches an invoice together with its client and
// organization. The client is included even when deactivated: issued
// documents keep rendering.
func (l *Ledger) GetInvoiceDocument(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) (*InvoiceDocument, error) {
	inv, err := l.store.GetInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	c, err := l.store.GetClient(ctx, orgID, inv.ClientID)
	if err != nil {
		return nil, err
	}
	org, err := l.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &InvoiceDocument{Invoice: inv, Client: c, Organization: org}, nil
}

// ListInvoices lists an organization's invoices with filtering, sorting
// and pagination.
func (l *Ledger) ListInvoices(ctx context.Context, orgID id.OrganizationID, opts invoice.ListOpts) ([]*invoice.Invoice, types.Pagination, error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, types.Pagination{}, ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", opts.Status)}
	}
	switch opts.SortBy {
	case "", invoice.SortByCreatedAt, invoice.SortByNumber, invoice.SortByTotal, invoice.SortByDueDate:
	default:
		return nil, types.Pagination{}, ValidationError{Field: "sort_by", Message: fmt.Sprintf("unknown sort field %q", opts.SortBy)}
	}

	invoices, total, err := l.store.ListInvoices(ctx, orgID, opts)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	return invoices, types.NewPagination(total, opts.Page, opts.Limit, DefaultPageLimit), nil
}

// UpdateInvoice applies the given changes to a draft invoice and
// recomputes its totals. Invoices that have left draft are immutable.
func (l *Ledger) UpdateInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID, req invoice.UpdateRequest) (*invoice.Invoice, error) {
	inv, err := l.store.GetInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Mutable() {
		return nil, fmt.Errorf("%w: status is %s", ErrInvoiceNotDraft, inv.Status)
	}
	if req.Empty() {
		return inv, nil
	}
	before := *inv

	changed := make([]string, 0)
	if req.ClientID != nil && *req.ClientID != inv.ClientID {
		c, err := l.store.GetClient(ctx, orgID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if !c.Active {
			return nil, ErrClientNotFound
		}
		inv.ClientID = *req.ClientID
		changed = append(changed, "client_id")
	}
	if req.Items != nil {
		if err := validateInvoiceItems(req.Items); err != nil {
			return nil, err
		}
		inv.Items = invoice.BuildItems(req.Items, inv.Currency)
		changed = append(changed, "items")
	}
	if req.TaxRate != nil {
		if !invoice.ValidTaxRate(*req.TaxRate) {
			return nil, ErrInvalidTaxRate
		}
		inv.TaxRate = *req.TaxRate
		changed = append(changed, "tax_rate")
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
		changed = append(changed, "notes")
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
		changed = append(changed, "due_date")
	}

	inv.Recalculate()
	inv.Touch()

	if err := l.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	l.recordAudit(ctx, orgID, audit.ActionUpdate, audit.TargetInvoice, inv.ID, map[string]any{
		"number": inv.Number,
		"fields": changed,
	})
	l.plugins.EmitInvoiceUpdated(ctx, &before, inv)

	return inv, nil
}

// SendInvoice transitions a draft invoice to sent, freezing its content.
func (l *Ledger) SendInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	inv, err := l.store.GetInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkSent(time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, err)
	}
	inv.Touch()

	if err := l.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	l.recordAudit(ctx, orgID, audit.ActionSend, audit.TargetInvoice, inv.ID, map[string]any{
		"number": inv.Number,
	})
	l.plugins.EmitInvoiceSent(ctx, inv)

	l.logger.Info("invoice sent",
		"org_id", orgID,
		"invoice_id", inv.ID,
		"number", inv.Number,
	)
	return inv, nil
}

// MarkInvoicePaid transitions an invoice to the terminal paid state.
// Both draft and sent invoices accept payment.
func (l *Ledger) MarkInvoicePaid(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	inv, err := l.store.GetInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == invoice.StatusPaid {
		return nil, ErrInvoicePaid
	}
	if err := inv.MarkPaid(time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, err)
	}
	inv.Touch()

	if err := l.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	l.recordAudit(ctx, orgID, audit.ActionMarkPaid, audit.TargetInvoice, inv.ID, map[string]any{
		"number": inv.Number,
		"total":  inv.Total.Amount,
	})
	l.plugins.EmitInvoicePaid(ctx, inv)

	l.logger.Info("invoice paid",
		"org_id", orgID,
		"invoice_id", inv.ID,
		"number", inv.Number,
	)
	return inv, nil
}

// DeleteInvoice removes a draft invoice. Sent and paid invoices are part
// of the financial record and cannot be deleted. The invoice's number is
// not reused.
func (l *Ledger) DeleteInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) error {
	inv, err := l.store.GetInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return err
	}
	if !inv.Deletable() {
		if inv.Status == invoice.StatusPaid {
			return ErrInvoicePaid
		}
		return fmt.Errorf("%w: status is %s", ErrInvoiceNotDraft, inv.Status)
	}

	if err := l.store.DeleteInvoice(ctx, orgID, invoiceID); err != nil {
		return err
	}

	l.recordAudit(ctx, orgID, audit.ActionDelete, audit.TargetInvoice, inv.ID, map[string]any{
		"number": inv.Number,
	})
	l.plugins.EmitInvoiceDeleted(ctx, inv)

	return nil
}

// ──────────────────────────────────────────────────
// Audit Trail
// ──────────────────────────────────────────────────

// ListAuditLog lists an organization's audit entries, newest first.
func (l *Ledger) ListAuditLog(ctx context.Context, orgID id.OrganizationID, opts audit.ListOpts) ([]*audit.Entry, types.Pagination, error) {
	entries, total, err := l.store.ListAuditEntries(ctx, orgID, opts)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	return entries, types.NewPagination(total, opts.Page, opts.Limit, DefaultPageLimit), nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// recordAudit enqueues an audit entry. Recording is best-effort and
// never fails the calling operation.
func (l *Ledger) recordAudit(ctx context.Context, orgID id.OrganizationID, action audit.Action, targetType audit.TargetType, targetID id.ID, changes map[string]any) {
	l.recorder.Record(&audit.Entry{
		ID:         id.NewAuditEntryID(),
		OrgID:      orgID,
		ActorID:    ActorFromContext(ctx),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Changes:    changes,
		Metadata:   RequestMetaFromContext(ctx),
		CreatedAt:  time.Now().UTC(),
	})
}

func validateInvoiceItems(items []invoice.LineItemRequest) error {
	if len(items) == 0 {
		return ErrNoLineItems
	}
	for i, item := range items {
		if item.Description == "" {
			return ValidationError{Field: fmt.Sprintf("items[%d].description", i), Message: "is required"}
		}
		if item.Quantity <= 0 {
			return ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be positive"}
		}
		if item.UnitPrice < 0 {
			return ValidationError{Field: fmt.Sprintf("items[%d].unit_price", i), Message: "cannot be negative"}
		}
	}
	return nil
}
