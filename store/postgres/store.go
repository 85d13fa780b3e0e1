// Package postgres implements store.Store on PostgreSQL using pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	ledger "github.com/paperledger/ledger"
	"github.com/paperledger/ledger/audit"
	"github.com/paperledger/ledger/client"
	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/invoice"
	"github.com/paperledger/ledger/organization"
	ledgerstore "github.com/paperledger/ledger/store"
	"github.com/paperledger/ledger/types"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL store over the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool returns the underlying connection pool for direct access.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Migrate creates the required tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ledger/postgres: migration %d failed: %w", i, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ==================== Organization Store ====================

func (s *Store) CreateOrganization(ctx context.Context, org *organization.Organization) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO ledger_organizations
    (id, name, address, city, country, postal_code, tax_id, seq_prefix, seq_next, currency, timezone, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		org.ID.String(), org.Name,
		org.Billing.Address, org.Billing.City, org.Billing.Country, org.Billing.PostalCode, org.Billing.TaxID,
		org.Sequence.Prefix, org.Sequence.NextNumber,
		org.Currency, org.Timezone, org.Version, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrAlreadyExists
		}
		return fmt.Errorf("ledger/postgres: create organization: %w", err)
	}
	return nil
}

func (s *Store) GetOrganization(ctx context.Context, orgID id.OrganizationID) (*organization.Organization, error) {
	row := s.pool.QueryRow(ctx, `
SELECT id, name, address, city, country, postal_code, tax_id, seq_prefix, seq_next, currency, timezone, version, created_at, updated_at
FROM ledger_organizations
WHERE id = $1`, orgID.String())

	org, err := scanOrganization(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("ledger/postgres: get organization: %w", err)
	}
	return org, nil
}

func (s *Store) UpdateOrganization(ctx context.Context, org *organization.Organization) error {
	// seq_next is deliberately absent: the counter advances only through
	// IncrementInvoiceSequence.
	tag, err := s.pool.Exec(ctx, `
UPDATE ledger_organizations
SET name = $1, address = $2, city = $3, country = $4, postal_code = $5, tax_id = $6,
    seq_prefix = $7, currency = $8, timezone = $9, version = version + 1, updated_at = $10
WHERE id = $11 AND version = $12`,
		org.Name,
		org.Billing.Address, org.Billing.City, org.Billing.Country, org.Billing.PostalCode, org.Billing.TaxID,
		org.Sequence.Prefix, org.Currency, org.Timezone, org.UpdatedAt,
		org.ID.String(), org.Version,
	)
	if err != nil {
		return fmt.Errorf("ledger/postgres: update organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.resolveWriteMiss(ctx, "ledger_organizations", org.ID.String(), ledger.ErrOrganizationNotFound)
	}
	org.Version++
	return nil
}

func (s *Store) IncrementInvoiceSequence(ctx context.Context, orgID id.OrganizationID) (string, int64, error) {
	var prefix string
	var next int64
	err := s.pool.QueryRow(ctx, `
UPDATE ledger_organizations
SET seq_next = seq_next + 1
WHERE id = $1
RETURNING seq_prefix, seq_next - 1`, orgID.String()).Scan(&prefix, &next)
	if err != nil {
		if isNoRows(err) {
			return "", 0, ledger.ErrOrganizationNotFound
		}
		return "", 0, fmt.Errorf("ledger/postgres: increment invoice sequence: %w", err)
	}
	return prefix, next, nil
}

// ==================== Client Store ====================

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO ledger_clients
    (id, org_id, name, email, address, city, country, postal_code, tax_id, contact, active, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID.String(), c.OrgID.String(), c.Name, c.Email,
		c.Address, c.City, c.Country, c.PostalCode, c.TaxID, c.Contact,
		c.Active, c.Version, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrDuplicateClientEmail
		}
		return fmt.Errorf("ledger/postgres: create client: %w", err)
	}
	return nil
}

func (s *Store) GetClient(ctx context.Context, orgID id.OrganizationID, clientID id.ClientID) (*client.Client, error) {
	row := s.pool.QueryRow(ctx, clientSelect+` WHERE id = $1 AND org_id = $2`,
		clientID.String(), orgID.String())

	c, err := scanClient(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrClientNotFound
		}
		return nil, fmt.Errorf("ledger/postgres: get client: %w", err)
	}
	return c, nil
}

func (s *Store) FindClientByEmail(ctx context.Context, orgID id.OrganizationID, email string) (*client.Client, error) {
	row := s.pool.QueryRow(ctx, clientSelect+` WHERE org_id = $1 AND email = $2`,
		orgID.String(), email)

	c, err := scanClient(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrClientNotFound
		}
		return nil, fmt.Errorf("ledger/postgres: find client by email: %w", err)
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context, orgID id.OrganizationID, opts client.ListOpts) ([]*client.Client, int64, error) {
	where := ` WHERE org_id = $1`
	args := []any{orgID.String()}
	if !opts.IncludeInactive {
		where += ` AND active`
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d)`, len(args), len(args))
	}

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_clients`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ledger/postgres: count clients: %w", err)
	}

	offset, limit := pageArgs(opts.Page, opts.Limit)
	args = append(args, limit, offset)
	rows, err := s.pool.Query(ctx,
		clientSelect+where+fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger/postgres: list clients: %w", err)
	}
	defer rows.Close()

	result := make([]*client.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ledger/postgres: list clients: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ledger/postgres: list clients: %w", err)
	}
	return result, total, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE ledger_clients
SET name = $1, email = $2, address = $3, city = $4, country = $5, postal_code = $6,
    tax_id = $7, contact = $8, active = $9, version = version + 1, updated_at = $10
WHERE id = $11 AND org_id = $12 AND version = $13`,
		c.Name, c.Email, c.Address, c.City, c.Country, c.PostalCode,
		c.TaxID, c.Contact, c.Active, c.UpdatedAt,
		c.ID.String(), c.OrgID.String(), c.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrDuplicateClientEmail
		}
		return fmt.Errorf("ledger/postgres: update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.resolveWriteMiss(ctx, "ledger_clients", c.ID.String(), ledger.ErrClientNotFound)
	}
	c.Version++
	return nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	items, err := marshalItems(inv.Items)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
INSERT INTO ledger_invoices
    (id, org_id, client_id, number, status, items, currency, tax_rate, subtotal, tax, total, notes, due_date, sent_at, paid_at, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		inv.ID.String(), inv.OrgID.String(), inv.ClientID.String(),
		inv.Number, string(inv.Status), items, inv.Currency, inv.TaxRate.String(),
		inv.Subtotal.Amount, inv.Tax.Amount, inv.Total.Amount,
		inv.Notes, inv.DueDate, inv.SentAt, inv.PaidAt,
		inv.Version, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("ledger/postgres: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	row := s.pool.QueryRow(ctx, invoiceSelect+` WHERE id = $1 AND org_id = $2`,
		invoiceID.String(), orgID.String())

	inv, err := scanInvoice(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ledger.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("ledger/postgres: get invoice: %w", err)
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, orgID id.OrganizationID, opts invoice.ListOpts) ([]*invoice.Invoice, int64, error) {
	where := ` WHERE org_id = $1`
	args := []any{orgID.String()}
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if !opts.ClientID.IsNil() {
		args = append(args, opts.ClientID.String())
		where += fmt.Sprintf(` AND client_id = $%d`, len(args))
	}

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ledger/postgres: count invoices: %w", err)
	}

	offset, limit := pageArgs(opts.Page, opts.Limit)
	args = append(args, limit, offset)
	rows, err := s.pool.Query(ctx,
		invoiceSelect+where+invoiceOrder(opts.SortBy, opts.Ascending)+
			fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger/postgres: list invoices: %w", err)
	}
	defer rows.Close()

	result := make([]*invoice.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ledger/postgres: list invoices: %w", err)
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ledger/postgres: list invoices: %w", err)
	}
	return result, total, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	items, err := marshalItems(inv.Items)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
UPDATE ledger_invoices
SET client_id = $1, status = $2, items = $3, tax_rate = $4, subtotal = $5, tax = $6, total = $7,
    notes = $8, due_date = $9, sent_at = $10, paid_at = $11, version = version + 1, updated_at = $12
WHERE id = $13 AND org_id = $14 AND version = $15`,
		inv.ClientID.String(), string(inv.Status), items, inv.TaxRate.String(),
		inv.Subtotal.Amount, inv.Tax.Amount, inv.Total.Amount,
		inv.Notes, inv.DueDate, inv.SentAt, inv.PaidAt, inv.UpdatedAt,
		inv.ID.String(), inv.OrgID.String(), inv.Version,
	)
	if err != nil {
		return fmt.Errorf("ledger/postgres: update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.resolveWriteMiss(ctx, "ledger_invoices", inv.ID.String(), ledger.ErrInvoiceNotFound)
	}
	inv.Version++
	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) error {
	tag, err := s.pool.Exec(ctx, `
DELETE FROM ledger_invoices WHERE id = $1 AND org_id = $2`,
		invoiceID.String(), orgID.String())
	if err != nil {
		return fmt.Errorf("ledger/postgres: delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrInvoiceNotFound
	}
	return nil
}

// ==================== Audit Store ====================

func (s *Store) AppendAuditEntry(ctx context.Context, entry *audit.Entry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("ledger/postgres: marshal audit changes: %w", err)
	}
	var metadata []byte
	if entry.Metadata != nil {
		if metadata, err = json.Marshal(entry.Metadata); err != nil {
			return fmt.Errorf("ledger/postgres: marshal audit metadata: %w", err)
		}
	}

	_, err = s.pool.Exec(ctx, `
INSERT INTO ledger_audit_log
    (id, org_id, actor_id, action, target_type, target_id, changes, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID.String(), entry.OrgID.String(), entry.ActorID.String(),
		string(entry.Action), string(entry.TargetType), entry.TargetID.String(),
		changes, metadata, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ledger/postgres: append audit entry: %w", err)
	}
	return nil
}

func (s *Store) ListAuditEntries(ctx context.Context, orgID id.OrganizationID, opts audit.ListOpts) ([]*audit.Entry, int64, error) {
	where := ` WHERE org_id = $1`
	args := []any{orgID.String()}
	if opts.Action != "" {
		args = append(args, string(opts.Action))
		where += fmt.Sprintf(` AND action = $%d`, len(args))
	}
	if opts.TargetType != "" {
		args = append(args, string(opts.TargetType))
		where += fmt.Sprintf(` AND target_type = $%d`, len(args))
	}
	if !opts.TargetID.IsNil() {
		args = append(args, opts.TargetID.String())
		where += fmt.Sprintf(` AND target_id = $%d`, len(args))
	}
	if !opts.ActorID.IsNil() {
		args = append(args, opts.ActorID.String())
		where += fmt.Sprintf(` AND actor_id = $%d`, len(args))
	}

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ledger/postgres: count audit entries: %w", err)
	}

	offset, limit := pageArgs(opts.Page, opts.Limit)
	args = append(args, limit, offset)
	rows, err := s.pool.Query(ctx, `
SELECT id, org_id, actor_id, action, target_type, target_id, changes, metadata, created_at
FROM ledger_audit_log`+where+
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger/postgres: list audit entries: %w", err)
	}
	defer rows.Close()

	result := make([]*audit.Entry, 0)
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ledger/postgres: list audit entries: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ledger/postgres: list audit entries: %w", err)
	}
	return result, total, nil
}

// ==================== Row scanning ====================

const clientSelect = `
SELECT id, org_id, name, email, address, city, country, postal_code, tax_id, contact, active, version, created_at, updated_at
FROM ledger_clients`

const invoiceSelect = `
SELECT id, org_id, client_id, number, status, items, currency, tax_rate, subtotal, tax, total, notes, due_date, sent_at, paid_at, version, created_at, updated_at
FROM ledger_invoices`

func scanOrganization(row pgx.Row) (*organization.Organization, error) {
	var org organization.Organization
	var rawID string
	err := row.Scan(&rawID, &org.Name,
		&org.Billing.Address, &org.Billing.City, &org.Billing.Country, &org.Billing.PostalCode, &org.Billing.TaxID,
		&org.Sequence.Prefix, &org.Sequence.NextNumber,
		&org.Currency, &org.Timezone, &org.Version, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if org.ID, err = id.ParseOrganizationID(rawID); err != nil {
		return nil, err
	}
	return &org, nil
}

func scanClient(row pgx.Row) (*client.Client, error) {
	var c client.Client
	var rawID, rawOrgID string
	err := row.Scan(&rawID, &rawOrgID, &c.Name, &c.Email,
		&c.Address, &c.City, &c.Country, &c.PostalCode, &c.TaxID, &c.Contact,
		&c.Active, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.ID, err = id.ParseClientID(rawID); err != nil {
		return nil, err
	}
	if c.OrgID, err = id.ParseOrganizationID(rawOrgID); err != nil {
		return nil, err
	}
	return &c, nil
}

// itemRow is the JSONB shape of a stored line item.
type itemRow struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
}

func marshalItems(items []invoice.LineItem) ([]byte, error) {
	rows := make([]itemRow, len(items))
	for i, item := range items {
		rows[i] = itemRow{
			ID:          item.ID.String(),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount,
			LineTotal:   item.LineTotal.Amount,
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("ledger/postgres: marshal line items: %w", err)
	}
	return data, nil
}

func scanInvoice(row pgx.Row) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	var rawID, rawOrgID, rawClientID, status, taxRate string
	var items []byte
	err := row.Scan(&rawID, &rawOrgID, &rawClientID, &inv.Number, &status,
		&items, &inv.Currency, &taxRate,
		&inv.Subtotal.Amount, &inv.Tax.Amount, &inv.Total.Amount,
		&inv.Notes, &inv.DueDate, &inv.SentAt, &inv.PaidAt,
		&inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if inv.ID, err = id.ParseInvoiceID(rawID); err != nil {
		return nil, err
	}
	if inv.OrgID, err = id.ParseOrganizationID(rawOrgID); err != nil {
		return nil, err
	}
	if inv.ClientID, err = id.ParseClientID(rawClientID); err != nil {
		return nil, err
	}
	inv.Status = invoice.Status(status)
	if inv.TaxRate, err = decimal.NewFromString(taxRate); err != nil {
		return nil, fmt.Errorf("parse tax rate %q: %w", taxRate, err)
	}
	inv.Subtotal.Currency = inv.Currency
	inv.Tax.Currency = inv.Currency
	inv.Total.Currency = inv.Currency

	var itemRows []itemRow
	if err := json.Unmarshal(items, &itemRows); err != nil {
		return nil, fmt.Errorf("unmarshal line items: %w", err)
	}
	inv.Items = make([]invoice.LineItem, len(itemRows))
	for i, r := range itemRows {
		itemID, err := id.ParseLineItemID(r.ID)
		if err != nil {
			return nil, err
		}
		inv.Items[i] = invoice.LineItem{
			ID:          itemID,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   types.Minor(r.UnitPrice, inv.Currency),
			LineTotal:   types.Minor(r.LineTotal, inv.Currency),
		}
	}
	return &inv, nil
}

func scanAuditEntry(row pgx.Row) (*audit.Entry, error) {
	var entry audit.Entry
	var rawID, rawOrgID, rawActorID, action, targetType, rawTargetID string
	var changes, metadata []byte
	err := row.Scan(&rawID, &rawOrgID, &rawActorID, &action, &targetType, &rawTargetID,
		&changes, &metadata, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	if entry.ID, err = id.ParseAuditEntryID(rawID); err != nil {
		return nil, err
	}
	if entry.OrgID, err = id.ParseOrganizationID(rawOrgID); err != nil {
		return nil, err
	}
	if rawActorID != "" {
		if entry.ActorID, err = id.ParseUserID(rawActorID); err != nil {
			return nil, err
		}
	}
	if rawTargetID != "" {
		if entry.TargetID, err = id.ParseAny(rawTargetID); err != nil {
			return nil, err
		}
	}
	entry.Action = audit.Action(action)
	entry.TargetType = audit.TargetType(targetType)
	if len(changes) > 0 {
		if err := json.Unmarshal(changes, &entry.Changes); err != nil {
			return nil, fmt.Errorf("unmarshal audit changes: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal audit metadata: %w", err)
		}
	}
	return &entry, nil
}

// ==================== Helpers ====================

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// resolveWriteMiss distinguishes a version conflict from a missing row
// after a zero-row conditional write.
func (s *Store) resolveWriteMiss(ctx context.Context, table, rowID string, notFound error) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, rowID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ledger/postgres: resolve write miss: %w", err)
	}
	if !exists {
		return notFound
	}
	return ledger.ErrVersionConflict
}

func pageArgs(pageNum, limit int) (int, int) {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 {
		limit = ledger.DefaultPageLimit
	}
	return (pageNum - 1) * limit, limit
}

func invoiceOrder(by invoice.SortField, ascending bool) string {
	col := "created_at"
	switch by {
	case invoice.SortByNumber:
		col = "number"
	case invoice.SortByTotal:
		col = "total"
	case invoice.SortByDueDate:
		col = "due_date"
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	return fmt.Sprintf(` ORDER BY %s %s`, col, dir)
}
