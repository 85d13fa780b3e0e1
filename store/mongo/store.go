// Package mongo implements store.Store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	ledger "github.com/paperledger/ledger"
	"github.com/paperledger/ledger/audit"
	"github.com/paperledger/ledger/client"
	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/invoice"
	"github.com/paperledger/ledger/organization"
	ledgerstore "github.com/paperledger/ledger/store"
)

// Collection name constants.
const (
	colOrganizations = "ledger_organizations"
	colClients       = "ledger_clients"
	colInvoices      = "ledger_invoices"
	colAuditLog      = "ledger_audit_log"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB.
type Store struct {
	db *mongo.Database
}

// New creates a new MongoDB store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// DB returns the underlying database for direct access.
func (s *Store) DB() *mongo.Database { return s.db }

// Migrate creates indexes for all ledger collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		_, err := s.db.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("ledger/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colClients: {
			{
				Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "name", Value: 1}}},
		},
		colInvoices: {
			{
				Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "number", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "client_id", Value: 1}}},
		},
		colAuditLog: {
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "target_id", Value: 1}}},
		},
	}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Client().Disconnect(context.Background())
}

// ==================== Organization Store ====================

func (s *Store) CreateOrganization(ctx context.Context, org *organization.Organization) error {
	_, err := s.db.Collection(colOrganizations).InsertOne(ctx, toOrgModel(org))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ledger.ErrAlreadyExists
		}
		return fmt.Errorf("ledger/mongo: create organization: %w", err)
	}
	return nil
}

func (s *Store) GetOrganization(ctx context.Context, orgID id.OrganizationID) (*organization.Organization, error) {
	var m orgModel
	err := s.db.Collection(colOrganizations).
		FindOne(ctx, bson.M{"_id": orgID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ledger.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("ledger/mongo: get organization: %w", err)
	}
	return fromOrgModel(&m)
}

func (s *Store) UpdateOrganization(ctx context.Context, org *organization.Organization) error {
	m := toOrgModel(org)
	m.Version = org.Version + 1

	// The counter advances only through IncrementInvoiceSequence, so the
	// replacement must not carry a possibly stale seq_next.
	res, err := s.db.Collection(colOrganizations).UpdateOne(ctx,
		bson.M{"_id": m.ID, "version": org.Version},
		bson.M{"$set": bson.M{
			"name":        m.Name,
			"address":     m.Address,
			"city":        m.City,
			"country":     m.Country,
			"postal_code": m.PostalCode,
			"tax_id":      m.TaxID,
			"seq_prefix":  m.SeqPrefix,
			"currency":    m.Currency,
			"timezone":    m.Timezone,
			"version":     m.Version,
			"updated_at":  m.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("ledger/mongo: update organization: %w", err)
	}
	if res.MatchedCount == 0 {
		return s.resolveWriteMiss(ctx, colOrganizations, m.ID, ledger.ErrOrganizationNotFound)
	}
	org.Version = m.Version
	return nil
}

func (s *Store) IncrementInvoiceSequence(ctx context.Context, orgID id.OrganizationID) (string, int64, error) {
	var m struct {
		SeqPrefix string `bson:"seq_prefix"`
		SeqNext   int64  `bson:"seq_next"`
	}
	err := s.db.Collection(colOrganizations).
		FindOneAndUpdate(ctx,
			bson.M{"_id": orgID.String()},
			bson.M{"$inc": bson.M{"seq_next": 1}},
			options.FindOneAndUpdate().
				SetReturnDocument(options.Before).
				SetProjection(bson.M{"seq_prefix": 1, "seq_next": 1}),
		).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return "", 0, ledger.ErrOrganizationNotFound
		}
		return "", 0, fmt.Errorf("ledger/mongo: increment invoice sequence: %w", err)
	}
	return m.SeqPrefix, m.SeqNext, nil
}

// ==================== Client Store ====================

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	_, err := s.db.Collection(colClients).InsertOne(ctx, toClientModel(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ledger.ErrDuplicateClientEmail
		}
		return fmt.Errorf("ledger/mongo: create client: %w", err)
	}
	return nil
}

func (s *Store) GetClient(ctx context.Context, orgID id.OrganizationID, clientID id.ClientID) (*client.Client, error) {
	var m clientModel
	err := s.db.Collection(colClients).
		FindOne(ctx, bson.M{"_id": clientID.String(), "org_id": orgID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ledger.ErrClientNotFound
		}
		return nil, fmt.Errorf("ledger/mongo: get client: %w", err)
	}
	return fromClientModel(&m)
}

func (s *Store) FindClientByEmail(ctx context.Context, orgID id.OrganizationID, email string) (*client.Client, error) {
	var m clientModel
	err := s.db.Collection(colClients).
		FindOne(ctx, bson.M{"org_id": orgID.String(), "email": email}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ledger.ErrClientNotFound
		}
		return nil, fmt.Errorf("ledger/mongo: find client by email: %w", err)
	}
	return fromClientModel(&m)
}

func (s *Store) ListClients(ctx context.Context, orgID id.OrganizationID, opts client.ListOpts) ([]*client.Client, int64, error) {
	filter := bson.M{"org_id": orgID.String()}
	if !opts.IncludeInactive {
		filter["active"] = true
	}
	if opts.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": opts.Search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": opts.Search, "$options": "i"}},
		}
	}

	col := s.db.Collection(colClients)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger/mongo: count clients: %w", err)
	}

	skip, limit := pageArgs(opts.Page, opts.Limit)
	cursor, err := col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger/mongo: list clients: %w", err)
	}

	var models []clientModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, 0, fmt.Errorf("ledger/mongo: list clients: %w", err)
	}

	result := make([]*client.Client, len(models))
	for i := range models {
		c, err := fromClientModel(&models[i])
		if err != nil {
			return nil, 0, err
		}
		result[i] = c
	}
	return result, total, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	m := toClientModel(c)
	m.Version = c.Version + 1

	res, err := s.db.Collection(colClients).ReplaceOne(ctx,
		bson.M{"_id": m.ID, "org_id": m.OrgID, "version": c.Version},
		m,
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ledger.ErrDuplicateClientEmail
		}
		return fmt.Errorf("ledger/mongo: update client: %w", err)
	}
	if res.MatchedCount == 0 {
		return s.resolveWriteMiss(ctx, colClients, m.ID, ledger.ErrClientNotFound)
	}
	c.Version = m.Version
	return nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	_, err := s.db.Collection(colInvoices).InsertOne(ctx, toInvoiceModel(inv))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ledger.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("ledger/mongo: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	var m invoiceModel
	err := s.db.Collection(colInvoices).
		FindOne(ctx, bson.M{"_id": invoiceID.String(), "org_id": orgID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ledger.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("ledger/mongo: get invoice: %w", err)
	}
	return fromInvoiceModel(&m)
}

func (s *Store) ListInvoices(ctx context.Context, orgID id.OrganizationID, opts invoice.ListOpts) ([]*invoice.Invoice, int64, error) {
	filter := bson.M{"org_id": orgID.String()}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.ClientID.IsNil() {
		filter["client_id"] = opts.ClientID.String()
	}

	col := s.db.Collection(colInvoices)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger/mongo: count invoices: %w", err)
	}

	skip, limit := pageArgs(opts.Page, opts.Limit)
	cursor, err := col.Find(ctx, filter, options.Find().
		SetSort(invoiceSort(opts.SortBy, opts.Ascending)).
		SetSkip(skip).
		SetLimit(limit),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger/mongo: list invoices: %w", err)
	}

	var models []invoiceModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, 0, fmt.Errorf("ledger/mongo: list invoices: %w", err)
	}

	result := make([]*invoice.Invoice, len(models))
	for i := range models {
		inv, err := fromInvoiceModel(&models[i])
		if err != nil {
			return nil, 0, err
		}
		result[i] = inv
	}
	return result, total, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	m.Version = inv.Version + 1

	res, err := s.db.Collection(colInvoices).ReplaceOne(ctx,
		bson.M{"_id": m.ID, "org_id": m.OrgID, "version": inv.Version},
		m,
	)
	if err != nil {
		return fmt.Errorf("ledger/mongo: update invoice: %w", err)
	}
	if res.MatchedCount == 0 {
		return s.resolveWriteMiss(ctx, colInvoices, m.ID, ledger.ErrInvoiceNotFound)
	}
	inv.Version = m.Version
	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, orgID id.OrganizationID, invoiceID id.InvoiceID) error {
	res, err := s.db.Collection(colInvoices).DeleteOne(ctx,
		bson.M{"_id": invoiceID.String(), "org_id": orgID.String()},
	)
	if err != nil {
		return fmt.Errorf("ledger/mongo: delete invoice: %w", err)
	}
	if res.DeletedCount == 0 {
		return ledger.ErrInvoiceNotFound
	}
	return nil
}

// ==================== Audit Store ====================

func (s *Store) AppendAuditEntry(ctx context.Context, entry *audit.Entry) error {
	_, err := s.db.Collection(colAuditLog).InsertOne(ctx, toAuditModel(entry))
	if err != nil {
		return fmt.Errorf("ledger/mongo: append audit entry: %w", err)
	}
	return nil
}

func (s *Store) ListAuditEntries(ctx context.Context, orgID id.OrganizationID, opts audit.ListOpts) ([]*audit.Entry, int64, error) {
	filter := bson.M{"org_id": orgID.String()}
	if opts.Action != "" {
		filter["action"] = string(opts.Action)
	}
	if opts.TargetType != "" {
		filter["target_type"] = string(opts.TargetType)
	}
	if !opts.TargetID.IsNil() {
		filter["target_id"] = opts.TargetID.String()
	}
	if !opts.ActorID.IsNil() {
		filter["actor_id"] = opts.ActorID.String()
	}

	col := s.db.Collection(colAuditLog)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger/mongo: count audit entries: %w", err)
	}

	skip, limit := pageArgs(opts.Page, opts.Limit)
	cursor, err := col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger/mongo: list audit entries: %w", err)
	}

	var models []auditModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, 0, fmt.Errorf("ledger/mongo: list audit entries: %w", err)
	}

	result := make([]*audit.Entry, len(models))
	for i := range models {
		entry, err := fromAuditModel(&models[i])
		if err != nil {
			return nil, 0, err
		}
		result[i] = entry
	}
	return result, total, nil
}

// ==================== Helpers ====================

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// resolveWriteMiss distinguishes a version conflict from a missing
// document after a zero-match conditional write.
func (s *Store) resolveWriteMiss(ctx context.Context, col, docID string, notFound error) error {
	err := s.db.Collection(col).
		FindOne(ctx, bson.M{"_id": docID}, options.FindOne().SetProjection(bson.M{"_id": 1})).
		Err()
	if err != nil {
		if isNoDocuments(err) {
			return notFound
		}
		return fmt.Errorf("ledger/mongo: resolve write miss: %w", err)
	}
	return ledger.ErrVersionConflict
}

func pageArgs(pageNum, limit int) (int64, int64) {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 {
		limit = ledger.DefaultPageLimit
	}
	return int64((pageNum - 1) * limit), int64(limit)
}

func invoiceSort(by invoice.SortField, ascending bool) bson.D {
	key := "created_at"
	switch by {
	case invoice.SortByNumber:
		key = "number"
	case invoice.SortByTotal:
		key = "total"
	case invoice.SortByDueDate:
		key = "due_date"
	}
	dir := -1
	if ascending {
		dir = 1
	}
	return bson.D{{Key: key, Value: dir}}
}
