package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperledger/ledger/audit"
	"github.com/paperledger/ledger/client"
	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/invoice"
	"github.com/paperledger/ledger/organization"
	"github.com/paperledger/ledger/types"
)

// ==================== Organization models ====================

type orgModel struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Address    string    `bson:"address,omitempty"`
	City       string    `bson:"city,omitempty"`
	Country    string    `bson:"country,omitempty"`
	PostalCode string    `bson:"postal_code,omitempty"`
	TaxID      string    `bson:"tax_id,omitempty"`
	SeqPrefix  string    `bson:"seq_prefix"`
	SeqNext    int64     `bson:"seq_next"`
	Currency   string    `bson:"currency"`
	Timezone   string    `bson:"timezone"`
	Version    int64     `bson:"version"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func toOrgModel(org *organization.Organization) *orgModel {
	return &orgModel{
		ID:         org.ID.String(),
		Name:       org.Name,
		Address:    org.Billing.Address,
		City:       org.Billing.City,
		Country:    org.Billing.Country,
		PostalCode: org.Billing.PostalCode,
		TaxID:      org.Billing.TaxID,
		SeqPrefix:  org.Sequence.Prefix,
		SeqNext:    org.Sequence.NextNumber,
		Currency:   org.Currency,
		Timezone:   org.Timezone,
		Version:    org.Version,
		CreatedAt:  org.CreatedAt,
		UpdatedAt:  org.UpdatedAt,
	}
}

func fromOrgModel(m *orgModel) (*organization.Organization, error) {
	orgID, err := id.ParseOrganizationID(m.ID)
	if err != nil {
		return nil, err
	}

	return &organization.Organization{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Version:   m.Version,
		},
		ID:   orgID,
		Name: m.Name,
		Billing: organization.BillingProfile{
			Address:    m.Address,
			City:       m.City,
			Country:    m.Country,
			PostalCode: m.PostalCode,
			TaxID:      m.TaxID,
		},
		Sequence: organization.SequenceSettings{
			Prefix:     m.SeqPrefix,
			NextNumber: m.SeqNext,
		},
		Currency: m.Currency,
		Timezone: m.Timezone,
	}, nil
}

// ==================== Client models ====================

type clientModel struct {
	ID         string    `bson:"_id"`
	OrgID      string    `bson:"org_id"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email"`
	Address    string    `bson:"address,omitempty"`
	City       string    `bson:"city,omitempty"`
	Country    string    `bson:"country,omitempty"`
	PostalCode string    `bson:"postal_code,omitempty"`
	TaxID      string    `bson:"tax_id,omitempty"`
	Contact    string    `bson:"contact,omitempty"`
	Active     bool      `bson:"active"`
	Version    int64     `bson:"version"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func toClientModel(c *client.Client) *clientModel {
	return &clientModel{
		ID:         c.ID.String(),
		OrgID:      c.OrgID.String(),
		Name:       c.Name,
		Email:      c.Email,
		Address:    c.Address,
		City:       c.City,
		Country:    c.Country,
		PostalCode: c.PostalCode,
		TaxID:      c.TaxID,
		Contact:    c.Contact,
		Active:     c.Active,
		Version:    c.Version,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func fromClientModel(m *clientModel) (*client.Client, error) {
	clientID, err := id.ParseClientID(m.ID)
	if err != nil {
		return nil, err
	}
	orgID, err := id.ParseOrganizationID(m.OrgID)
	if err != nil {
		return nil, err
	}

	return &client.Client{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Version:   m.Version,
		},
		ID:         clientID,
		OrgID:      orgID,
		Name:       m.Name,
		Email:      m.Email,
		Address:    m.Address,
		City:       m.City,
		Country:    m.Country,
		PostalCode: m.PostalCode,
		TaxID:      m.TaxID,
		Contact:    m.Contact,
		Active:     m.Active,
	}, nil
}

// ==================== Invoice models ====================

type invoiceModel struct {
	ID        string          `bson:"_id"`
	OrgID     string          `bson:"org_id"`
	ClientID  string          `bson:"client_id"`
	Number    string          `bson:"number"`
	Status    string          `bson:"status"`
	Items     []lineItemModel `bson:"items"`
	Currency  string          `bson:"currency"`
	TaxRate   string          `bson:"tax_rate"` // decimal stored as string, never float
	Subtotal  int64           `bson:"subtotal"`
	Tax       int64           `bson:"tax"`
	Total     int64           `bson:"total"`
	Notes     string          `bson:"notes,omitempty"`
	DueDate   *time.Time      `bson:"due_date,omitempty"`
	SentAt    *time.Time      `bson:"sent_at,omitempty"`
	PaidAt    *time.Time      `bson:"paid_at,omitempty"`
	Version   int64           `bson:"version"`
	CreatedAt time.Time       `bson:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

type lineItemModel struct {
	ID          string `bson:"id"`
	Description string `bson:"description"`
	Quantity    int64  `bson:"quantity"`
	UnitPrice   int64  `bson:"unit_price"`
	LineTotal   int64  `bson:"line_total"`
}

func toInvoiceModel(inv *invoice.Invoice) *invoiceModel {
	items := make([]lineItemModel, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = lineItemModel{
			ID:          item.ID.String(),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount,
			LineTotal:   item.LineTotal.Amount,
		}
	}

	return &invoiceModel{
		ID:        inv.ID.String(),
		OrgID:     inv.OrgID.String(),
		ClientID:  inv.ClientID.String(),
		Number:    inv.Number,
		Status:    string(inv.Status),
		Items:     items,
		Currency:  inv.Currency,
		TaxRate:   inv.TaxRate.String(),
		Subtotal:  inv.Subtotal.Amount,
		Tax:       inv.Tax.Amount,
		Total:     inv.Total.Amount,
		Notes:     inv.Notes,
		DueDate:   inv.DueDate,
		SentAt:    inv.SentAt,
		PaidAt:    inv.PaidAt,
		Version:   inv.Version,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	invoiceID, err := id.ParseInvoiceID(m.ID)
	if err != nil {
		return nil, err
	}
	orgID, err := id.ParseOrganizationID(m.OrgID)
	if err != nil {
		return nil, err
	}
	clientID, err := id.ParseClientID(m.ClientID)
	if err != nil {
		return nil, err
	}
	taxRate, err := decimal.NewFromString(m.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("ledger/mongo: parse tax rate %q: %w", m.TaxRate, err)
	}

	items := make([]invoice.LineItem, len(m.Items))
	for i, item := range m.Items {
		itemID, err := id.ParseLineItemID(item.ID)
		if err != nil {
			return nil, err
		}
		items[i] = invoice.LineItem{
			ID:          itemID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   types.Minor(item.UnitPrice, m.Currency),
			LineTotal:   types.Minor(item.LineTotal, m.Currency),
		}
	}

	return &invoice.Invoice{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Version:   m.Version,
		},
		ID:       invoiceID,
		OrgID:    orgID,
		ClientID: clientID,
		Number:   m.Number,
		Status:   invoice.Status(m.Status),
		Items:    items,
		Currency: m.Currency,
		TaxRate:  taxRate,
		Subtotal: types.Minor(m.Subtotal, m.Currency),
		Tax:      types.Minor(m.Tax, m.Currency),
		Total:    types.Minor(m.Total, m.Currency),
		Notes:    m.Notes,
		DueDate:  m.DueDate,
		SentAt:   m.SentAt,
		PaidAt:   m.PaidAt,
	}, nil
}

// ==================== Audit models ====================

type auditModel struct {
	ID         string          `bson:"_id"`
	OrgID      string          `bson:"org_id"`
	ActorID    string          `bson:"actor_id,omitempty"`
	Action     string          `bson:"action"`
	TargetType string          `bson:"target_type"`
	TargetID   string          `bson:"target_id"`
	Changes    map[string]any  `bson:"changes,omitempty"`
	Metadata   *auditMetaModel `bson:"metadata,omitempty"`
	CreatedAt  time.Time       `bson:"created_at"`
}

type auditMetaModel struct {
	Endpoint  string `bson:"endpoint,omitempty"`
	Method    string `bson:"method,omitempty"`
	IPAddress string `bson:"ip_address,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`
}

func toAuditModel(entry *audit.Entry) *auditModel {
	m := &auditModel{
		ID:         entry.ID.String(),
		OrgID:      entry.OrgID.String(),
		ActorID:    entry.ActorID.String(),
		Action:     string(entry.Action),
		TargetType: string(entry.TargetType),
		TargetID:   entry.TargetID.String(),
		Changes:    entry.Changes,
		CreatedAt:  entry.CreatedAt,
	}
	if entry.Metadata != nil {
		m.Metadata = &auditMetaModel{
			Endpoint:  entry.Metadata.Endpoint,
			Method:    entry.Metadata.Method,
			IPAddress: entry.Metadata.IPAddress,
			UserAgent: entry.Metadata.UserAgent,
		}
	}
	return m
}

func fromAuditModel(m *auditModel) (*audit.Entry, error) {
	entryID, err := id.ParseAuditEntryID(m.ID)
	if err != nil {
		return nil, err
	}
	orgID, err := id.ParseOrganizationID(m.OrgID)
	if err != nil {
		return nil, err
	}

	entry := &audit.Entry{
		ID:         entryID,
		OrgID:      orgID,
		Action:     audit.Action(m.Action),
		TargetType: audit.TargetType(m.TargetType),
		Changes:    m.Changes,
		CreatedAt:  m.CreatedAt,
	}
	if m.Metadata != nil {
		entry.Metadata = &audit.RequestMeta{
			Endpoint:  m.Metadata.Endpoint,
			Method:    m.Metadata.Method,
			IPAddress: m.Metadata.IPAddress,
			UserAgent: m.Metadata.UserAgent,
		}
	}
	if m.ActorID != "" {
		actorID, err := id.ParseUserID(m.ActorID)
		if err != nil {
			return nil, err
		}
		entry.ActorID = actorID
	}
	if m.TargetID != "" {
		targetID, err := id.ParseAny(m.TargetID)
		if err != nil {
			return nil, err
		}
		entry.TargetID = targetID
	}
	return entry, nil
}
