package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/paperledger/ledger"
	"github.com/paperledger/ledger/audit"
	"github.com/paperledger/ledger/client"
	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/invoice"
	"github.com/paperledger/ledger/organization"
	"github.com/paperledger/ledger/store/memory"
)

func newTestLedger(t *testing.T) (*ledger.Ledger, context.Context) {
	t.Helper()

	l := ledger.New(memory.New())
	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return l, ctx
}

func seedOrg(t *testing.T, l *ledger.Ledger, ctx context.Context) *organization.Organization {
	t.Helper()

	org := &organization.Organization{Name: "Acme Corp"}
	if err := l.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	return org
}

func seedClient(t *testing.T, l *ledger.Ledger, ctx context.Context, orgID id.OrganizationID, email string) *client.Client {
	t.Helper()

	c := &client.Client{OrgID: orgID, Name: "Globex", Email: email}
	if err := l.CreateClient(ctx, c); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	return c
}

func draftInvoice(t *testing.T, l *ledger.Ledger, ctx context.Context, orgID id.OrganizationID, clientID id.ClientID) *invoice.Invoice {
	t.Helper()

	inv, err := l.CreateInvoice(ctx, orgID, invoice.CreateRequest{
		ClientID: clientID,
		Items: []invoice.LineItemRequest{
			{Description: "Design work", Quantity: 2, UnitPrice: 10000},
			{Description: "Development", Quantity: 5, UnitPrice: 8000},
		},
		TaxRate: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	return inv
}

func TestOrganizationDefaults(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	if org.Sequence.Prefix != "INV" {
		t.Errorf("Prefix: got %q, want INV", org.Sequence.Prefix)
	}
	if org.Sequence.NextNumber != 1000 {
		t.Errorf("NextNumber: got %d, want 1000", org.Sequence.NextNumber)
	}
	if org.Currency != "usd" {
		t.Errorf("Currency: got %q, want usd", org.Currency)
	}
}

func TestCreateInvoice(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "billing@globex.test")
	inv := draftInvoice(t, l, ctx, org.ID, c.ID)

	if inv.Number != "INV-1000" {
		t.Errorf("Number: got %q, want INV-1000", inv.Number)
	}
	if inv.Status != invoice.StatusDraft {
		t.Errorf("Status: got %s, want draft", inv.Status)
	}
	if inv.Subtotal.Amount != 60000 || inv.Tax.Amount != 6000 || inv.Total.Amount != 66000 {
		t.Errorf("totals: got %d/%d/%d, want 60000/6000/66000",
			inv.Subtotal.Amount, inv.Tax.Amount, inv.Total.Amount)
	}
	if inv.Total.String() != "$660.00" {
		t.Errorf("display total: got %s, want $660.00", inv.Total)
	}

	// Numbers advance per organization.
	second := draftInvoice(t, l, ctx, org.ID, c.ID)
	if second.Number != "INV-1001" {
		t.Errorf("second Number: got %q, want INV-1001", second.Number)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "billing@globex.test")

	tests := []struct {
		name  string
		req   invoice.CreateRequest
		check func(error) bool
	}{
		{
			name:  "no items",
			req:   invoice.CreateRequest{ClientID: c.ID, TaxRate: decimal.NewFromInt(10)},
			check: ledger.IsValidation,
		},
		{
			name: "zero quantity",
			req: invoice.CreateRequest{
				ClientID: c.ID,
				Items:    []invoice.LineItemRequest{{Description: "x", Quantity: 0, UnitPrice: 100}},
				TaxRate:  decimal.NewFromInt(10),
			},
			check: ledger.IsValidation,
		},
		{
			name: "missing description",
			req: invoice.CreateRequest{
				ClientID: c.ID,
				Items:    []invoice.LineItemRequest{{Quantity: 1, UnitPrice: 100}},
				TaxRate:  decimal.NewFromInt(10),
			},
			check: ledger.IsValidation,
		},
		{
			name: "tax rate over 100",
			req: invoice.CreateRequest{
				ClientID: c.ID,
				Items:    []invoice.LineItemRequest{{Description: "x", Quantity: 1, UnitPrice: 100}},
				TaxRate:  decimal.NewFromInt(150),
			},
			check: ledger.IsValidation,
		},
		{
			name: "unknown client",
			req: invoice.CreateRequest{
				ClientID: id.NewClientID(),
				Items:    []invoice.LineItemRequest{{Description: "x", Quantity: 1, UnitPrice: 100}},
				TaxRate:  decimal.NewFromInt(10),
			},
			check: ledger.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CreateInvoice(ctx, org.ID, tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error kind: %v", err)
			}
		})
	}
}

func TestFailedCreateConsumesNumber(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "billing@globex.test")

	first := draftInvoice(t, l, ctx, org.ID, c.ID)
	if first.Number != "INV-1000" {
		t.Fatalf("Number: got %q", first.Number)
	}

	// Validation failures happen before allocation, so the next number
	// is unaffected by them.
	_, err := l.CreateInvoice(ctx, org.ID, invoice.CreateRequest{ClientID: c.ID})
	if err == nil {
		t.Fatal("expected validation error")
	}

	second := draftInvoice(t, l, ctx, org.ID, c.ID)
	if second.Number != "INV-1001" {
		t.Errorf("Number: got %q, want INV-1001", second.Number)
	}
}

func TestUpdateInvoice(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "billing@globex.test")
	inv := draftInvoice(t, l, ctx, org.ID, c.ID)

	newRate := decimal.NewFromInt(20)
	updated, err := l.UpdateInvoice(ctx, org.ID, inv.ID, invoice.UpdateRequest{
		Items: []invoice.LineItemRequest{
			{Description: "Consulting", Quantity: 1, UnitPrice: 50000},
		},
		TaxRate: &newRate,
	})
	if err != nil {
		t.Fatalf("UpdateInvoice: %v", err)
	}
	if updated.Subtotal.Amount != 50000 || updated.Tax.Amount != 10000 || updated.Total.Amount != 60000 {
		t.Errorf("totals: got %d/%d/%d, want 50000/10000/60000",
			updated.Subtotal.Amount, updated.Tax.Amount, updated.Total.Amount)
	}
	if updated.Number != inv.Number {
		t.Errorf("Number changed on update: %q -> %q", inv.Number, updated.Number)
	}

	// Empty update is a no-op.
	same, err := l.UpdateInvoice(ctx, org.ID, inv.ID, invoice.UpdateRequest{})
	if err != nil {
		t.Fatalf("empty UpdateInvoice: %v", err)
	}
	if same.Total.Amount != 60000 {
		t.Errorf("no-op update changed totals: %d", same.Total.Amount)
	}
}

func TestSentInvoiceIsFrozen(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "billing@globex.test")
	inv := draftInvoice(t, l, ctx, org.ID, c.ID)

	sent, err := l.SendInvoice(ctx, org.ID, inv.ID)
	if err != nil {
		t.Fatalf("SendInvoice: %v", err)
	}
	if sent.Status != invoice.StatusSent || sent.SentAt == nil {
		t.Fatalf("got status %s, sentAt %v", sent.Status, sent.SentAt)
	}

	_, err = l.UpdateInvoice(ctx, org.ID, inv.ID, invoice.UpdateRequest{
		Items: []invoice.LineItemRequest{{Description: "x", Quantity: 1, UnitPrice: 1}},
	})
	if !ledger.IsInvalidOperation(err) {
		t.Errorf("updating a sent invoice: got %v, want invalid operation", err)
	}

	_, err = l.SendInvoice(ctx, org.ID, inv.ID)
	if !ledger.IsInvalidOperation(err) {
		t.Errorf("re-sending: got %v, want invalid operation", err)
	}
}

func TestMarkInvoicePaid(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "billing@globex.test")

	t.Run("from sent", func(t *testing.T) {
		inv := draftInvoice(t, l, ctx, org.ID, c.ID)
		if _, err := l.SendInvoice(ctx, org.ID, inv.ID); err != nil {
			t.Fatalf("SendInvoice: %v", err)
		}
		paid, err := l.MarkInvoicePaid(ctx, org.ID, inv.ID)
		if err != nil {
			t.Fatalf("MarkInvoicePaid: %v", err)
		}
		if paid.Status != invoice.StatusPaid || paid.PaidAt == nil {
			t.Errorf("got status %s, paidAt %v", paid.Status, paid.PaidAt)
		}
	})

	t.Run("from draft", func(t *testing.T) {
		inv := draftInvoice(t, l, ctx, org.ID, c.ID)
		paid, err := l.MarkInvoicePaid(ctx, org.ID, inv.ID)
		if err != nil {
			t.Fatalf("MarkInvoicePaid from draft: %v", err)
		}
		if paid.Status != invoice.StatusPaid {
			t.Errorf("Status: got %s, want paid", paid.Status)
		}
	})

	t.Run("paid is terminal", func(t *testing.T) {
		inv := draftInvoice(t, l, ctx, org.ID, c.ID)
		if _, err := l.MarkInvoicePaid(ctx, org.ID, inv.ID); err != nil {
			t.Fatalf("MarkInvoicePaid: %v", err)
		}
		if _, err := l.MarkInvoicePaid(ctx, org.ID, inv.ID); !ledger.IsInvalidOperation(err) {
			t.Errorf("re-paying: got %v, want invalid operation", err)
		}
		if _, err := l.SendInvoice(ctx, org.ID, inv.ID); !ledger.IsInvalidOperation(err) {
			t.Errorf("sending paid: got %v, want invalid operation", err)
		}
		if err := l.DeleteInvoice(ctx, org.ID, inv.ID); !ledger.IsInvalidOperation(err) {
			t.Errorf("deleting paid: got %v, want invalid operation", err)
		}
	})
}

func TestDeleteInvoice(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "billing@globex.test")
	inv := draftInvoice(t, l, ctx, org.ID, c.ID)

	if err := l.DeleteInvoice(ctx, org.ID, inv.ID); err != nil {
		t.Fatalf("DeleteInvoice: %v", err)
	}
	if _, err := l.GetInvoice(ctx, org.ID, inv.ID); !ledger.IsNotFound(err) {
		t.Errorf("deleted invoice still readable: %v", err)
	}

	// The deleted invoice's number stays consumed.
	next := draftInvoice(t, l, ctx, org.ID, c.ID)
	if next.Number != "INV-1001" {
		t.Errorf("Number after delete: got %q, want INV-1001", next.Number)
	}

	// Sent invoices cannot be deleted.
	sent := draftInvoice(t, l, ctx, org.ID, c.ID)
	if _, err := l.SendInvoice(ctx, org.ID, sent.ID); err != nil {
		t.Fatalf("SendInvoice: %v", err)
	}
	if err := l.DeleteInvoice(ctx, org.ID, sent.ID); !ledger.IsInvalidOperation(err) {
		t.Errorf("deleting sent invoice: got %v, want invalid operation", err)
	}
}

func TestListInvoices(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	alpha := seedClient(t, l, ctx, org.ID, "alpha@globex.test")
	beta := seedClient(t, l, ctx, org.ID, "beta@globex.test")

	for i := 0; i < 3; i++ {
		draftInvoice(t, l, ctx, org.ID, alpha.ID)
	}
	sent := draftInvoice(t, l, ctx, org.ID, beta.ID)
	if _, err := l.SendInvoice(ctx, org.ID, sent.ID); err != nil {
		t.Fatalf("SendInvoice: %v", err)
	}

	t.Run("all", func(t *testing.T) {
		invoices, page, err := l.ListInvoices(ctx, org.ID, invoice.ListOpts{})
		if err != nil {
			t.Fatalf("ListInvoices: %v", err)
		}
		if len(invoices) != 4 || page.Total != 4 {
			t.Errorf("got %d invoices, total %d, want 4", len(invoices), page.Total)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		invoices, _, err := l.ListInvoices(ctx, org.ID, invoice.ListOpts{Status: invoice.StatusSent})
		if err != nil {
			t.Fatalf("ListInvoices: %v", err)
		}
		if len(invoices) != 1 || invoices[0].ID != sent.ID {
			t.Errorf("status filter returned %d invoices", len(invoices))
		}
	})

	t.Run("filter by client", func(t *testing.T) {
		invoices, _, err := l.ListInvoices(ctx, org.ID, invoice.ListOpts{ClientID: alpha.ID})
		if err != nil {
			t.Fatalf("ListInvoices: %v", err)
		}
		if len(invoices) != 3 {
			t.Errorf("client filter: got %d invoices, want 3", len(invoices))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		invoices, page, err := l.ListInvoices(ctx, org.ID, invoice.ListOpts{Page: 2, Limit: 3})
		if err != nil {
			t.Fatalf("ListInvoices: %v", err)
		}
		if len(invoices) != 1 {
			t.Errorf("page 2: got %d invoices, want 1", len(invoices))
		}
		if page.Pages != 2 || page.Total != 4 {
			t.Errorf("pagination: got %+v", page)
		}
	})

	t.Run("sort by number ascending", func(t *testing.T) {
		invoices, _, err := l.ListInvoices(ctx, org.ID, invoice.ListOpts{
			SortBy:    invoice.SortByNumber,
			Ascending: true,
		})
		if err != nil {
			t.Fatalf("ListInvoices: %v", err)
		}
		for i := 1; i < len(invoices); i++ {
			if invoices[i-1].Number > invoices[i].Number {
				t.Fatalf("not sorted: %q before %q", invoices[i-1].Number, invoices[i].Number)
			}
		}
	})

	t.Run("invalid filters", func(t *testing.T) {
		if _, _, err := l.ListInvoices(ctx, org.ID, invoice.ListOpts{Status: "overdue"}); !ledger.IsValidation(err) {
			t.Errorf("unknown status: got %v, want validation error", err)
		}
		if _, _, err := l.ListInvoices(ctx, org.ID, invoice.ListOpts{SortBy: "tax"}); !ledger.IsValidation(err) {
			t.Errorf("unknown sort: got %v, want validation error", err)
		}
	})
}

func TestGetInvoiceDocument(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "billing@globex.test")
	inv := draftInvoice(t, l, ctx, org.ID, c.ID)

	doc, err := l.GetInvoiceDocument(ctx, org.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoiceDocument: %v", err)
	}
	if doc.Invoice.ID != inv.ID || doc.Client.ID != c.ID || doc.Organization.ID != org.ID {
		t.Errorf("document references wrong entities: %+v", doc)
	}

	// Deactivating the client must not break rendering of its invoices.
	if err := l.DeactivateClient(ctx, org.ID, c.ID); err != nil {
		t.Fatalf("DeactivateClient: %v", err)
	}
	doc, err = l.GetInvoiceDocument(ctx, org.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoiceDocument after deactivation: %v", err)
	}
	if doc.Client.Active {
		t.Error("expected the deactivated client in the document")
	}
}

func TestTenantIsolation(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	orgA := seedOrg(t, l, ctx)
	orgB := &organization.Organization{Name: "Initech"}
	if err := l.CreateOrganization(ctx, orgB); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	c := seedClient(t, l, ctx, orgA.ID, "billing@globex.test")
	inv := draftInvoice(t, l, ctx, orgA.ID, c.ID)

	// Another tenant sees absence, never a permission error.
	if _, err := l.GetInvoice(ctx, orgB.ID, inv.ID); !ledger.IsNotFound(err) {
		t.Errorf("cross-tenant get: got %v, want not found", err)
	}
	if _, err := l.SendInvoice(ctx, orgB.ID, inv.ID); !ledger.IsNotFound(err) {
		t.Errorf("cross-tenant send: got %v, want not found", err)
	}
	if err := l.DeleteInvoice(ctx, orgB.ID, inv.ID); !ledger.IsNotFound(err) {
		t.Errorf("cross-tenant delete: got %v, want not found", err)
	}
	if _, err := l.GetClient(ctx, orgB.ID, c.ID); !ledger.IsNotFound(err) {
		t.Errorf("cross-tenant client get: got %v, want not found", err)
	}

	// Sequences are independent per organization.
	cB := seedClient(t, l, ctx, orgB.ID, "billing@initech.test")
	invB := draftInvoice(t, l, ctx, orgB.ID, cB.ID)
	if invB.Number != "INV-1000" {
		t.Errorf("orgB first number: got %q, want INV-1000", invB.Number)
	}
}

func TestClientLifecycle(t *testing.T) {
	l, ctx := newTestLedger(t)
	defer l.Stop()

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "Billing@Globex.Test")

	// Emails are normalized at the door.
	if c.Email != "billing@globex.test" {
		t.Errorf("Email: got %q, want normalized lowercase", c.Email)
	}

	// Duplicate email within the organization is a conflict.
	dup := &client.Client{OrgID: org.ID, Name: "Dup", Email: "billing@globex.test"}
	if err := l.CreateClient(ctx, dup); !ledger.IsConflict(err) {
		t.Errorf("duplicate email: got %v, want conflict", err)
	}

	newName := "Globex International"
	updated, err := l.UpdateClient(ctx, org.ID, c.ID, client.UpdateRequest{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("Name: got %q", updated.Name)
	}

	// Deactivated clients disappear from default listings and reject
	// new invoices, but keep their record.
	if err := l.DeactivateClient(ctx, org.ID, c.ID); err != nil {
		t.Fatalf("DeactivateClient: %v", err)
	}
	clients, _, err := l.ListClients(ctx, org.ID, client.ListOpts{})
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 0 {
		t.Errorf("deactivated client still listed: %d", len(clients))
	}
	clients, _, err = l.ListClients(ctx, org.ID, client.ListOpts{IncludeInactive: true})
	if err != nil {
		t.Fatalf("ListClients inactive: %v", err)
	}
	if len(clients) != 1 {
		t.Errorf("expected 1 inactive client, got %d", len(clients))
	}

	_, err = l.CreateInvoice(ctx, org.ID, invoice.CreateRequest{
		ClientID: c.ID,
		Items:    []invoice.LineItemRequest{{Description: "x", Quantity: 1, UnitPrice: 100}},
		TaxRate:  decimal.Zero,
	})
	if !ledger.IsNotFound(err) {
		t.Errorf("invoicing a deactivated client: got %v, want not found", err)
	}
}

func TestAuditTrail(t *testing.T) {
	l, ctx := newTestLedger(t)

	actor := id.NewUserID()
	ctx = ledger.WithActor(ctx, actor)

	org := seedOrg(t, l, ctx)
	c := seedClient(t, l, ctx, org.ID, "billing@globex.test")
	inv := draftInvoice(t, l, ctx, org.ID, c.ID)
	if _, err := l.SendInvoice(ctx, org.ID, inv.ID); err != nil {
		t.Fatalf("SendInvoice: %v", err)
	}
	if _, err := l.MarkInvoicePaid(ctx, org.ID, inv.ID); err != nil {
		t.Fatalf("MarkInvoicePaid: %v", err)
	}

	// Stop drains the audit buffer.
	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	entries, page, err := l.ListAuditLog(ctx, org.ID, audit.ListOpts{})
	if err != nil {
		t.Fatalf("ListAuditLog: %v", err)
	}
	// client create + invoice create + send + mark_paid
	if page.Total != 4 {
		t.Fatalf("expected 4 audit entries, got %d", page.Total)
	}

	// Newest first.
	for i := 1; i < len(entries); i++ {
		if entries[i-1].CreatedAt.Before(entries[i].CreatedAt) {
			t.Error("audit entries not newest-first")
		}
	}
	for _, entry := range entries {
		if entry.ActorID != actor {
			t.Errorf("ActorID: got %s, want %s", entry.ActorID, actor)
		}
		if entry.OrgID != org.ID {
			t.Errorf("OrgID: got %s", entry.OrgID)
		}
	}

	// Filter by action.
	paidEntries, _, err := l.ListAuditLog(ctx, org.ID, audit.ListOpts{Action: audit.ActionMarkPaid})
	if err != nil {
		t.Fatalf("ListAuditLog filtered: %v", err)
	}
	if len(paidEntries) != 1 || paidEntries[0].TargetID != inv.ID {
		t.Errorf("action filter: got %d entries", len(paidEntries))
	}
}

func TestAuditRequestMeta(t *testing.T) {
	l, ctx := newTestLedger(t)

	ctx = ledger.WithRequestMeta(ctx, &audit.RequestMeta{
		Endpoint:  "/v1/clients",
		Method:    "POST",
		IPAddress: "203.0.113.7",
		UserAgent: "billing-portal/2.1",
	})

	org := seedOrg(t, l, ctx)
	seedClient(t, l, ctx, org.ID, "billing@globex.test")

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	entries, _, err := l.ListAuditLog(ctx, org.ID, audit.ListOpts{})
	if err != nil {
		t.Fatalf("ListAuditLog: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	meta := entries[0].Metadata
	if meta == nil || meta.IPAddress != "203.0.113.7" || meta.Method != "POST" {
		t.Errorf("Metadata: got %+v", meta)
	}
}

func TestAuditIsolation(t *testing.T) {
	l, ctx := newTestLedger(t)

	orgA := seedOrg(t, l, ctx)
	orgB := &organization.Organization{Name: "Initech"}
	if err := l.CreateOrganization(ctx, orgB); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	cA := seedClient(t, l, ctx, orgA.ID, "a@globex.test")
	draftInvoice(t, l, ctx, orgA.ID, cA.ID)

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	entries, _, err := l.ListAuditLog(ctx, orgB.ID, audit.ListOpts{})
	if err != nil {
		t.Fatalf("ListAuditLog: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("orgB sees %d foreign audit entries", len(entries))
	}
}
