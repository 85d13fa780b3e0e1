// Package ledger provides a composable multi-tenant invoicing engine for Go applications.
//
// Ledger is designed as a library, not a service. Import it directly into your Go
// application for maximum performance and flexibility. It provides:
//
//   - Exact integer money arithmetic in minor units, no floating point
//   - Per-organization invoice numbering with atomic, gap-tolerant allocation
//   - A strict invoice lifecycle: draft, sent, paid
//   - Client and organization management with tenant isolation
//   - An asynchronous audit trail that never blocks ledger operations
//   - Pluggable lifecycle hooks for integrations
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    "github.com/paperledger/ledger"
//	    "github.com/paperledger/ledger/store/memory"
//	)
//
//	l := ledger.New(memory.New())
//
//	// Start the ledger (runs migrations, begins background workers)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Organizations are tenants. Every client, invoice and audit entry
// belongs to exactly one organization, and no operation ever crosses
// that boundary:
//
//	org := &organization.Organization{Name: "Acme Corp"}
//	err := l.CreateOrganization(ctx, org)
//
// Invoices are created as drafts with caller-supplied line items. The
// engine assigns the number, computes the totals and owns the lifecycle:
//
//	inv, err := l.CreateInvoice(ctx, org.ID, invoice.CreateRequest{
//	    ClientID: clientID,
//	    Items: []invoice.LineItemRequest{
//	        {Description: "Consulting", Quantity: 10, UnitPrice: 15000},
//	    },
//	    TaxRate: decimal.NewFromInt(20),
//	})
//
//	inv, err = l.SendInvoice(ctx, org.ID, inv.ID)
//	inv, err = l.MarkInvoicePaid(ctx, org.ID, inv.ID)
//
// # Money
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest currency
// unit (cents for USD, pence for GBP, etc). Tax is computed once on the
// invoice subtotal and rounded half-to-even to a minor unit.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	org_01h2xcejqtf2nbrexx3vqjhp41   // Organization ID
//	cli_01h2xcejqtf2nbrexx3vqjhp41   // Client ID
//	inv_01h455vb4pex5vsknk084sn02q   // Invoice ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package ledger
