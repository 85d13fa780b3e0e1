package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/paperledger/ledger"
	"github.com/paperledger/ledger/client"
	"github.com/paperledger/ledger/id"
	"github.com/paperledger/ledger/invoice"
	"github.com/paperledger/ledger/organization"
	"github.com/paperledger/ledger/store/memory"
	"github.com/paperledger/ledger/types"
)

func newOrg(t *testing.T, s *memory.Store) *organization.Organization {
	t.Helper()

	org := &organization.Organization{
		Entity: types.NewEntity(),
		ID:     id.NewOrganizationID(),
		Name:   "Acme Corp",
	}
	org.ApplyDefaults()
	if err := s.CreateOrganization(context.Background(), org); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	return org
}

func newInvoice(orgID id.OrganizationID, number string) *invoice.Invoice {
	return &invoice.Invoice{
		Entity:   types.NewEntity(),
		ID:       id.NewInvoiceID(),
		OrgID:    orgID,
		ClientID: id.NewClientID(),
		Number:   number,
		Status:   invoice.StatusDraft,
		Currency: "usd",
	}
}

func TestInvoiceVersionConflict(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	org := newOrg(t, s)

	inv := newInvoice(org.ID, "INV-1000")
	if err := s.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	// Two readers grab the same version.
	a, err := s.GetInvoice(ctx, org.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	b, err := s.GetInvoice(ctx, org.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}

	a.Notes = "first writer"
	if err := s.UpdateInvoice(ctx, a); err != nil {
		t.Fatalf("first UpdateInvoice: %v", err)
	}
	if a.Version != b.Version+1 {
		t.Errorf("winner version: got %d, want %d", a.Version, b.Version+1)
	}

	b.Notes = "second writer"
	if err := s.UpdateInvoice(ctx, b); !ledger.IsConflict(err) {
		t.Errorf("stale update: got %v, want version conflict", err)
	}

	// The winner's write survived.
	got, err := s.GetInvoice(ctx, org.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Notes != "first writer" {
		t.Errorf("Notes: got %q", got.Notes)
	}
}

func TestIncrementInvoiceSequence(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	org := newOrg(t, s)

	prefix, number, err := s.IncrementInvoiceSequence(ctx, org.ID)
	if err != nil {
		t.Fatalf("IncrementInvoiceSequence: %v", err)
	}
	if prefix != "INV" || number != 1000 {
		t.Errorf("got %s/%d, want INV/1000", prefix, number)
	}

	_, number, err = s.IncrementInvoiceSequence(ctx, org.ID)
	if err != nil {
		t.Fatalf("IncrementInvoiceSequence: %v", err)
	}
	if number != 1001 {
		t.Errorf("second number: got %d, want 1001", number)
	}

	if _, _, err := s.IncrementInvoiceSequence(ctx, id.NewOrganizationID()); !ledger.IsNotFound(err) {
		t.Errorf("unknown org: got %v, want not found", err)
	}
}

func TestIncrementInvoiceSequenceConcurrent(t *testing.T) {
	const n = 200
	s := memory.New()
	ctx := context.Background()
	org := newOrg(t, s)

	var wg sync.WaitGroup
	numbers := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, num, err := s.IncrementInvoiceSequence(ctx, org.ID)
			if err != nil {
				t.Errorf("IncrementInvoiceSequence: %v", err)
				return
			}
			numbers <- num
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool)
	for num := range numbers {
		if seen[num] {
			t.Fatalf("duplicate sequence number %d", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d distinct numbers, got %d", n, len(seen))
	}
}

func TestUpdateOrganizationPreservesCounter(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	org := newOrg(t, s)

	// Advance the counter behind the caller's back.
	if _, _, err := s.IncrementInvoiceSequence(ctx, org.ID); err != nil {
		t.Fatalf("IncrementInvoiceSequence: %v", err)
	}

	// A profile update with a stale counter copy must not rewind it.
	org.Name = "Acme International"
	if err := s.UpdateOrganization(ctx, org); err != nil {
		t.Fatalf("UpdateOrganization: %v", err)
	}

	_, number, err := s.IncrementInvoiceSequence(ctx, org.ID)
	if err != nil {
		t.Fatalf("IncrementInvoiceSequence: %v", err)
	}
	if number != 1001 {
		t.Errorf("counter after update: got %d, want 1001", number)
	}
}

func TestDuplicateInvoiceNumber(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	org := newOrg(t, s)

	if err := s.CreateInvoice(ctx, newInvoice(org.ID, "INV-1000")); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if err := s.CreateInvoice(ctx, newInvoice(org.ID, "INV-1000")); !ledger.IsConflict(err) {
		t.Errorf("duplicate number: got %v, want conflict", err)
	}

	// Same number under another organization is fine.
	other := newOrg(t, s)
	if err := s.CreateInvoice(ctx, newInvoice(other.ID, "INV-1000")); err != nil {
		t.Errorf("cross-org number reuse: %v", err)
	}
}

func TestClientEmailUniquePerOrg(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	org := newOrg(t, s)
	other := newOrg(t, s)

	mk := func(orgID id.OrganizationID, email string) *client.Client {
		return &client.Client{
			Entity: types.NewEntity(),
			ID:     id.NewClientID(),
			OrgID:  orgID,
			Name:   "Globex",
			Email:  email,
			Active: true,
		}
	}

	if err := s.CreateClient(ctx, mk(org.ID, "billing@globex.test")); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if err := s.CreateClient(ctx, mk(org.ID, "billing@globex.test")); !ledger.IsConflict(err) {
		t.Errorf("duplicate email: got %v, want conflict", err)
	}
	if err := s.CreateClient(ctx, mk(other.ID, "billing@globex.test")); err != nil {
		t.Errorf("cross-org email reuse: %v", err)
	}

	// Updating one client to another's email collides too.
	c := mk(org.ID, "second@globex.test")
	if err := s.CreateClient(ctx, c); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	c.Email = "billing@globex.test"
	if err := s.UpdateClient(ctx, c); !ledger.IsConflict(err) {
		t.Errorf("update into taken email: got %v, want conflict", err)
	}
}

func TestReadsAreCopies(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	org := newOrg(t, s)

	inv := newInvoice(org.ID, "INV-1000")
	inv.Items = []invoice.LineItem{{
		ID:          id.NewLineItemID(),
		Description: "Design work",
		Quantity:    1,
		UnitPrice:   types.USD(10000),
		LineTotal:   types.USD(10000),
	}}
	if err := s.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	got, err := s.GetInvoice(ctx, org.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	got.Items[0].Description = "mutated"
	got.Notes = "mutated"

	again, err := s.GetInvoice(ctx, org.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if again.Items[0].Description != "Design work" || again.Notes != "" {
		t.Error("store state shared with caller")
	}
}
