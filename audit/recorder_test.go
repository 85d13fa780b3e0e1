package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paperledger/ledger/audit"
	"github.com/paperledger/ledger/id"
)

// fakeStore collects appended entries and can be told to fail.
type fakeStore struct {
	mu      sync.Mutex
	entries []*audit.Entry
	fail    bool
	block   chan struct{}
}

func (s *fakeStore) Append(_ context.Context, entry *audit.Entry) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return errors.New("store down")
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeStore) List(_ context.Context, _ id.OrganizationID, _ audit.ListOpts) ([]*audit.Entry, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries, int64(len(s.entries)), nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func newEntry(action audit.Action) *audit.Entry {
	return &audit.Entry{
		ID:         id.NewAuditEntryID(),
		OrgID:      id.NewOrganizationID(),
		Action:     action,
		TargetType: audit.TargetInvoice,
		TargetID:   id.NewInvoiceID(),
		CreatedAt:  time.Now().UTC(),
	}
}

func TestRecorderFlushesOnStop(t *testing.T) {
	store := &fakeStore{}
	r := audit.NewRecorder(store)
	r.Start()

	for i := 0; i < 10; i++ {
		r.Record(newEntry(audit.ActionCreate))
	}
	r.Stop()

	if got := store.count(); got != 10 {
		t.Errorf("expected 10 entries flushed, got %d", got)
	}
}

func TestRecorderNeverBlocksCaller(t *testing.T) {
	store := &fakeStore{fail: true}
	r := audit.NewRecorder(store)
	r.Start()

	// A failing store must not surface to the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			r.Record(newEntry(audit.ActionUpdate))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked the caller")
	}
	r.Stop()

	if got := store.count(); got != 0 {
		t.Errorf("failing store should hold no entries, got %d", got)
	}
}

func TestRecorderDropsWhenFull(t *testing.T) {
	store := &fakeStore{block: make(chan struct{})}
	r := audit.NewRecorder(store, audit.WithRecorderBuffer(2))
	r.Start()

	// The worker is parked on the blocked store; once the buffer and the
	// in-flight slot are saturated the rest must drop, not block.
	for i := 0; i < 10; i++ {
		r.Record(newEntry(audit.ActionSend))
	}
	if r.Dropped() == 0 {
		t.Error("expected dropped entries with a saturated buffer")
	}

	close(store.block)
	r.Stop()
}

func TestRecorderOrdering(t *testing.T) {
	store := &fakeStore{}
	r := audit.NewRecorder(store)
	r.Start()

	actions := []audit.Action{audit.ActionCreate, audit.ActionSend, audit.ActionMarkPaid}
	for _, a := range actions {
		r.Record(newEntry(a))
	}
	r.Stop()

	if got := store.count(); got != len(actions) {
		t.Fatalf("expected %d entries, got %d", len(actions), got)
	}
	for i, a := range actions {
		if store.entries[i].Action != a {
			t.Errorf("entry %d: got %s, want %s", i, store.entries[i].Action, a)
		}
	}
}
