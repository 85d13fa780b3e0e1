package invoice

import (
	"errors"
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusDraft, StatusPaid, true},
		{StatusSent, StatusPaid, true},
		{StatusSent, StatusSent, false},
		{StatusSent, StatusDraft, false},
		{StatusPaid, StatusSent, false},
		{StatusPaid, StatusDraft, false},
		{StatusPaid, StatusPaid, false},
		{StatusCancelled, StatusSent, false},
		{StatusCancelled, StatusPaid, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.allowed {
			t.Errorf("CanTransition(%s, %s): got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusSent, StatusPaid, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("overdue").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestMarkSent(t *testing.T) {
	now := time.Now().UTC()
	inv := &Invoice{Status: StatusDraft}

	if err := inv.MarkSent(now); err != nil {
		t.Fatalf("MarkSent from draft: %v", err)
	}
	if inv.Status != StatusSent {
		t.Errorf("Status: got %s, want %s", inv.Status, StatusSent)
	}
	if inv.SentAt == nil || !inv.SentAt.Equal(now) {
		t.Error("SentAt not stamped")
	}

	// Sending twice is rejected.
	if err := inv.MarkSent(now); err == nil {
		t.Error("expected error sending a sent invoice")
	}
}

func TestMarkPaid(t *testing.T) {
	now := time.Now().UTC()

	t.Run("from sent", func(t *testing.T) {
		inv := &Invoice{Status: StatusSent}
		if err := inv.MarkPaid(now); err != nil {
			t.Fatalf("MarkPaid from sent: %v", err)
		}
		if inv.Status != StatusPaid || inv.PaidAt == nil {
			t.Errorf("got status %s, paidAt %v", inv.Status, inv.PaidAt)
		}
	})

	t.Run("from draft", func(t *testing.T) {
		inv := &Invoice{Status: StatusDraft}
		if err := inv.MarkPaid(now); err != nil {
			t.Fatalf("MarkPaid from draft: %v", err)
		}
		if inv.Status != StatusPaid {
			t.Errorf("Status: got %s, want %s", inv.Status, StatusPaid)
		}
	})

	t.Run("paid is terminal", func(t *testing.T) {
		inv := &Invoice{Status: StatusPaid}
		if err := inv.MarkPaid(now); err == nil {
			t.Error("expected error paying a paid invoice")
		}
		if err := inv.MarkSent(now); err == nil {
			t.Error("expected error sending a paid invoice")
		}
	})
}

func TestMutableAndDeletable(t *testing.T) {
	tests := []struct {
		status    Status
		mutable   bool
		deletable bool
	}{
		{StatusDraft, true, true},
		{StatusSent, false, false},
		{StatusPaid, false, false},
		{StatusCancelled, false, false},
	}

	for _, tt := range tests {
		inv := &Invoice{Status: tt.status}
		if inv.Mutable() != tt.mutable {
			t.Errorf("%s Mutable: got %v, want %v", tt.status, inv.Mutable(), tt.mutable)
		}
		if inv.Deletable() != tt.deletable {
			t.Errorf("%s Deletable: got %v, want %v", tt.status, inv.Deletable(), tt.deletable)
		}
	}
}

func TestTransitionError(t *testing.T) {
	inv := &Invoice{Status: StatusPaid}
	err := inv.MarkSent(time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if te.From != StatusPaid || te.To != StatusSent {
		t.Errorf("got %+v", te)
	}
}
