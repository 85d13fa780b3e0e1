package invoice

import (
	"fmt"
	"time"
)

// Status is the invoice lifecycle state.
type Status string

const (
	// StatusDraft is the only mutable state. New invoices start here.
	StatusDraft Status = "draft"
	// StatusSent marks an invoice delivered to the client and frozen.
	StatusSent Status = "sent"
	// StatusPaid is terminal.
	StatusPaid Status = "paid"
	// StatusCancelled is reserved for a future void flow. No transition
	// currently produces it, but stores and filters accept the value.
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// transitions maps each status to the set it may move to. Paid and
// cancelled are terminal.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusSent, StatusPaid},
	StatusSent:      {StatusPaid},
	StatusPaid:      {},
	StatusCancelled: {},
}

// CanTransition reports whether from may legally move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError describes a rejected lifecycle move.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invoice: cannot transition from %s to %s", e.From, e.To)
}

// MarkSent moves the invoice from draft to sent and stamps SentAt.
func (inv *Invoice) MarkSent(now time.Time) error {
	if !CanTransition(inv.Status, StatusSent) {
		return &TransitionError{From: inv.Status, To: StatusSent}
	}
	inv.Status = StatusSent
	inv.SentAt = &now
	return nil
}

// MarkPaid moves the invoice into the terminal paid state and stamps
// PaidAt. Both draft and sent invoices accept payment; a payment can
// land before the invoice was formally sent.
func (inv *Invoice) MarkPaid(now time.Time) error {
	if !CanTransition(inv.Status, StatusPaid) {
		return &TransitionError{From: inv.Status, To: StatusPaid}
	}
	inv.Status = StatusPaid
	inv.PaidAt = &now
	return nil
}

// Mutable reports whether line items, tax rate and other content fields
// may still change.
func (inv *Invoice) Mutable() bool {
	return inv.Status == StatusDraft
}

// Deletable reports whether the invoice may be removed. Sent and paid
// invoices are part of the financial record and must be kept.
func (inv *Invoice) Deletable() bool {
	return inv.Status == StatusDraft
}
