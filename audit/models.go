// Package audit records who did what to which entity, asynchronously
// and off the critical path of ledger operations.
package audit

import (
	"time"

	"github.com/paperledger/ledger/id"
)

// Action identifies the kind of operation an audit entry records.
type Action string

// Recorded actions.
const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionSend     Action = "send"
	ActionMarkPaid Action = "mark_paid"
)

// TargetType identifies the entity kind an entry refers to.
type TargetType string

// Recorded target types.
const (
	TargetInvoice      TargetType = "invoice"
	TargetClient       TargetType = "client"
	TargetOrganization TargetType = "organization"
)

// Entry is one immutable audit record. Changes is a small free-form
// snapshot of the operation, such as the invoice number or the changed
// field names; it is never parsed by the engine. The target is a weak
// reference: the entity may be deleted later while its trail survives.
type Entry struct {
	ID         id.AuditEntryID   `json:"id"`
	OrgID      id.OrganizationID `json:"org_id"`
	ActorID    id.UserID         `json:"actor_id"`
	Action     Action            `json:"action"`
	TargetType TargetType        `json:"target_type"`
	TargetID   id.ID             `json:"target_id"`
	Changes    map[string]any    `json:"changes,omitempty"`
	Metadata   *RequestMeta      `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// RequestMeta carries optional request provenance for an audit entry,
// supplied by the embedding transport layer via ledger.WithRequestMeta.
type RequestMeta struct {
	Endpoint  string `json:"endpoint,omitempty"`
	Method    string `json:"method,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// ListOpts filters and paginates audit listings. Entries are returned
// newest first.
type ListOpts struct {
	Action     Action     `json:"action,omitempty"`
	TargetType TargetType `json:"target_type,omitempty"`
	TargetID   id.ID      `json:"target_id,omitempty"`
	ActorID    id.UserID  `json:"actor_id,omitempty"`
	Page       int        `json:"page,omitempty"`
	Limit      int        `json:"limit,omitempty"`
}
