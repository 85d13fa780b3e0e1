// Package notify bridges Ledger lifecycle events to an external delivery
// backend such as a webhook dispatcher or message bus.
//
// It defines a local Sink interface so the package does not depend on any
// particular transport. Callers inject a SinkFunc adapter at wiring time.
package notify

import (
	"context"
	"log/slog"

	"github.com/paperledger/ledger/client"
	"github.com/paperledger/ledger/invoice"
	"github.com/paperledger/ledger/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnInvoiceCreated    = (*Extension)(nil)
	_ plugin.OnInvoiceUpdated    = (*Extension)(nil)
	_ plugin.OnInvoiceSent       = (*Extension)(nil)
	_ plugin.OnInvoicePaid       = (*Extension)(nil)
	_ plugin.OnInvoiceDeleted    = (*Extension)(nil)
	_ plugin.OnClientCreated     = (*Extension)(nil)
	_ plugin.OnClientUpdated     = (*Extension)(nil)
	_ plugin.OnClientDeactivated = (*Extension)(nil)
)

// Sink is the interface that delivery backends must implement.
type Sink interface {
	Deliver(ctx context.Context, event *Event) error
}

// Event is the outbound representation of a lifecycle event.
type Event struct {
	Name       string         `json:"name"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resource_id,omitempty"`
	Severity   string         `json:"severity"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// SinkFunc is an adapter to use a plain function as a Sink.
type SinkFunc func(ctx context.Context, event *Event) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Extension bridges Ledger lifecycle events to a delivery backend.
type Extension struct {
	sink    Sink
	enabled map[string]bool // nil = all enabled
	logger  *slog.Logger
}

// New creates an Extension that forwards events through the provided Sink.
func New(s Sink, opts ...Option) *Extension {
	e := &Extension{
		sink:   s,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "notify" }

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated implements plugin.OnInvoiceCreated.
func (e *Extension) OnInvoiceCreated(ctx context.Context, inv interface{}) error {
	return e.forward(ctx, EventInvoiceCreated, SeverityInfo, ResourceInvoice,
		invoicePayload(inv))
}

// OnInvoiceUpdated implements plugin.OnInvoiceUpdated.
func (e *Extension) OnInvoiceUpdated(ctx context.Context, _, newInv interface{}) error {
	return e.forward(ctx, EventInvoiceUpdated, SeverityInfo, ResourceInvoice,
		invoicePayload(newInv))
}

// OnInvoiceSent implements plugin.OnInvoiceSent.
func (e *Extension) OnInvoiceSent(ctx context.Context, inv interface{}) error {
	return e.forward(ctx, EventInvoiceSent, SeverityInfo, ResourceInvoice,
		invoicePayload(inv))
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (e *Extension) OnInvoicePaid(ctx context.Context, inv interface{}) error {
	return e.forward(ctx, EventInvoicePaid, SeverityInfo, ResourceInvoice,
		invoicePayload(inv))
}

// OnInvoiceDeleted implements plugin.OnInvoiceDeleted.
func (e *Extension) OnInvoiceDeleted(ctx context.Context, inv interface{}) error {
	return e.forward(ctx, EventInvoiceDeleted, SeverityWarning, ResourceInvoice,
		invoicePayload(inv))
}

// ──────────────────────────────────────────────────
// Client lifecycle hooks
// ──────────────────────────────────────────────────

// OnClientCreated implements plugin.OnClientCreated.
func (e *Extension) OnClientCreated(ctx context.Context, c interface{}) error {
	return e.forward(ctx, EventClientCreated, SeverityInfo, ResourceClient,
		clientPayload(c))
}

// OnClientUpdated implements plugin.OnClientUpdated.
func (e *Extension) OnClientUpdated(ctx context.Context, _, newClient interface{}) error {
	return e.forward(ctx, EventClientUpdated, SeverityInfo, ResourceClient,
		clientPayload(newClient))
}

// OnClientDeactivated implements plugin.OnClientDeactivated.
func (e *Extension) OnClientDeactivated(ctx context.Context, c interface{}) error {
	return e.forward(ctx, EventClientDeactivated, SeverityWarning, ResourceClient,
		clientPayload(c))
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// forward builds and delivers an event if the event name is enabled.
// Delivery failures are logged, never propagated.
func (e *Extension) forward(ctx context.Context, name, severity, resource string, payload map[string]any) error {
	if e.enabled != nil && !e.enabled[name] {
		return nil
	}

	evt := &Event{
		Name:     name,
		Resource: resource,
		Severity: severity,
		Payload:  payload,
	}
	if id, ok := payload["id"].(string); ok {
		evt.ResourceID = id
	}

	if err := e.sink.Deliver(ctx, evt); err != nil {
		e.logger.Warn("notify: failed to deliver event",
			"event", name,
			"resource_id", evt.ResourceID,
			"error", err,
		)
	}
	return nil
}

func invoicePayload(v interface{}) map[string]any {
	inv, ok := v.(*invoice.Invoice)
	if !ok {
		return nil
	}
	return map[string]any{
		"id":     inv.ID.String(),
		"org_id": inv.OrgID.String(),
		"number": inv.Number,
		"status": inv.Status.String(),
		"total":  inv.Total.Amount,
	}
}

func clientPayload(v interface{}) map[string]any {
	c, ok := v.(*client.Client)
	if !ok {
		return nil
	}
	return map[string]any{
		"id":     c.ID.String(),
		"org_id": c.OrgID.String(),
		"name":   c.Name,
		"email":  c.Email,
	}
}
