// Package plugin provides an extensible plugin system for Ledger.
// Plugins can hook into entity lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated is called when a new draft invoice is created.
type OnInvoiceCreated interface {
	Plugin
	OnInvoiceCreated(ctx context.Context, inv interface{}) error
}

// OnInvoiceUpdated is called when a draft invoice is updated.
type OnInvoiceUpdated interface {
	Plugin
	OnInvoiceUpdated(ctx context.Context, oldInv, newInv interface{}) error
}

// OnInvoiceSent is called when an invoice is marked sent.
type OnInvoiceSent interface {
	Plugin
	OnInvoiceSent(ctx context.Context, inv interface{}) error
}

// OnInvoicePaid is called when an invoice is marked paid.
type OnInvoicePaid interface {
	Plugin
	OnInvoicePaid(ctx context.Context, inv interface{}) error
}

// OnInvoiceDeleted is called when a draft invoice is deleted.
type OnInvoiceDeleted interface {
	Plugin
	OnInvoiceDeleted(ctx context.Context, inv interface{}) error
}

// ──────────────────────────────────────────────────
// Client lifecycle hooks
// ──────────────────────────────────────────────────

// OnClientCreated is called when a new client is created.
type OnClientCreated interface {
	Plugin
	OnClientCreated(ctx context.Context, c interface{}) error
}

// OnClientUpdated is called when a client is updated.
type OnClientUpdated interface {
	Plugin
	OnClientUpdated(ctx context.Context, oldClient, newClient interface{}) error
}

// OnClientDeactivated is called when a client is deactivated.
type OnClientDeactivated interface {
	Plugin
	OnClientDeactivated(ctx context.Context, c interface{}) error
}
