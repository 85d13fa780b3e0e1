package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit              []OnInit
	onShutdown          []OnShutdown
	onInvoiceCreated    []OnInvoiceCreated
	onInvoiceUpdated    []OnInvoiceUpdated
	onInvoiceSent       []OnInvoiceSent
	onInvoicePaid       []OnInvoicePaid
	onInvoiceDeleted    []OnInvoiceDeleted
	onClientCreated     []OnClientCreated
	onClientUpdated     []OnClientUpdated
	onClientDeactivated []OnClientDeactivated
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnInvoiceCreated); ok {
		r.onInvoiceCreated = append(r.onInvoiceCreated, v)
	}
	if v, ok := p.(OnInvoiceUpdated); ok {
		r.onInvoiceUpdated = append(r.onInvoiceUpdated, v)
	}
	if v, ok := p.(OnInvoiceSent); ok {
		r.onInvoiceSent = append(r.onInvoiceSent, v)
	}
	if v, ok := p.(OnInvoicePaid); ok {
		r.onInvoicePaid = append(r.onInvoicePaid, v)
	}
	if v, ok := p.(OnInvoiceDeleted); ok {
		r.onInvoiceDeleted = append(r.onInvoiceDeleted, v)
	}
	if v, ok := p.(OnClientCreated); ok {
		r.onClientCreated = append(r.onClientCreated, v)
	}
	if v, ok := p.(OnClientUpdated); ok {
		r.onClientUpdated = append(r.onClientUpdated, v)
	}
	if v, ok := p.(OnClientDeactivated); ok {
		r.onClientDeactivated = append(r.onClientDeactivated, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnInvoiceCreated)(nil)).Elem(), "OnInvoiceCreated")
	checkInterface(reflect.TypeOf((*OnInvoiceUpdated)(nil)).Elem(), "OnInvoiceUpdated")
	checkInterface(reflect.TypeOf((*OnInvoiceSent)(nil)).Elem(), "OnInvoiceSent")
	checkInterface(reflect.TypeOf((*OnInvoicePaid)(nil)).Elem(), "OnInvoicePaid")
	checkInterface(reflect.TypeOf((*OnInvoiceDeleted)(nil)).Elem(), "OnInvoiceDeleted")
	checkInterface(reflect.TypeOf((*OnClientCreated)(nil)).Elem(), "OnClientCreated")
	checkInterface(reflect.TypeOf((*OnClientUpdated)(nil)).Elem(), "OnClientUpdated")
	checkInterface(reflect.TypeOf((*OnClientDeactivated)(nil)).Elem(), "OnClientDeactivated")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, ledger)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceCreated emits an invoice created event.
func (r *Registry) EmitInvoiceCreated(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceCreated(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceUpdated emits an invoice updated event.
func (r *Registry) EmitInvoiceUpdated(ctx context.Context, oldInv, newInv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceUpdated(ctx, oldInv, newInv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceSent emits an invoice sent event.
func (r *Registry) EmitInvoiceSent(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceSent
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceSent(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceSent failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoicePaid emits an invoice paid event.
func (r *Registry) EmitInvoicePaid(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoicePaid
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoicePaid(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoicePaid failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceDeleted emits an invoice deleted event.
func (r *Registry) EmitInvoiceDeleted(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceDeleted(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceDeleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitClientCreated emits a client created event.
func (r *Registry) EmitClientCreated(ctx context.Context, c interface{}) {
	r.mu.RLock()
	plugins := r.onClientCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnClientCreated(ctx, c)
		}); err != nil {
			r.logger.Warn("plugin OnClientCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitClientUpdated emits a client updated event.
func (r *Registry) EmitClientUpdated(ctx context.Context, oldClient, newClient interface{}) {
	r.mu.RLock()
	plugins := r.onClientUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnClientUpdated(ctx, oldClient, newClient)
		}); err != nil {
			r.logger.Warn("plugin OnClientUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitClientDeactivated emits a client deactivated event.
func (r *Registry) EmitClientDeactivated(ctx context.Context, c interface{}) {
	r.mu.RLock()
	plugins := r.onClientDeactivated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnClientDeactivated(ctx, c)
		}); err != nil {
			r.logger.Warn("plugin OnClientDeactivated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the ledger pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
