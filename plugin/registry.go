package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery so emitting an event only visits plugins
// that implement the matching hook.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit            []OnInit
	onShutdown        []OnShutdown
	onClientCreated   []OnClientCreated
	onClientUpdated   []OnClientUpdated
	onClientDeleted   []OnClientDeleted
	onDocumentCreated []OnDocumentCreated
	onDocumentUpdated []OnDocumentUpdated
	onDocumentDeleted []OnDocumentDeleted
	onNumberCollision []OnNumberCollision
	onSettingsSaved   []OnSettingsSaved
	validators        []DocumentValidator
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
	if v, ok := p.(OnClientCreated); ok {
		r.onClientCreated = append(r.onClientCreated, v)
	}
	if v, ok := p.(OnClientUpdated); ok {
		r.onClientUpdated = append(r.onClientUpdated, v)
	}
	if v, ok := p.(OnClientDeleted); ok {
		r.onClientDeleted = append(r.onClientDeleted, v)
	}
	if v, ok := p.(OnDocumentCreated); ok {
		r.onDocumentCreated = append(r.onDocumentCreated, v)
	}
	if v, ok := p.(OnDocumentUpdated); ok {
		r.onDocumentUpdated = append(r.onDocumentUpdated, v)
	}
	if v, ok := p.(OnDocumentDeleted); ok {
		r.onDocumentDeleted = append(r.onDocumentDeleted, v)
	}
	if v, ok := p.(OnNumberCollision); ok {
		r.onNumberCollision = append(r.onNumberCollision, v)
	}
	if v, ok := p.(OnSettingsSaved); ok {
		r.onSettingsSaved = append(r.onSettingsSaved, v)
	}
	if v, ok := p.(DocumentValidator); ok {
		r.validators = append(r.validators, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

// implementedInterfaces returns the hook names a plugin implements.
func implementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnClientCreated)(nil)).Elem(), "OnClientCreated")
	checkInterface(reflect.TypeOf((*OnClientUpdated)(nil)).Elem(), "OnClientUpdated")
	checkInterface(reflect.TypeOf((*OnClientDeleted)(nil)).Elem(), "OnClientDeleted")
	checkInterface(reflect.TypeOf((*OnDocumentCreated)(nil)).Elem(), "OnDocumentCreated")
	checkInterface(reflect.TypeOf((*OnDocumentUpdated)(nil)).Elem(), "OnDocumentUpdated")
	checkInterface(reflect.TypeOf((*OnDocumentDeleted)(nil)).Elem(), "OnDocumentDeleted")
	checkInterface(reflect.TypeOf((*OnNumberCollision)(nil)).Elem(), "OnNumberCollision")
	checkInterface(reflect.TypeOf((*OnSettingsSaved)(nil)).Elem(), "OnSettingsSaved")
	checkInterface(reflect.TypeOf((*DocumentValidator)(nil)).Elem(), "DocumentValidator")

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
func (r *Registry) EmitInit(ctx context.Context, engine any) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnInit", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}))
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnShutdown", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}))
	}
}

// EmitClientCreated emits a client created event.
func (r *Registry) EmitClientCreated(ctx context.Context, c *client.Client) {
	r.mu.RLock()
	plugins := r.onClientCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnClientCreated", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnClientCreated(ctx, c)
		}))
	}
}

// EmitClientUpdated emits a client updated event.
func (r *Registry) EmitClientUpdated(ctx context.Context, oldClient, newClient *client.Client) {
	r.mu.RLock()
	plugins := r.onClientUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnClientUpdated", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnClientUpdated(ctx, oldClient, newClient)
		}))
	}
}

// EmitClientDeleted emits a client deleted event.
func (r *Registry) EmitClientDeleted(ctx context.Context, clientID id.ClientID) {
	r.mu.RLock()
	plugins := r.onClientDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnClientDeleted", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnClientDeleted(ctx, clientID)
		}))
	}
}

// EmitDocumentCreated emits a document created event.
func (r *Registry) EmitDocumentCreated(ctx context.Context, d *document.Document) {
	r.mu.RLock()
	plugins := r.onDocumentCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnDocumentCreated", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnDocumentCreated(ctx, d)
		}))
	}
}

// EmitDocumentUpdated emits a document updated event.
func (r *Registry) EmitDocumentUpdated(ctx context.Context, oldDoc, newDoc *document.Document) {
	r.mu.RLock()
	plugins := r.onDocumentUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnDocumentUpdated", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnDocumentUpdated(ctx, oldDoc, newDoc)
		}))
	}
}

// EmitDocumentDeleted emits a document deleted event.
func (r *Registry) EmitDocumentDeleted(ctx context.Context, d *document.Document) {
	r.mu.RLock()
	plugins := r.onDocumentDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnDocumentDeleted", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnDocumentDeleted(ctx, d)
		}))
	}
}

// EmitNumberCollision emits a number collision event.
func (r *Registry) EmitNumberCollision(ctx context.Context, t document.Type, number string) {
	r.mu.RLock()
	plugins := r.onNumberCollision
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnNumberCollision", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnNumberCollision(ctx, t, number)
		}))
	}
}

// EmitSettingsSaved emits a settings saved event.
func (r *Registry) EmitSettingsSaved(ctx context.Context, s *settings.Settings) {
	r.mu.RLock()
	plugins := r.onSettingsSaved
	r.mu.RUnlock()

	for _, p := range plugins {
		r.warn("OnSettingsSaved", p.Name(), r.call(ctx, p.Name(), func() error {
			return p.OnSettingsSaved(ctx, s)
		}))
	}
}

// ValidateDocument runs every DocumentValidator and returns the first
// rejection, wrapped with the validator's name.
func (r *Registry) ValidateDocument(ctx context.Context, d *document.Document) error {
	r.mu.RLock()
	validators := r.validators
	r.mu.RUnlock()

	for _, v := range validators {
		if err := r.call(ctx, v.Name(), func() error {
			return v.ValidateDocument(ctx, d)
		}); err != nil {
			return fmt.Errorf("plugin %s: %w", v.Name(), err)
		}
	}
	return nil
}

// call runs a plugin function on the caller's goroutine. A panicking
// plugin is reported as an error instead of unwinding the engine.
func (r *Registry) call(ctx context.Context, pluginName string, fn func() error) (err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("plugin panic: %s: %v", pluginName, rec)
		}
	}()
	return fn()
}

func (r *Registry) warn(hook, pluginName string, err error) {
	if err == nil {
		return
	}
	r.logger.Warn("plugin "+hook+" failed",
		"plugin", pluginName,
		"error", err,
	)
}
