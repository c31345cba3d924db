package dashboard

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-erp-dashboard/components/erp"
)

// ProviderOrigin records how a widget got its provider.
type ProviderOrigin string

const (
	// OriginBuiltin marks catalog-free providers installed by widget hooks.
	OriginBuiltin ProviderOrigin = "builtin"
	// OriginCatalog marks providers bound to ERP seed data.
	OriginCatalog ProviderOrigin = "catalog"
	// OriginCustom marks providers registered by the host application.
	OriginCustom ProviderOrigin = "custom"
)

type binding struct {
	provider Provider
	origin   ProviderOrigin
}

// WidgetHook lets packages bind widgets while a registry is built.
type WidgetHook func(reg *Registry) error

var (
	hooksMu sync.Mutex
	hooks   []WidgetHook
)

// RegisterWidgetHook adds a hook run by every new registry.
func RegisterWidgetHook(h WidgetHook) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hooks = append(hooks, h)
}

// Registry holds widget definitions and the provider bound to each.
// Custom providers win over catalog ones, which win over built-ins.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[string]WidgetDefinition
	bindings     map[string]binding
	manifestMeta map[string]ManifestProvider
}

var _ ProviderRegistry = (*Registry)(nil)

// NewRegistry builds a registry with the built-in definitions and runs the
// widget hooks against it.
func NewRegistry() *Registry {
	reg := &Registry{
		definitions:  map[string]WidgetDefinition{},
		bindings:     map[string]binding{},
		manifestMeta: map[string]ManifestProvider{},
	}
	for _, def := range DefaultWidgetDefinitions() {
		reg.definitions[def.Code] = def
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks runs the registered widget hooks.
func (r *Registry) ApplyHooks() error {
	hooksMu.Lock()
	pending := slices.Clone(hooks)
	hooksMu.Unlock()
	for _, hook := range pending {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterCatalog binds every built-in widget to a provider reading from
// catalog. Custom providers already bound are kept.
func (r *Registry) RegisterCatalog(catalog *erp.Catalog, opts ProviderOptions) error {
	if catalog == nil {
		return fmt.Errorf("dashboard: catalog is required")
	}
	providers := catalogProviders(catalog, opts)
	for _, def := range DefaultWidgetDefinitions() {
		provider, ok := providers[def.Code]
		if !ok {
			continue
		}
		r.mu.Lock()
		if _, exists := r.definitions[def.Code]; !exists {
			r.definitions[def.Code] = def
		}
		if current, bound := r.bindings[def.Code]; !bound || current.origin != OriginCustom {
			r.bindings[def.Code] = binding{provider: provider, origin: OriginCatalog}
		}
		r.mu.Unlock()
	}
	return nil
}

// RegisterDefinition stores a widget definition, replacing one with the same code.
func (r *Registry) RegisterDefinition(def WidgetDefinition) error {
	if strings.TrimSpace(def.Code) == "" {
		return fmt.Errorf("dashboard: widget definition code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// RegisterProvider binds a custom provider to a defined widget.
func (r *Registry) RegisterProvider(code string, provider Provider) error {
	return r.bind(code, provider, OriginCustom)
}

func (r *Registry) bind(code string, provider Provider, origin ProviderOrigin) error {
	if code == "" {
		return fmt.Errorf("dashboard: widget code is required to bind a provider")
	}
	if provider == nil {
		return fmt.Errorf("dashboard: provider for %s cannot be nil", code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("dashboard: widget definition %s not found", code)
	}
	r.bindings[code] = binding{provider: provider, origin: origin}
	return nil
}

// Definition fetches a widget definition by code.
func (r *Registry) Definition(code string) (WidgetDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Provider fetches the provider bound to a widget.
func (r *Registry) Provider(code string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[code]
	return b.provider, ok
}

// Origin reports how the provider of a widget was bound.
func (r *Registry) Origin(code string) (ProviderOrigin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[code]
	return b.origin, ok
}

// Unbound lists defined widgets that have no provider, ordered by code.
// Manifest widgets stay here until the host binds them.
func (r *Registry) Unbound() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for code := range r.definitions {
		if _, ok := r.bindings[code]; !ok {
			out = append(out, code)
		}
	}
	slices.Sort(out)
	return out
}

// ProviderMetadata returns the manifest metadata recorded for a widget.
func (r *Registry) ProviderMetadata(code string) (ManifestProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[code]
	return meta, ok
}

// Definitions returns every definition ordered by code.
func (r *Registry) Definitions() []WidgetDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]WidgetDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b WidgetDefinition) int { return strings.Compare(a.Code, b.Code) })
	return defs
}

func (r *Registry) recordProviderMetadata(code string, meta ManifestProvider) {
	if meta.isZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[code] = meta
}
