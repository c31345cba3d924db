package dashboard

import (
	"context"
	"time"

	"github.com/goliatone/go-erp-dashboard/components/records"
)

// WidgetStore persists widget areas, definitions, and placed instances.
// Implementations must be safe for concurrent use.
type WidgetStore interface {
	EnsureArea(ctx context.Context, def WidgetAreaDefinition) (bool, error)
	EnsureDefinition(ctx context.Context, def WidgetDefinition) (bool, error)
	CreateInstance(ctx context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error)
	DeleteInstance(ctx context.Context, instanceID string) error
	AssignInstance(ctx context.Context, input AssignWidgetInput) error
	ResolveArea(ctx context.Context, input ResolveAreaInput) (ResolvedArea, error)
}

// Authorizer determines if a viewer can see a widget instance.
type Authorizer interface {
	CanViewWidget(ctx context.Context, viewer ViewerContext, instance WidgetInstance) bool
}

// FilterStore keeps the page-scoped filter selection of every viewer.
type FilterStore interface {
	Filter(ctx context.Context, viewer ViewerContext, page string) (records.FilterState, error)
	SaveFilter(ctx context.Context, viewer ViewerContext, page string, state records.FilterState) error
	ResetFilter(ctx context.Context, viewer ViewerContext, page string) error
}

// ProviderRegistry stores widget definitions and their data providers.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (WidgetDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []WidgetDefinition
}

// RefreshHook notifies transports (REST/WebSocket/SSE) about widget changes.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

// PageSource resolves listing pages by code.
type PageSource interface {
	Render(code string, state records.FilterState) (records.Table, error)
}

// PageDefinition declares a dashboard page and the widget areas it renders.
type PageDefinition struct {
	Code        string                 `json:"code" yaml:"code"`
	Title       string                 `json:"title" yaml:"title"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Filterable  bool                   `json:"filterable" yaml:"filterable"`
	Areas       []WidgetAreaDefinition `json:"areas" yaml:"areas"`
}

// AreaCodes lists the page areas in render order.
func (p PageDefinition) AreaCodes() []string {
	out := make([]string, len(p.Areas))
	for i, area := range p.Areas {
		out[i] = area.Code
	}
	return out
}

// WidgetAreaDefinition models a page area (header/main/sidebar).
type WidgetAreaDefinition struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// WidgetDefinition describes a widget and the schema of its configuration.
type WidgetDefinition struct {
	Code        string         `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
}

// WidgetInstance is a configured widget placed in an area.
type WidgetInstance struct {
	ID            string           `json:"id"`
	DefinitionID  string           `json:"definition"`
	AreaCode      string           `json:"area"`
	Position      int              `json:"position"`
	Configuration map[string]any   `json:"config,omitempty"`
	Visibility    WidgetVisibility `json:"visibility,omitempty"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
}

// CreateWidgetInstanceInput configures new instances.
type CreateWidgetInstanceInput struct {
	DefinitionID  string
	Configuration map[string]any
	Visibility    WidgetVisibility
	Metadata      map[string]any
}

// WidgetVisibility defines runtime visibility constraints.
type WidgetVisibility struct {
	Roles   []string   `json:"roles,omitempty"`
	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`
}

// AssignWidgetInput associates a widget instance with an area.
type AssignWidgetInput struct {
	AreaCode   string
	InstanceID string
	Position   *int
}

// ResolveAreaInput requests widget instances for a given area and audience.
type ResolveAreaInput struct {
	AreaCode string
	Audience []string
	Now      time.Time
}

// ResolvedArea is a container for widgets returned by the store.
type ResolvedArea struct {
	AreaCode string           `json:"area"`
	Widgets  []WidgetInstance `json:"widgets"`
}

// ViewerContext captures who is looking at a page.
type ViewerContext struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	Locale string   `json:"locale,omitempty"`
}

// PageLayout is a page resolved for a viewer: its filter state and the
// widgets of every area, provider data attached.
type PageLayout struct {
	Page   string                      `json:"page"`
	Title  string                      `json:"title"`
	Filter records.FilterState         `json:"filter"`
	Order  []string                    `json:"order"`
	Areas  map[string][]WidgetInstance `json:"areas"`
}

// WidgetEvent describes changes transports might care about.
type WidgetEvent struct {
	Page     string               `json:"page,omitempty"`
	AreaCode string               `json:"area,omitempty"`
	Instance WidgetInstance       `json:"instance"`
	Reason   string               `json:"reason"`
	Viewer   string               `json:"viewer,omitempty"`
	Filter   *records.FilterState `json:"filter,omitempty"`
}
