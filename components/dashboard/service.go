package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-erp-dashboard/components/erp"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

// ErrUnknownPage is returned for pages the service does not define.
var ErrUnknownPage = erp.ErrUnknownPage

var (
	errMissingWidgetStore = errors.New("dashboard: widget store not configured")
	errMissingPageSource  = errors.New("dashboard: page source not configured")
	errInvalidArea        = errors.New("dashboard: area code is required")
	errInvalidDefinition  = errors.New("dashboard: definition id is required")
	errNotFilterable      = errors.New("dashboard: page has no record filter")
)

// IsNotFilterable reports whether err came from a filter operation on a page
// without a record listing.
func IsNotFilterable(err error) bool {
	return errors.Is(err, errNotFilterable)
}

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	WidgetStore     WidgetStore
	Authorizer      Authorizer
	Filters         FilterStore
	Providers       ProviderRegistry
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Source          PageSource
	Pages           []PageDefinition
	Now             func() time.Time
}

// Service orchestrates page layouts, widgets, and filter state.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Authorizer == nil {
		opts.Authorizer = allowAllAuthorizer{}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	if opts.Filters == nil {
		opts.Filters = NewInMemoryFilterStore()
	}
	if len(opts.Pages) == 0 {
		opts.Pages = DefaultPages()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts}
}

// AddWidgetRequest captures the data required to create widget assignments.
type AddWidgetRequest struct {
	DefinitionID  string         `json:"definition_id"`
	AreaCode      string         `json:"area_code"`
	Configuration map[string]any `json:"configuration,omitempty"`
	Position      *int           `json:"position,omitempty"`
	Roles         []string       `json:"roles,omitempty"`
	StartAt       *time.Time     `json:"start_at,omitempty"`
	EndAt         *time.Time     `json:"end_at,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
}

// AddWidget validates configuration, creates a widget instance, and assigns it to an area.
func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if req.AreaCode == "" {
		return errInvalidArea
	}
	if req.DefinitionID == "" {
		return errInvalidDefinition
	}
	if err := s.validateConfiguration(req.DefinitionID, req.Configuration); err != nil {
		return err
	}
	instance, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{
		DefinitionID:  req.DefinitionID,
		Configuration: req.Configuration,
		Visibility: WidgetVisibility{
			Roles:   req.Roles,
			StartAt: req.StartAt,
			EndAt:   req.EndAt,
		},
		Metadata: map[string]any{
			"user_id": req.UserID,
		},
	})
	if err != nil {
		return err
	}
	if err := store.AssignInstance(ctx, AssignWidgetInput{
		AreaCode:   req.AreaCode,
		InstanceID: instance.ID,
		Position:   req.Position,
	}); err != nil {
		return err
	}
	instance.AreaCode = req.AreaCode
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		Page:     s.pageOfArea(req.AreaCode),
		AreaCode: req.AreaCode,
		Instance: instance,
		Reason:   "add",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.add", map[string]any{
		"area_code":     req.AreaCode,
		"definition_id": req.DefinitionID,
	})
	return nil
}

// RemoveWidget deletes the widget instance.
func (s *Service) RemoveWidget(ctx context.Context, widgetID string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errors.New("dashboard: widget id is required")
	}
	if err := store.DeleteInstance(ctx, widgetID); err != nil {
		return err
	}
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		Instance: WidgetInstance{ID: widgetID},
		Reason:   "delete",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.remove", map[string]any{"widget_id": widgetID})
	return nil
}

// MoveWidget places an existing instance in an area, at position when given.
func (s *Service) MoveWidget(ctx context.Context, widgetID, areaCode string, position *int) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errors.New("dashboard: widget id is required")
	}
	if areaCode == "" {
		return errInvalidArea
	}
	if err := store.AssignInstance(ctx, AssignWidgetInput{
		AreaCode:   areaCode,
		InstanceID: widgetID,
		Position:   position,
	}); err != nil {
		return err
	}
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		Page:     s.pageOfArea(areaCode),
		AreaCode: areaCode,
		Instance: WidgetInstance{ID: widgetID, AreaCode: areaCode},
		Reason:   "move",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.move", map[string]any{
		"widget_id": widgetID,
		"area_code": areaCode,
	})
	return nil
}

// Pages lists the page definitions in navigation order.
func (s *Service) Pages() []PageDefinition {
	return append([]PageDefinition(nil), s.opts.Pages...)
}

// Page looks up a page definition.
func (s *Service) Page(code string) (PageDefinition, error) {
	for _, page := range s.opts.Pages {
		if page.Code == code {
			return page, nil
		}
	}
	return PageDefinition{}, fmt.Errorf("%w: %s", ErrUnknownPage, code)
}

// PageLayout resolves every area of a page for the viewer and attaches
// provider data. A failing provider marks its widget with an error payload
// instead of failing the page.
func (s *Service) PageLayout(ctx context.Context, viewer ViewerContext, pageCode string) (PageLayout, error) {
	started := s.opts.Now()
	page, err := s.Page(pageCode)
	if err != nil {
		return PageLayout{}, err
	}
	store, err := s.widgetStore()
	if err != nil {
		return PageLayout{}, err
	}
	filter, err := s.Filter(ctx, viewer, page.Code)
	if err != nil && !errors.Is(err, errNotFilterable) {
		return PageLayout{}, err
	}
	layout := PageLayout{
		Page:   page.Code,
		Title:  page.Title,
		Filter: filter,
		Order:  page.AreaCodes(),
		Areas:  make(map[string][]WidgetInstance, len(page.Areas)),
	}
	for _, area := range page.Areas {
		resolved, err := store.ResolveArea(ctx, ResolveAreaInput{
			AreaCode: area.Code,
			Audience: viewer.Roles,
			Now:      s.opts.Now(),
		})
		if err != nil {
			return PageLayout{}, fmt.Errorf("dashboard: resolve area %s: %w", area.Code, err)
		}
		widgets := s.filterAuthorized(ctx, viewer, resolved.Widgets)
		for i := range widgets {
			widgets[i].AreaCode = area.Code
		}
		layout.Areas[area.Code] = s.attachProviderData(ctx, viewer, page.Code, filter, widgets)
	}
	s.recordTelemetry(ctx, "dashboard.page.layout", map[string]any{
		"page":             page.Code,
		"viewer":           viewer.UserID,
		"duration_seconds": s.opts.Now().Sub(started).Seconds(),
	})
	return layout, nil
}

// PageView renders the record table of a listing page under the viewer's filter.
func (s *Service) PageView(ctx context.Context, viewer ViewerContext, pageCode string) (records.Table, error) {
	if s.opts.Source == nil {
		return records.Table{}, errMissingPageSource
	}
	filter, err := s.Filter(ctx, viewer, pageCode)
	if err != nil {
		return records.Table{}, err
	}
	table, err := s.opts.Source.Render(pageCode, filter)
	if err != nil {
		return records.Table{}, err
	}
	s.recordTelemetry(ctx, "dashboard.page.view", map[string]any{
		"page":    pageCode,
		"visible": table.Visible,
		"total":   table.Total,
	})
	return table, nil
}

// Filter returns the viewer's selection for a filterable page.
func (s *Service) Filter(ctx context.Context, viewer ViewerContext, pageCode string) (records.FilterState, error) {
	if err := s.requireFilterable(pageCode); err != nil {
		return records.DefaultFilterState(), err
	}
	state, err := s.opts.Filters.Filter(ctx, viewer, pageCode)
	if err != nil {
		return records.FilterState{}, fmt.Errorf("dashboard: load filter %s: %w", pageCode, err)
	}
	return state.Normalized(), nil
}

// ApplyFilter stores the viewer's selection for a page and emits a filter event.
func (s *Service) ApplyFilter(ctx context.Context, viewer ViewerContext, pageCode string, state records.FilterState) (records.FilterState, error) {
	if err := s.requireFilterable(pageCode); err != nil {
		return records.FilterState{}, err
	}
	state = state.Normalized()
	if err := s.opts.Filters.SaveFilter(ctx, viewer, pageCode, state); err != nil {
		return records.FilterState{}, fmt.Errorf("dashboard: save filter %s: %w", pageCode, err)
	}
	if err := s.emitFilterEvent(ctx, viewer, pageCode, "filter", state); err != nil {
		return records.FilterState{}, err
	}
	s.recordTelemetry(ctx, "dashboard.filter.apply", map[string]any{
		"page":     pageCode,
		"category": state.Category,
		"search":   state.Search != "",
	})
	return state, nil
}

// ResetFilter restores the default selection for a page.
func (s *Service) ResetFilter(ctx context.Context, viewer ViewerContext, pageCode string) error {
	if err := s.requireFilterable(pageCode); err != nil {
		return err
	}
	if err := s.opts.Filters.ResetFilter(ctx, viewer, pageCode); err != nil {
		return fmt.Errorf("dashboard: reset filter %s: %w", pageCode, err)
	}
	if err := s.emitFilterEvent(ctx, viewer, pageCode, "filter_reset", records.DefaultFilterState()); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.filter.reset", map[string]any{"page": pageCode})
	return nil
}

// NotifyWidgetUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyWidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if event.Page == "" {
		event.Page = s.pageOfArea(event.AreaCode)
	}
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.event", map[string]any{
		"area_code": event.AreaCode,
		"widget_id": event.Instance.ID,
		"reason":    event.Reason,
	})
	return nil
}

func (s *Service) emitFilterEvent(ctx context.Context, viewer ViewerContext, pageCode, reason string, state records.FilterState) error {
	return s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		Page:     pageCode,
		AreaCode: AreaCode(pageCode, SlotMain),
		Reason:   reason,
		Viewer:   viewerID(viewer),
		Filter:   &state,
	})
}

func (s *Service) requireFilterable(pageCode string) error {
	page, err := s.Page(pageCode)
	if err != nil {
		return err
	}
	if !page.Filterable {
		return fmt.Errorf("%w: %s", errNotFilterable, pageCode)
	}
	return nil
}

func (s *Service) pageOfArea(areaCode string) string {
	for _, page := range s.opts.Pages {
		for _, area := range page.Areas {
			if area.Code == areaCode {
				return page.Code
			}
		}
	}
	return ""
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) widgetStore() (WidgetStore, error) {
	if s.opts.WidgetStore == nil {
		return nil, errMissingWidgetStore
	}
	return s.opts.WidgetStore, nil
}

func (s *Service) validateConfiguration(definitionID string, config map[string]any) error {
	if s.opts.ConfigValidator == nil || s.opts.Providers == nil {
		return nil
	}
	def, ok := s.opts.Providers.Definition(definitionID)
	if !ok {
		return nil
	}
	return s.opts.ConfigValidator.Validate(def, config)
}

func (s *Service) filterAuthorized(ctx context.Context, viewer ViewerContext, widgets []WidgetInstance) []WidgetInstance {
	if len(widgets) == 0 {
		return widgets
	}
	var filtered []WidgetInstance
	for _, w := range widgets {
		if s.opts.Authorizer.CanViewWidget(ctx, viewer, w) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

func (s *Service) attachProviderData(ctx context.Context, viewer ViewerContext, page string, filter records.FilterState, widgets []WidgetInstance) []WidgetInstance {
	if len(widgets) == 0 || s.opts.Providers == nil {
		return widgets
	}
	enriched := make([]WidgetInstance, len(widgets))
	copy(enriched, widgets)
	for i, inst := range enriched {
		provider, ok := s.opts.Providers.Provider(inst.DefinitionID)
		if !ok || provider == nil {
			continue
		}
		if enriched[i].Metadata == nil {
			enriched[i].Metadata = map[string]any{}
		}
		data, err := provider.Fetch(ctx, WidgetContext{
			Instance: inst,
			Viewer:   viewer,
			Page:     page,
			Filter:   filter,
		})
		if err != nil {
			s.recordTelemetry(ctx, "dashboard.widget.provider_error", map[string]any{
				"definition_id": inst.DefinitionID,
				"error":         err.Error(),
			})
			enriched[i].Metadata["error"] = err.Error()
			continue
		}
		enriched[i].Metadata["data"] = data
	}
	return enriched
}

func viewerID(viewer ViewerContext) string {
	if id := strings.TrimSpace(viewer.UserID); id != "" {
		return id
	}
	return AnonymousViewer
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanViewWidget(context.Context, ViewerContext, WidgetInstance) bool {
	return true
}

// RoleAuthorizer only shows widgets whose visibility roles intersect the viewer roles.
type RoleAuthorizer struct{}

// CanViewWidget implements Authorizer.
func (RoleAuthorizer) CanViewWidget(_ context.Context, viewer ViewerContext, instance WidgetInstance) bool {
	return visibleTo(instance.Visibility, ResolveAreaInput{Audience: viewer.Roles})
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error {
	return nil
}
