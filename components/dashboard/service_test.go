package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-erp-dashboard/components/erp"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

type testEnv struct {
	service   *Service
	store     *MemoryWidgetStore
	hook      *BroadcastHook
	telemetry *recordingTelemetry
	catalog   *erp.Catalog
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	ctx := context.Background()
	catalog := loadCatalog(t)
	store := NewMemoryWidgetStore()
	reg := NewRegistry()
	if err := reg.RegisterCatalog(catalog, ProviderOptions{ChartOptions: []EChartsProviderOption{WithChartCache(nil)}}); err != nil {
		t.Fatalf("RegisterCatalog: %v", err)
	}
	if err := RegisterAreas(ctx, store, nil); err != nil {
		t.Fatalf("RegisterAreas: %v", err)
	}
	if err := RegisterDefinitions(ctx, store, reg); err != nil {
		t.Fatalf("RegisterDefinitions: %v", err)
	}
	hook := NewBroadcastHook()
	telemetry := &recordingTelemetry{}
	service := NewService(Options{
		WidgetStore: store,
		Providers:   reg,
		RefreshHook: hook,
		Telemetry:   telemetry,
		Source:      catalog,
		Now:         func() time.Time { return fixedNow },
	})
	if err := SeedLayout(ctx, service); err != nil {
		t.Fatalf("SeedLayout: %v", err)
	}
	return testEnv{service: service, store: store, hook: hook, telemetry: telemetry, catalog: catalog}
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
	last   map[string]map[string]any
}

func (r *recordingTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if r.last == nil {
		r.last = map[string]map[string]any{}
	}
	r.last[event] = payload
}

func (r *recordingTelemetry) payload(event string) (map[string]any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.last[event]
	return p, ok
}

type allowListAuthorizer struct {
	allowed map[string]bool
}

func (a allowListAuthorizer) CanViewWidget(_ context.Context, _ ViewerContext, instance WidgetInstance) bool {
	return a.allowed[instance.DefinitionID]
}

func TestPageLayoutAttachesProviderData(t *testing.T) {
	env := newTestEnv(t)
	layout, err := env.service.PageLayout(context.Background(), ViewerContext{UserID: "ada"}, erp.PageDashboard)
	if err != nil {
		t.Fatalf("PageLayout returned error: %v", err)
	}
	if layout.Title != "Dashboard" || len(layout.Order) != 3 {
		t.Fatalf("unexpected layout header: %+v", layout)
	}
	header := layout.Areas[AreaCode(erp.PageDashboard, SlotHeader)]
	if len(header) != 1 || header[0].DefinitionID != WidgetKPICards {
		t.Fatalf("expected KPI cards in header, got %#v", header)
	}
	data, ok := header[0].Metadata["data"].(WidgetData)
	if !ok {
		t.Fatalf("expected provider data, got %#v", header[0].Metadata)
	}
	if tiles := data["tiles"].([]map[string]any); len(tiles) != 4 {
		t.Fatalf("expected 4 tiles, got %d", len(tiles))
	}
	main := layout.Areas[AreaCode(erp.PageDashboard, SlotMain)]
	if len(main) != 3 || main[0].Position != 0 || main[2].Position != 2 {
		t.Fatalf("unexpected main area %#v", main)
	}
	if _, ok := env.telemetry.payload("dashboard.page.layout"); !ok {
		t.Fatalf("expected layout telemetry")
	}
}

func TestPageLayoutAppliesViewerFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	viewer := ViewerContext{UserID: "ada"}
	if _, err := env.service.ApplyFilter(ctx, viewer, erp.PagePurchaseOrders, records.FilterState{Category: "pending"}); err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	layout, err := env.service.PageLayout(ctx, viewer, erp.PagePurchaseOrders)
	if err != nil {
		t.Fatalf("PageLayout: %v", err)
	}
	if layout.Filter.Category != "pending" {
		t.Fatalf("expected stored filter, got %+v", layout.Filter)
	}
	main := layout.Areas[AreaCode(erp.PagePurchaseOrders, SlotMain)]
	table := main[0].Metadata["data"].(WidgetData)["table"].(records.Table)
	if table.Visible != 1 {
		t.Fatalf("expected filtered table, got %d rows", table.Visible)
	}

	other, err := env.service.PageLayout(ctx, ViewerContext{UserID: "grace"}, erp.PagePurchaseOrders)
	if err != nil {
		t.Fatalf("PageLayout: %v", err)
	}
	if other.Filter.Category != records.AllCategories {
		t.Fatalf("filters must be per viewer, got %+v", other.Filter)
	}
}

func TestPageLayoutFiltersByAuthorizer(t *testing.T) {
	env := newTestEnv(t)
	service := NewService(Options{
		WidgetStore: env.store,
		Authorizer:  allowListAuthorizer{allowed: map[string]bool{WidgetStockAlerts: true}},
		Source:      env.catalog,
	})
	layout, err := service.PageLayout(context.Background(), ViewerContext{}, erp.PageDashboard)
	if err != nil {
		t.Fatalf("PageLayout returned error: %v", err)
	}
	sidebar := layout.Areas[AreaCode(erp.PageDashboard, SlotSidebar)]
	if len(sidebar) != 1 || sidebar[0].DefinitionID != WidgetStockAlerts {
		t.Fatalf("expected only stock alerts, got %#v", sidebar)
	}
	if len(layout.Areas[AreaCode(erp.PageDashboard, SlotMain)]) != 0 {
		t.Fatalf("expected main area hidden")
	}
}

func TestPageLayoutMarksProviderErrors(t *testing.T) {
	env := newTestEnv(t)
	reg := NewRegistry()
	_ = reg.RegisterProvider(WidgetStockAlerts, ProviderFunc(func(context.Context, WidgetContext) (WidgetData, error) {
		return nil, errors.New("warehouse offline")
	}))
	service := NewService(Options{WidgetStore: env.store, Providers: reg, Telemetry: env.telemetry})
	layout, err := service.PageLayout(context.Background(), ViewerContext{}, erp.PageDashboard)
	if err != nil {
		t.Fatalf("PageLayout returned error: %v", err)
	}
	var found bool
	for _, w := range layout.Areas[AreaCode(erp.PageDashboard, SlotSidebar)] {
		if w.DefinitionID == WidgetStockAlerts {
			found = true
			if w.Metadata["error"] != "warehouse offline" {
				t.Fatalf("expected error metadata, got %#v", w.Metadata)
			}
		}
	}
	if !found {
		t.Fatalf("stock alerts widget missing")
	}
	if _, ok := env.telemetry.payload("dashboard.widget.provider_error"); !ok {
		t.Fatalf("expected provider error telemetry")
	}
}

func TestPageLayoutUnknownPage(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.service.PageLayout(context.Background(), ViewerContext{}, "warehouse"); !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}
}

func TestPageViewRendersTable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	viewer := ViewerContext{UserID: "ada"}
	if _, err := env.service.ApplyFilter(ctx, viewer, erp.PageUsers, records.FilterState{Search: "COMPANY.COM"}); err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	table, err := env.service.PageView(ctx, viewer, erp.PageUsers)
	if err != nil {
		t.Fatalf("PageView: %v", err)
	}
	if table.Visible != 4 {
		t.Fatalf("expected 4 users, got %d", table.Visible)
	}
	if _, err := env.service.PageView(ctx, viewer, erp.PageDashboard); !errors.Is(err, errNotFilterable) {
		t.Fatalf("expected dashboard to have no table, got %v", err)
	}
	if _, err := NewService(Options{}).PageView(ctx, viewer, erp.PageUsers); !errors.Is(err, errMissingPageSource) {
		t.Fatalf("expected missing source, got %v", err)
	}
}

func TestApplyFilterEmitsEvent(t *testing.T) {
	env := newTestEnv(t)
	events, cancel := env.hook.Subscribe()
	defer cancel()

	state, err := env.service.ApplyFilter(context.Background(), ViewerContext{UserID: "ada"}, erp.PageInventory, records.FilterState{Search: "desk"})
	if err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	if state.Category != records.AllCategories {
		t.Fatalf("expected normalized category, got %q", state.Category)
	}
	event := <-events
	if event.Reason != "filter" || event.Viewer != "ada" || event.Page != erp.PageInventory || event.Filter.Search != "desk" {
		t.Fatalf("unexpected event %+v", event)
	}

	if err := env.service.ResetFilter(context.Background(), ViewerContext{UserID: "ada"}, erp.PageInventory); err != nil {
		t.Fatalf("ResetFilter: %v", err)
	}
	event = <-events
	if event.Reason != "filter_reset" {
		t.Fatalf("expected reset event, got %+v", event)
	}
	current, _ := env.service.Filter(context.Background(), ViewerContext{UserID: "ada"}, erp.PageInventory)
	if current != records.DefaultFilterState() {
		t.Fatalf("expected default filter after reset, got %+v", current)
	}
}

func TestApplyFilterRejectsDashboard(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.service.ApplyFilter(context.Background(), ViewerContext{}, erp.PageDashboard, records.FilterState{})
	if !errors.Is(err, errNotFilterable) {
		t.Fatalf("expected errNotFilterable, got %v", err)
	}
	if !IsNotFilterable(err) {
		t.Fatalf("expected IsNotFilterable to match")
	}
}

func TestAddWidgetEmitsRefreshHook(t *testing.T) {
	env := newTestEnv(t)
	events, cancel := env.hook.Subscribe()
	defer cancel()
	err := env.service.AddWidget(context.Background(), AddWidgetRequest{
		DefinitionID:  WidgetRoleStats,
		AreaCode:      AreaCode(erp.PageUsers, SlotMain),
		Configuration: map[string]any{},
	})
	if err != nil {
		t.Fatalf("AddWidget returned error: %v", err)
	}
	event := <-events
	if event.Reason != "add" || event.Page != erp.PageUsers || event.Instance.ID == "" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestAddWidgetValidatesInputs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.service.AddWidget(ctx, AddWidgetRequest{DefinitionID: WidgetRoleStats}); !errors.Is(err, errInvalidArea) {
		t.Fatalf("expected errInvalidArea, got %v", err)
	}
	if err := env.service.AddWidget(ctx, AddWidgetRequest{AreaCode: "erp.users.main"}); !errors.Is(err, errInvalidDefinition) {
		t.Fatalf("expected errInvalidDefinition, got %v", err)
	}
	var cfgErr *ConfigError
	err := env.service.AddWidget(ctx, AddWidgetRequest{DefinitionID: WidgetStockAlerts, AreaCode: "erp.users.main", Configuration: map[string]any{"limit": 0}})
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if err := NewService(Options{}).AddWidget(ctx, AddWidgetRequest{}); !errors.Is(err, errMissingWidgetStore) {
		t.Fatalf("expected missing store error, got %v", err)
	}
}

func TestRemoveWidget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	layout, _ := env.service.PageLayout(ctx, ViewerContext{}, erp.PageUsers)
	sidebar := layout.Areas[AreaCode(erp.PageUsers, SlotSidebar)]
	if len(sidebar) != 1 {
		t.Fatalf("expected role stats in sidebar")
	}
	if err := env.service.RemoveWidget(ctx, sidebar[0].ID); err != nil {
		t.Fatalf("RemoveWidget: %v", err)
	}
	if err := env.service.RemoveWidget(ctx, sidebar[0].ID); !errors.Is(err, ErrWidgetNotFound) {
		t.Fatalf("expected ErrWidgetNotFound, got %v", err)
	}
	layout, _ = env.service.PageLayout(ctx, ViewerContext{}, erp.PageUsers)
	if len(layout.Areas[AreaCode(erp.PageUsers, SlotSidebar)]) != 0 {
		t.Fatalf("expected widget removed")
	}
}

func TestNotifyWidgetUpdatedTelemetry(t *testing.T) {
	env := newTestEnv(t)
	err := env.service.NotifyWidgetUpdated(context.Background(), WidgetEvent{
		AreaCode: AreaCode(erp.PageInventory, SlotMain),
		Instance: WidgetInstance{ID: "w1"},
		Reason:   "refresh",
	})
	if err != nil {
		t.Fatalf("NotifyWidgetUpdated: %v", err)
	}
	payload, ok := env.telemetry.payload("dashboard.widget.event")
	if !ok || payload["reason"] != "refresh" || payload["widget_id"] != "w1" {
		t.Fatalf("unexpected telemetry %#v", payload)
	}
}

func TestRoleAuthorizer(t *testing.T) {
	auth := RoleAuthorizer{}
	restricted := WidgetInstance{Visibility: WidgetVisibility{Roles: []string{"admin"}}}
	if auth.CanViewWidget(context.Background(), ViewerContext{Roles: []string{"sales"}}, restricted) {
		t.Fatalf("sales must not see admin widget")
	}
	if !auth.CanViewWidget(context.Background(), ViewerContext{Roles: []string{"admin"}}, restricted) {
		t.Fatalf("admin must see admin widget")
	}
	if !auth.CanViewWidget(context.Background(), ViewerContext{}, WidgetInstance{}) {
		t.Fatalf("unrestricted widgets are public")
	}
}
