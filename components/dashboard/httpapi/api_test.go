package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-erp-dashboard/components/erp"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

func newTestMux(t *testing.T) (*http.ServeMux, *dashboard.Service) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	catalog, err := erp.LoadCatalog(erp.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	store := dashboard.NewMemoryWidgetStore()
	reg := dashboard.NewRegistry()
	require.NoError(t, reg.RegisterCatalog(catalog, dashboard.ProviderOptions{
		ChartOptions: []dashboard.EChartsProviderOption{dashboard.WithChartCache(nil)},
	}))
	require.NoError(t, dashboard.RegisterAreas(ctx, store, nil))
	require.NoError(t, dashboard.RegisterDefinitions(ctx, store, reg))
	service := dashboard.NewService(dashboard.Options{
		WidgetStore: store,
		Providers:   reg,
		Source:      catalog,
		Now:         func() time.Time { return now },
	})
	require.NoError(t, dashboard.SeedLayout(ctx, service))

	handlers := &Handlers{
		Pages:      queries.NewPageQuery(dashboard.NewController(service)),
		Views:      queries.NewPageViewQuery(service),
		Filters:    queries.NewFilterQuery(service),
		Navigation: queries.NewNavigationQuery(),
		API: &CommandExecutor{
			ApplyFilterCommander: commands.NewApplyFilterCommand(service, nil),
			ResetFilterCommander: commands.NewResetFilterCommand(service, nil),
			AssignCommander:      commands.NewAssignWidgetCommand(service, nil),
			RemoveCommander:      commands.NewRemoveWidgetCommand(service, nil),
			MoveCommander:        commands.NewMoveWidgetCommand(service, nil),
		},
	}
	mux := http.NewServeMux()
	handlers.Mount(mux, "/api/")
	return mux, service
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleNavigation(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := serve(mux, http.MethodGet, "/api/navigation?active=inventory", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []dashboard.NavEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		assert.Equal(t, entry.Page == erp.PageInventory, entry.Active, entry.Title)
	}
}

func TestHandlePage(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := serve(mux, http.MethodGet, "/api/pages/inventory?viewer=ana", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Page   dashboard.PageDefinition `json:"page"`
		Layout struct {
			Order []string `json:"order"`
		} `json:"layout"`
		Table *records.Table `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, erp.PageInventory, payload.Page.Code)
	assert.NotEmpty(t, payload.Layout.Order)
	require.NotNil(t, payload.Table)
	assert.Equal(t, payload.Table.Total, payload.Table.Visible)
}

func TestHandlePageUnknown(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := serve(mux, http.MethodGet, "/api/pages/warehouse", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "unknown page")
}

func TestFilterRoundTripIsPerViewer(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := serve(mux, http.MethodPost, "/api/pages/inventory/filter?viewer=ana", `{"search":"","category":"Furniture"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := func(viewer string) records.Table {
		rec := serve(mux, http.MethodGet, "/api/pages/inventory/view?viewer="+viewer, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var table records.Table
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
		return table
	}

	filtered := view("ana")
	assert.Equal(t, "Furniture", filtered.State.Category)
	assert.Less(t, filtered.Visible, filtered.Total)
	assert.Positive(t, filtered.Visible)

	other := view("ben")
	assert.Equal(t, other.Total, other.Visible)

	rec = serve(mux, http.MethodDelete, "/api/pages/inventory/filter?viewer=ana", "")
	require.Equal(t, http.StatusOK, rec.Code)
	reset := view("ana")
	assert.Equal(t, reset.Total, reset.Visible)
}

func TestHandleFilterReadsStoredSelection(t *testing.T) {
	mux, _ := newTestMux(t)

	read := func(viewer string) records.FilterState {
		rec := serve(mux, http.MethodGet, "/api/pages/purchase-orders/filter?viewer="+viewer, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body struct {
			Page   string              `json:"page"`
			Filter records.FilterState `json:"filter"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, erp.PagePurchaseOrders, body.Page)
		return body.Filter
	}

	assert.Equal(t, records.DefaultFilterState(), read("ana"))

	rec := serve(mux, http.MethodPost, "/api/pages/purchase-orders/filter?viewer=ana", `{"search":"tech","category":"pending"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, records.FilterState{Search: "tech", Category: "pending"}, read("ana"))
	assert.Equal(t, records.DefaultFilterState(), read("ben"))

	rec = serve(mux, http.MethodGet, "/api/pages/dashboard/filter", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = serve(mux, http.MethodGet, "/api/pages/warehouse/filter", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilterErrors(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := serve(mux, http.MethodPost, "/api/pages/dashboard/filter", `{"search":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(mux, http.MethodPost, "/api/pages/inventory/filter", `{"search":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(mux, http.MethodPost, "/api/pages/warehouse/filter", `{"search":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAssignWidgetValidatesConfig(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := serve(mux, http.MethodPost, "/api/pages/inventory/widgets",
		fmt.Sprintf(`{"slot":"sidebar","widget":%q,"config":{"page":"warehouse"}}`, dashboard.WidgetRecordTable))
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Problems)
	assert.Equal(t, "/page", body.Problems[0].Path)

	rec = serve(mux, http.MethodPost, "/api/pages/inventory/widgets",
		fmt.Sprintf(`{"slot":"sidebar","widget":%q,"config":{"limit":2}}`, dashboard.WidgetStockAlerts))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHandleRemoveAndMoveWidget(t *testing.T) {
	mux, service := newTestMux(t)
	layout, err := service.PageLayout(context.Background(), dashboard.ViewerContext{UserID: "ana"}, erp.PageInventory)
	require.NoError(t, err)
	sidebar := layout.Areas[dashboard.AreaCode(erp.PageInventory, dashboard.SlotSidebar)]
	require.NotEmpty(t, sidebar)
	id := sidebar[0].ID

	rec := serve(mux, http.MethodPost, "/api/widgets/"+id+"/move",
		fmt.Sprintf(`{"area":%q,"position":0}`, dashboard.AreaCode(erp.PageInventory, dashboard.SlotMain)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(mux, http.MethodDelete, "/api/widgets/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(mux, http.MethodDelete, "/api/widgets/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshWithoutCommanderIsNotImplemented(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := serve(mux, http.MethodPost, "/api/widgets/refresh", `{}`)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("wrap: %w", dashboard.ErrUnknownPage), http.StatusNotFound},
		{fmt.Errorf("wrap: %w", erp.ErrUnknownChart), http.StatusNotFound},
		{dashboard.ErrWidgetNotFound, http.StatusNotFound},
		{&dashboard.ConfigError{Widget: "w"}, http.StatusBadRequest},
		{ErrBadPayload, http.StatusBadRequest},
		{ErrUnsupported, http.StatusNotImplemented},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), fmt.Sprint(tc.err))
	}
}

func TestViewerFromValues(t *testing.T) {
	viewer := ViewerFromValues(" ana ", "admin, manager,,", "EN-us")
	assert.Equal(t, "ana", viewer.UserID)
	assert.Equal(t, []string{"admin", "manager"}, viewer.Roles)
	assert.Equal(t, "en-us", viewer.Locale)

	assert.Equal(t, dashboard.AnonymousViewer, ViewerFromValues("", "", "").UserID)
	assert.Equal(t, "fr-ca", ParseAcceptLanguage("fr-CA;q=0.9, en;q=0.8"))
}
