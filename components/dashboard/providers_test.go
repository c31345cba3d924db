package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-erp-dashboard/components/erp"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

var fixedNow = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func loadCatalog(t *testing.T) *erp.Catalog {
	t.Helper()
	catalog, err := erp.LoadCatalog(erp.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return catalog
}

func tilesOf(t *testing.T, data WidgetData) map[string]map[string]any {
	t.Helper()
	tiles, ok := data["tiles"].([]map[string]any)
	require.True(t, ok, "tiles payload missing")
	out := make(map[string]map[string]any, len(tiles))
	for _, tile := range tiles {
		out[tile["title"].(string)] = tile
	}
	return out
}

func TestKPIProviderDashboardTiles(t *testing.T) {
	provider := NewKPIProvider(loadCatalog(t), "USD")
	data, err := provider.Fetch(context.Background(), WidgetContext{
		Instance: WidgetInstance{Configuration: map[string]any{"page": erp.PageDashboard}},
		Page:     erp.PageDashboard,
		Filter:   records.DefaultFilterState(),
	})
	require.NoError(t, err)

	tiles := tilesOf(t, data)
	require.Len(t, tiles, 4)
	assert.Contains(t, tiles["Total Revenue"]["value"], "389,450")
	assert.Equal(t, "389450", tiles["Total Revenue"]["raw"])
	assert.Equal(t, "203", tiles["Total Stock Items"]["value"])
	assert.Equal(t, "1", tiles["Pending Orders"]["value"])
	assert.Contains(t, tiles["Outstanding Payments"]["value"], "199,950")

	change := tiles["Total Revenue"]["change"].(map[string]any)
	assert.Equal(t, "+12.5%", change["value"])
	assert.Equal(t, records.SeveritySuccess, change["style"].(records.Style).Severity)
}

func TestKPIProviderHonorsPageFilter(t *testing.T) {
	provider := NewKPIProvider(loadCatalog(t), "USD")
	data, err := provider.Fetch(context.Background(), WidgetContext{
		Instance: WidgetInstance{Configuration: map[string]any{
			"page":    erp.PageInventory,
			"metrics": []any{"total_value"},
		}},
		Page:   erp.PageInventory,
		Filter: records.FilterState{Category: "electronics"},
	})
	require.NoError(t, err)

	tiles := tilesOf(t, data)
	require.Len(t, tiles, 1)
	assert.Contains(t, tiles["Total Inventory Value"]["value"], "5,998.05")
}

func TestTableProviderUsesViewerFilter(t *testing.T) {
	provider := NewTableProvider(loadCatalog(t))
	data, err := provider.Fetch(context.Background(), WidgetContext{
		Instance: WidgetInstance{Configuration: map[string]any{"page": erp.PagePurchaseOrders}},
		Page:     erp.PagePurchaseOrders,
		Filter:   records.FilterState{Category: "pending"},
	})
	require.NoError(t, err)
	table := data["table"].(records.Table)
	assert.Equal(t, 1, table.Visible)
	assert.Equal(t, 5, table.Total)

	data, err = provider.Fetch(context.Background(), WidgetContext{
		Instance: WidgetInstance{Configuration: map[string]any{"page": erp.PagePurchaseOrders}},
		Page:     erp.PageDashboard,
		Filter:   records.FilterState{Category: "pending"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, data["table"].(records.Table).Visible)

	_, err = provider.Fetch(context.Background(), WidgetContext{
		Instance: WidgetInstance{Configuration: map[string]any{"page": "warehouse"}},
	})
	require.ErrorIs(t, err, erp.ErrUnknownPage)
}

func TestDatasetChartProvider(t *testing.T) {
	provider := NewDatasetChartProvider(loadCatalog(t), WithChartCache(nil))
	data, err := provider.Fetch(context.Background(), sampleChartContext(WidgetDatasetChart, map[string]any{
		"dataset": "sales_trend",
	}))
	require.NoError(t, err)

	assert.Equal(t, "line", data["chart_type"])
	assert.Equal(t, "Sales vs Purchases", data["title"])
	assert.Equal(t, "sales_trend", data["dataset"])
	spec := data["spec"].(records.ChartSpec)
	assert.Equal(t, "month", spec.XField)
	assert.Len(t, spec.Data, 6)
	assert.Contains(t, html(data), "Purchases")

	data, err = provider.Fetch(context.Background(), sampleChartContext(WidgetDatasetChart, map[string]any{
		"dataset": "sales_trend",
		"kind":    "bar",
		"title":   "Sales (bars)",
	}))
	require.NoError(t, err)
	assert.Equal(t, "bar", data["chart_type"])
	assert.Equal(t, "Sales (bars)", data["title"])
}

func TestDatasetChartProviderUnknownDataset(t *testing.T) {
	provider := NewDatasetChartProvider(loadCatalog(t))
	_, err := provider.Fetch(context.Background(), sampleChartContext(WidgetDatasetChart, map[string]any{"dataset": "nope"}))
	require.ErrorIs(t, err, erp.ErrUnknownChart)

	_, err = provider.Fetch(context.Background(), sampleChartContext(WidgetDatasetChart, map[string]any{}))
	require.Error(t, err)
}

func TestSeriesFromSpec(t *testing.T) {
	series, err := SeriesFromSpec(records.ChartSpec{
		XField:  "month",
		YField:  "total_revenue",
		YField2: "profit",
		Kind:    records.ChartLine,
		Data: []records.Datum{
			{"month": "Jan", "total_revenue": 10, "profit": 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "Total Revenue", series[0]["name"])
	assert.Equal(t, []any{float64(2)}, series[1]["data"])
}

func TestRegisterCatalog(t *testing.T) {
	reg := NewRegistry()
	origin, ok := reg.Origin(WidgetLineChart)
	require.True(t, ok)
	assert.Equal(t, OriginBuiltin, origin)

	require.NoError(t, reg.RegisterCatalog(loadCatalog(t), ProviderOptions{Currency: "USD"}))
	for _, def := range DefaultWidgetDefinitions() {
		origin, ok := reg.Origin(def.Code)
		assert.Truef(t, ok, "provider for %s", def.Code)
		assert.Equalf(t, OriginCatalog, origin, "origin of %s", def.Code)
	}
	assert.Empty(t, reg.Unbound())
	require.Error(t, reg.RegisterCatalog(nil, ProviderOptions{}))
}

func TestRegisterCatalogKeepsCustomProviders(t *testing.T) {
	reg := NewRegistry()
	custom := ProviderFunc(func(context.Context, WidgetContext) (WidgetData, error) {
		return WidgetData{"custom": true}, nil
	})
	require.NoError(t, reg.RegisterProvider(WidgetRoleStats, custom))
	require.NoError(t, reg.RegisterCatalog(loadCatalog(t), ProviderOptions{}))

	origin, _ := reg.Origin(WidgetRoleStats)
	assert.Equal(t, OriginCustom, origin)
	provider, _ := reg.Provider(WidgetRoleStats)
	data, err := provider.Fetch(context.Background(), WidgetContext{})
	require.NoError(t, err)
	assert.Equal(t, true, data["custom"])
}

func TestRegistryRejectsProviderWithoutDefinition(t *testing.T) {
	reg := NewRegistry()
	noop := ProviderFunc(func(context.Context, WidgetContext) (WidgetData, error) { return nil, nil })
	require.Error(t, reg.RegisterProvider("erp.widget.ghost", noop))
	require.Error(t, reg.RegisterProvider(WidgetRoleStats, nil))

	require.NoError(t, reg.RegisterDefinition(WidgetDefinition{Code: "acme.widget.notes", Name: "Notes"}))
	assert.Contains(t, reg.Unbound(), "acme.widget.notes")
	require.NoError(t, reg.RegisterProvider("acme.widget.notes", noop))
	assert.NotContains(t, reg.Unbound(), "acme.widget.notes")
}

func TestListProviders(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCatalog(loadCatalog(t), ProviderOptions{}))
	ctx := context.Background()

	fetch := func(code string, cfg map[string]any) WidgetData {
		t.Helper()
		provider, ok := reg.Provider(code)
		require.True(t, ok)
		data, err := provider.Fetch(ctx, WidgetContext{Instance: WidgetInstance{DefinitionID: code, Configuration: cfg}})
		require.NoError(t, err)
		return data
	}

	orders := fetch(WidgetRecentOrders, map[string]any{"limit": 2})["items"].([]map[string]any)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-2024-001", orders[0]["id"])
	assert.Contains(t, orders[0]["amount"], "15,750")
	assert.Equal(t, records.SeverityWarning, orders[0]["badge"].(records.Style).Severity)

	alerts := fetch(WidgetStockAlerts, nil)["items"].([]map[string]any)
	require.Len(t, alerts, 3)
	assert.Equal(t, 12, alerts[0]["shortfall"])

	roles := fetch(WidgetRoleStats, nil)
	assert.Equal(t, 183, roles["total"])

	actions := fetch(WidgetQuickActions, map[string]any{"actions": []any{
		map[string]any{"label": "Add Product", "route": "/inventory"},
		"ignored",
	}})
	assert.Equal(t, "Quick Actions", actions["title"])
	assert.Len(t, actions["actions"], 1)
}
