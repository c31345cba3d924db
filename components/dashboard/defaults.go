package dashboard

import (
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-erp-dashboard/components/erp"
)

// Built-in widget codes.
const (
	WidgetKPICards     = "erp.widget.kpi_cards"
	WidgetRecordTable  = "erp.widget.record_table"
	WidgetDatasetChart = "erp.widget.dataset_chart"
	WidgetLineChart    = "erp.widget.line_chart"
	WidgetBarChart     = "erp.widget.bar_chart"
	WidgetRecentOrders = "erp.widget.recent_orders"
	WidgetStockAlerts  = "erp.widget.stock_alerts"
	WidgetRoleStats    = "erp.widget.role_stats"
	WidgetQuickActions = "erp.widget.quick_actions"
)

// Area slots every page exposes.
const (
	SlotHeader  = "header"
	SlotMain    = "main"
	SlotSidebar = "sidebar"
)

// AreaCode returns the widget area code of a page slot.
func AreaCode(page, slot string) string {
	return "erp." + page + "." + slot
}

// splitAreaCode reverses AreaCode.
func splitAreaCode(code string) (page, slot string) {
	rest := strings.TrimPrefix(code, "erp.")
	idx := strings.LastIndex(rest, ".")
	if idx < 0 {
		return rest, ""
	}
	return rest[:idx], rest[idx+1:]
}

func pageAreas(page, title string) []WidgetAreaDefinition {
	return []WidgetAreaDefinition{
		{Code: AreaCode(page, SlotHeader), Name: title + " (Header)", Description: "KPI tiles"},
		{Code: AreaCode(page, SlotMain), Name: title + " (Main)", Description: "Primary canvas"},
		{Code: AreaCode(page, SlotSidebar), Name: title + " (Sidebar)", Description: "Secondary widgets"},
	}
}

var defaultPages = []PageDefinition{
	{Code: erp.PageDashboard, Title: "Dashboard", Description: "Business overview", Areas: pageAreas(erp.PageDashboard, "Dashboard")},
	{Code: erp.PageUsers, Title: "User Management", Description: "Manage users, roles, and permissions", Filterable: true, Areas: pageAreas(erp.PageUsers, "Users")},
	{Code: erp.PageInventory, Title: "Inventory Management", Description: "Track and manage your product inventory", Filterable: true, Areas: pageAreas(erp.PageInventory, "Inventory")},
	{Code: erp.PagePurchaseOrders, Title: "Purchase Orders", Description: "Manage vendor orders and procurement", Filterable: true, Areas: pageAreas(erp.PagePurchaseOrders, "Purchase Orders")},
	{Code: erp.PageSalesOrders, Title: "Sales Orders", Description: "Manage customer orders and deliveries", Filterable: true, Areas: pageAreas(erp.PageSalesOrders, "Sales Orders")},
	{Code: erp.PageReports, Title: "Reports & Analytics", Description: "Generate insights and track business performance", Filterable: true, Areas: pageAreas(erp.PageReports, "Reports")},
}

var listingPages = []string{
	erp.PageInventory,
	erp.PagePurchaseOrders,
	erp.PageSalesOrders,
	erp.PageUsers,
	erp.PageReports,
}

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code:        WidgetKPICards,
		Name:        "KPI Cards",
		Description: "Summary tiles bound to page metrics",
		Category:    "stats",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"page"},
			"properties": map[string]any{
				"page": map[string]any{"type": "string", "minLength": 1},
				"metrics": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetRecordTable,
		Name:        "Record Table",
		Description: "Filterable listing of page records",
		Category:    "records",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"page"},
			"properties": map[string]any{
				"page": map[string]any{"type": "string", "enum": listingPages},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetDatasetChart,
		Name:        "Dataset Chart",
		Description: "Line or bar chart drawn from a named dataset",
		Category:    "charts",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"dataset"},
			"properties": map[string]any{
				"dataset":  map[string]any{"type": "string", "minLength": 1},
				"kind":     map[string]any{"type": "string", "enum": []string{"line", "bar"}},
				"title":    map[string]any{"type": "string"},
				"subtitle": map[string]any{"type": "string"},
				"theme":    themeSchema(),
				"dynamic":  map[string]any{"type": "boolean", "default": false},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetLineChart,
		Name:        "Line Chart",
		Description: "Line chart from inline series",
		Category:    "charts",
		Schema:      chartConfigSchema(),
	},
	{
		Code:        WidgetBarChart,
		Name:        "Bar Chart",
		Description: "Bar chart from inline series",
		Category:    "charts",
		Schema:      chartConfigSchema(),
	},
	{
		Code:        WidgetRecentOrders,
		Name:        "Recent Orders",
		Description: "Latest orders with status badges",
		Category:    "activity",
		Schema:      limitSchema(5),
	},
	{
		Code:        WidgetStockAlerts,
		Name:        "Low Stock Alerts",
		Description: "Items below their minimum stock level",
		Category:    "alerts",
		Schema:      limitSchema(5),
	},
	{
		Code:        WidgetRoleStats,
		Name:        "Role Statistics",
		Description: "Headcount per role",
		Category:    "stats",
		Schema:      map[string]any{"type": "object", "additionalProperties": false},
	},
	{
		Code:        WidgetQuickActions,
		Name:        "Quick Actions",
		Description: "Common shortcuts",
		Category:    "actions",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"actions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []string{"label"},
						"properties": map[string]any{
							"label":       map[string]any{"type": "string"},
							"description": map[string]any{"type": "string"},
							"icon":        map[string]any{"type": "string"},
							"route":       map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	},
}

func themeSchema() map[string]any {
	return map[string]any{
		"type": "string",
		"enum": []string{
			string(types.ThemeWesteros),
			string(types.ThemeWalden),
			string(types.ThemeWonderland),
			string(types.ThemeChalk),
		},
	}
}

func limitSchema(def int) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 50, "default": def},
		},
		"additionalProperties": false,
	}
}

func chartConfigSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"series"},
		"properties": map[string]any{
			"title":    map[string]any{"type": "string", "default": "Chart"},
			"subtitle": map[string]any{"type": "string"},
			"x_axis": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"series": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"name", "data"},
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
						"data": map[string]any{
							"type":     "array",
							"minItems": 1,
							"items":    map[string]any{"type": "number"},
						},
					},
				},
			},
			"theme":   themeSchema(),
			"dynamic": map[string]any{"type": "boolean", "default": false},
		},
	}
}

func seed(def, page, slot string, cfg map[string]any) AddWidgetRequest {
	return AddWidgetRequest{DefinitionID: def, AreaCode: AreaCode(page, slot), Configuration: cfg}
}

func actions(items ...map[string]any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

var defaultSeedConfigs = []AddWidgetRequest{
	seed(WidgetKPICards, erp.PageDashboard, SlotHeader, map[string]any{"page": erp.PageDashboard}),
	seed(WidgetDatasetChart, erp.PageDashboard, SlotMain, map[string]any{"dataset": "sales_trend"}),
	seed(WidgetDatasetChart, erp.PageDashboard, SlotMain, map[string]any{"dataset": "inventory_by_category"}),
	seed(WidgetRecentOrders, erp.PageDashboard, SlotMain, map[string]any{"limit": 4}),
	seed(WidgetStockAlerts, erp.PageDashboard, SlotSidebar, map[string]any{"limit": 5}),
	seed(WidgetQuickActions, erp.PageDashboard, SlotSidebar, map[string]any{"actions": actions(
		map[string]any{"label": "Add Product", "icon": "package", "route": "/inventory"},
		map[string]any{"label": "New Order", "icon": "shopping-cart", "route": "/sales"},
		map[string]any{"label": "Add Customer", "icon": "users", "route": "/customers"},
		map[string]any{"label": "Process Payment", "icon": "dollar-sign", "route": "/finance"},
	)}),

	seed(WidgetKPICards, erp.PageInventory, SlotHeader, map[string]any{"page": erp.PageInventory}),
	seed(WidgetRecordTable, erp.PageInventory, SlotMain, map[string]any{"page": erp.PageInventory}),
	seed(WidgetDatasetChart, erp.PageInventory, SlotSidebar, map[string]any{"dataset": "inventory_value_by_category"}),
	seed(WidgetQuickActions, erp.PageInventory, SlotSidebar, map[string]any{"actions": actions(
		map[string]any{"label": "View Details", "description": "Reorder Alerts", "icon": "alert-triangle"},
		map[string]any{"label": "Generate Report", "description": "Stock Analysis", "icon": "bar-chart-3", "route": "/reports"},
		map[string]any{"label": "Start Bulk Edit", "description": "Bulk Operations", "icon": "package"},
	)}),

	seed(WidgetKPICards, erp.PagePurchaseOrders, SlotHeader, map[string]any{"page": erp.PagePurchaseOrders}),
	seed(WidgetRecordTable, erp.PagePurchaseOrders, SlotMain, map[string]any{"page": erp.PagePurchaseOrders}),
	seed(WidgetQuickActions, erp.PagePurchaseOrders, SlotSidebar, map[string]any{"actions": actions(
		map[string]any{"label": "Review Now", "description": "Pending Approvals", "icon": "clock"},
		map[string]any{"label": "Track Orders", "description": "Track Shipments", "icon": "truck"},
		map[string]any{"label": "View Analytics", "description": "Vendor Performance", "icon": "trending-up", "route": "/analytics"},
	)}),

	seed(WidgetKPICards, erp.PageSalesOrders, SlotHeader, map[string]any{"page": erp.PageSalesOrders}),
	seed(WidgetRecordTable, erp.PageSalesOrders, SlotMain, map[string]any{"page": erp.PageSalesOrders}),
	seed(WidgetDatasetChart, erp.PageSalesOrders, SlotSidebar, map[string]any{"dataset": "revenue_by_customer_type"}),
	seed(WidgetQuickActions, erp.PageSalesOrders, SlotSidebar, map[string]any{"actions": actions(
		map[string]any{"label": "Start Packing", "description": "Pack Orders", "icon": "package"},
		map[string]any{"label": "Create Invoices", "description": "Generate Invoices", "icon": "file-text"},
		map[string]any{"label": "View Reports", "description": "Customer Analytics", "icon": "bar-chart-3", "route": "/reports"},
	)}),

	seed(WidgetKPICards, erp.PageUsers, SlotHeader, map[string]any{"page": erp.PageUsers}),
	seed(WidgetRecordTable, erp.PageUsers, SlotMain, map[string]any{"page": erp.PageUsers}),
	seed(WidgetRoleStats, erp.PageUsers, SlotSidebar, map[string]any{}),

	seed(WidgetDatasetChart, erp.PageReports, SlotMain, map[string]any{"dataset": "monthly_revenue"}),
	seed(WidgetDatasetChart, erp.PageReports, SlotMain, map[string]any{"dataset": "category_performance"}),
	seed(WidgetRecordTable, erp.PageReports, SlotMain, map[string]any{"page": erp.PageReports}),
	seed(WidgetQuickActions, erp.PageReports, SlotSidebar, map[string]any{"title": "Quick Reports", "actions": actions(
		map[string]any{"label": "Generate", "description": "Sales Summary", "icon": "trending-up"},
		map[string]any{"label": "Generate", "description": "Stock Report", "icon": "package"},
		map[string]any{"label": "Generate", "description": "Financial Report", "icon": "dollar-sign"},
		map[string]any{"label": "Generate", "description": "Customer Report", "icon": "users"},
	)}),
}

// DefaultPages returns copies of the built-in page definitions.
func DefaultPages() []PageDefinition {
	out := make([]PageDefinition, len(defaultPages))
	for i, page := range defaultPages {
		page.Areas = append([]WidgetAreaDefinition(nil), page.Areas...)
		out[i] = page
	}
	return out
}

// DefaultAreaDefinitions returns the areas of every built-in page.
func DefaultAreaDefinitions() []WidgetAreaDefinition {
	var out []WidgetAreaDefinition
	for _, page := range defaultPages {
		out = append(out, page.Areas...)
	}
	return out
}

// DefaultWidgetDefinitions returns copies of built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(out, defaultWidgetDefinitions)
	return out
}

// DefaultSeedWidgets returns the starter widget placements of every page.
func DefaultSeedWidgets() []AddWidgetRequest {
	out := make([]AddWidgetRequest, len(defaultSeedConfigs))
	for i, cfg := range defaultSeedConfigs {
		copyCfg := cfg
		copyCfg.Configuration = make(map[string]any, len(cfg.Configuration))
		for k, v := range cfg.Configuration {
			copyCfg.Configuration[k] = v
		}
		out[i] = copyCfg
	}
	return out
}
