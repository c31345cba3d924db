package dashboard

import (
	"context"

	"github.com/goliatone/go-erp-dashboard/components/erp"
)

// ProviderOptions tunes the providers bound by Registry.RegisterCatalog.
type ProviderOptions struct {
	Currency     string
	ChartOptions []EChartsProviderOption
}

func catalogProviders(catalog *erp.Catalog, opts ProviderOptions) map[string]Provider {
	return map[string]Provider{
		WidgetKPICards:     NewKPIProvider(catalog, opts.Currency),
		WidgetRecordTable:  NewTableProvider(catalog),
		WidgetDatasetChart: NewDatasetChartProvider(catalog, opts.ChartOptions...),
		WidgetLineChart:    NewEChartsProvider("line", opts.ChartOptions...),
		WidgetBarChart:     NewEChartsProvider("bar", opts.ChartOptions...),
		WidgetRecentOrders: newRecentOrdersProvider(catalog, opts.Currency),
		WidgetStockAlerts:  newStockAlertsProvider(catalog),
		WidgetRoleStats:    newRoleStatsProvider(catalog),
		WidgetQuickActions: ProviderFunc(quickActions),
	}
}

func newRecentOrdersProvider(catalog *erp.Catalog, currency string) Provider {
	return ProviderFunc(func(_ context.Context, meta WidgetContext) (WidgetData, error) {
		limit := intValue(meta.Instance.Configuration["limit"], 5)
		format := NewNumberFormatter(meta.Viewer.Locale, currency)
		orders := catalog.RecentOrders()
		if limit > 0 && len(orders) > limit {
			orders = orders[:limit]
		}
		items := make([]map[string]any, 0, len(orders))
		for _, order := range orders {
			items = append(items, map[string]any{
				"id":       order.ID,
				"customer": order.Customer,
				"amount":   format.Currency(order.Amount),
				"status":   order.Status,
				"badge":    erp.OrderStatusStyles.Classify(order.Status),
			})
		}
		return WidgetData{"title": "Recent Orders", "items": items}, nil
	})
}

func newStockAlertsProvider(catalog *erp.Catalog) Provider {
	return ProviderFunc(func(_ context.Context, meta WidgetContext) (WidgetData, error) {
		limit := intValue(meta.Instance.Configuration["limit"], 5)
		alerts := catalog.StockAlerts()
		if limit > 0 && len(alerts) > limit {
			alerts = alerts[:limit]
		}
		items := make([]map[string]any, 0, len(alerts))
		for _, alert := range alerts {
			items = append(items, map[string]any{
				"item":      alert.Item,
				"category":  alert.Category,
				"current":   alert.Current,
				"minimum":   alert.Minimum,
				"shortfall": alert.Shortfall(),
				"badge":     erp.StockStatusStyles.Classify(string(erp.DeriveStockStatus(alert.Current, alert.Minimum))),
			})
		}
		return WidgetData{"title": "Low Stock Alerts", "items": items}, nil
	})
}

func newRoleStatsProvider(catalog *erp.Catalog) Provider {
	return ProviderFunc(func(_ context.Context, _ WidgetContext) (WidgetData, error) {
		stats := catalog.RoleStats()
		items := make([]map[string]any, 0, len(stats))
		total := 0
		for _, stat := range stats {
			total += stat.Count
			items = append(items, map[string]any{
				"role":  stat.Role,
				"count": stat.Count,
				"badge": erp.RoleStyles.Classify(stat.Role),
			})
		}
		return WidgetData{"title": "Role Statistics", "items": items, "total": total}, nil
	})
}

func quickActions(_ context.Context, meta WidgetContext) (WidgetData, error) {
	cfg := meta.Instance.Configuration
	var actions []map[string]any
	if list, ok := cfg["actions"].([]any); ok {
		for _, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			actions = append(actions, map[string]any{
				"label":       stringValue(entry["label"], ""),
				"description": stringValue(entry["description"], ""),
				"icon":        stringValue(entry["icon"], ""),
				"route":       stringValue(entry["route"], ""),
			})
		}
	}
	return WidgetData{
		"title":   stringValue(cfg["title"], "Quick Actions"),
		"actions": actions,
	}, nil
}
