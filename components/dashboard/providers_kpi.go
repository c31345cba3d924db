package dashboard

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-erp-dashboard/components/erp"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

// KPISource exposes the tiles of a page and the tables their metrics are read from.
type KPISource interface {
	PageSource
	KPIs(page string) []erp.KPI
}

// KPIProvider renders the summary tiles of a page.
type KPIProvider struct {
	source   KPISource
	currency string
}

// NewKPIProvider builds a tile provider. Currency is an ISO 4217 code.
func NewKPIProvider(source KPISource, currency string) *KPIProvider {
	if currency == "" {
		currency = "USD"
	}
	return &KPIProvider{source: source, currency: currency}
}

// Fetch resolves every tile declared for the configured page. Tiles bound to
// the page being viewed honor the viewer's filter when their scope is visible.
func (p *KPIProvider) Fetch(_ context.Context, meta WidgetContext) (WidgetData, error) {
	if p.source == nil {
		return nil, fmt.Errorf("kpi provider: source is required")
	}
	cfg := meta.Instance.Configuration
	page := stringValue(cfg["page"], meta.Page)
	only := stringSliceValue(cfg["metrics"])
	format := NewNumberFormatter(meta.Viewer.Locale, p.currency)

	tables := map[string]records.Table{}
	tiles := make([]map[string]any, 0, 4)
	for _, kpi := range p.source.KPIs(page) {
		if len(only) > 0 && !slices.Contains(only, kpi.Metric) {
			continue
		}
		table, ok := tables[kpi.Page]
		if !ok {
			state := records.DefaultFilterState()
			if kpi.Page == meta.Page {
				state = meta.Filter
			}
			rendered, err := p.source.Render(kpi.Page, state)
			if err != nil {
				return nil, fmt.Errorf("kpi provider: %w", err)
			}
			table = rendered
			tables[kpi.Page] = table
		}
		metrics := table.Metrics
		if kpi.Scope == erp.ScopeOverall {
			metrics = table.Overall
		}
		value, ok := metrics.Get(kpi.Metric)
		if !ok {
			return nil, fmt.Errorf("kpi provider: %s has no metric %s", kpi.Page, kpi.Metric)
		}
		raw := metricAmount(value)
		tiles = append(tiles, map[string]any{
			"title":       kpi.Title,
			"page":        kpi.Page,
			"metric":      kpi.Metric,
			"scope":       string(kpi.Scope),
			"format":      string(kpi.Format),
			"raw":         raw.String(),
			"value":       formatKPI(format, kpi.Format, raw),
			"icon":        kpi.Icon,
			"description": kpi.Description,
			"change": map[string]any{
				"value": kpi.Change.Value,
				"type":  string(kpi.Change.Type),
				"style": erp.ChangeStyles.Classify(string(kpi.Change.Type)),
			},
		})
	}
	return WidgetData{"page": page, "tiles": tiles}, nil
}

func metricAmount(value records.MetricValue) decimal.Decimal {
	switch value.Kind {
	case records.MetricSum:
		return value.Sum
	case records.MetricGroupCount, records.MetricGroupSum:
		return decimal.NewFromInt(int64(len(value.Groups)))
	default:
		return decimal.NewFromInt(int64(value.Count))
	}
}

func formatKPI(f *NumberFormatter, kind erp.KPIFormat, value decimal.Decimal) string {
	switch kind {
	case erp.FormatCurrency:
		return f.Currency(value)
	case erp.FormatNumber:
		return f.Number(value)
	default:
		return f.Count(int(value.IntPart()))
	}
}
