package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-erp-dashboard/components/records"
)

// DatasetSource resolves named chart datasets.
type DatasetSource interface {
	Chart(code string) (records.ChartSpec, error)
}

// DatasetChartProvider draws a named dataset through the line or bar renderer
// matching its kind. The raw spec is returned next to the markup so clients can
// redraw it themselves.
type DatasetChartProvider struct {
	source    DatasetSource
	renderers map[records.ChartKind]*EChartsProvider
}

// NewDatasetChartProvider builds a provider backed by source. Render options
// apply to both the line and the bar renderer.
func NewDatasetChartProvider(source DatasetSource, opts ...EChartsProviderOption) *DatasetChartProvider {
	return &DatasetChartProvider{
		source: source,
		renderers: map[records.ChartKind]*EChartsProvider{
			records.ChartLine: NewEChartsProvider(records.ChartLine, opts...),
			records.ChartBar:  NewEChartsProvider(records.ChartBar, opts...),
		},
	}
}

// Fetch renders the dataset named by the "dataset" configuration key.
func (p *DatasetChartProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	if p.source == nil {
		return nil, fmt.Errorf("dataset chart provider: source is required")
	}
	cfg := meta.Instance.Configuration
	if cfg == nil {
		cfg = map[string]any{}
	}
	code := strings.TrimSpace(stringValue(cfg["dataset"], ""))
	if code == "" {
		return nil, fmt.Errorf("dataset chart provider: dataset is required")
	}
	spec, err := p.source.Chart(code)
	if err != nil {
		return nil, fmt.Errorf("dataset chart provider: %w", err)
	}
	if kind := records.ChartKind(strings.ToLower(stringValue(cfg["kind"], ""))); kind != "" {
		spec.Kind = kind
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("dataset chart provider: %s: %w", code, err)
	}

	series, err := SeriesFromSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("dataset chart provider: %s: %w", code, err)
	}

	temp := meta
	temp.Instance.Configuration = map[string]any{
		"title":            stringValue(cfg["title"], stringValue(spec.Title, code)),
		"subtitle":         cfg["subtitle"],
		"x_axis":           spec.Labels(),
		"series":           series,
		"theme":            cfg["theme"],
		"dynamic":          boolValue(cfg["dynamic"]),
		"refresh_endpoint": cfg["refresh_endpoint"],
	}

	data, err := p.renderers[spec.Kind].Fetch(ctx, temp)
	if err != nil {
		return nil, err
	}
	data["dataset"] = code
	data["spec"] = spec
	return data, nil
}

// SeriesFromSpec converts every y field of spec into chart series
// configuration understood by EChartsProvider.
func SeriesFromSpec(spec records.ChartSpec) ([]map[string]any, error) {
	series := make([]map[string]any, 0, 2)
	for _, field := range spec.YFields() {
		values, err := spec.Values(field)
		if err != nil {
			return nil, err
		}
		data := make([]any, len(values))
		for i, v := range values {
			data[i] = v
		}
		series = append(series, map[string]any{
			"name": seriesName(field),
			"data": data,
		})
	}
	return series, nil
}

func seriesName(field string) string {
	return strcase.ToCase(field, strcase.TitleCase, ' ')
}
