package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-erp-dashboard/components/records"
)

const (
	defaultChartHeight = "360px"
	// DefaultChartAssetsHost serves the ECharts scripts referenced by rendered charts.
	DefaultChartAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
)

var sharedChartCache = NewChartCache(5 * time.Minute)

type chartRenderContext struct {
	Viewer ViewerContext
	Theme  string
}

// ThemeResolver selects a chart theme per viewer.
type ThemeResolver func(ViewerContext) string

// EChartsProvider renders server-side chart HTML for a line or bar chart.
type EChartsProvider struct {
	chartType     records.ChartKind
	cache         RenderCache
	theme         string
	themeResolver ThemeResolver
	assetsHost    string
}

// EChartsProviderOption customizes provider behavior.
type EChartsProviderOption func(*EChartsProvider)

// WithChartCache injects a render cache. A nil cache disables caching.
func WithChartCache(cache RenderCache) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.theme = theme
	}
}

// WithChartThemeResolver resolves themes dynamically per viewer.
func WithChartThemeResolver(resolver ThemeResolver) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.themeResolver = resolver
	}
}

// WithChartAssetsHost rewrites the host the ECharts scripts load from.
func WithChartAssetsHost(host string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.assetsHost = host
	}
}

// NewEChartsProvider builds a provider for a chart kind.
func NewEChartsProvider(kind records.ChartKind, opts ...EChartsProviderOption) *EChartsProvider {
	p := &EChartsProvider{
		chartType:  records.ChartKind(strings.ToLower(string(kind))),
		cache:      sharedChartCache,
		theme:      types.ThemeWesteros,
		assetsHost: DefaultChartAssetsHost,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Kind is the chart kind the provider draws.
func (p *EChartsProvider) Kind() records.ChartKind {
	return p.chartType
}

// Fetch converts widget configuration (title, x_axis, series) into go-echarts markup.
func (p *EChartsProvider) Fetch(_ context.Context, meta WidgetContext) (WidgetData, error) {
	cfg := meta.Instance.Configuration
	if cfg == nil {
		cfg = map[string]any{}
	}

	title := stringValue(cfg["title"], "Chart")
	subtitle := stringValue(cfg["subtitle"], "")

	series := parseChartSeries(cfg["series"])
	if len(series) == 0 {
		return nil, fmt.Errorf("dashboard: chart series is required")
	}

	xAxis := stringSliceValue(cfg["x_axis"])
	if len(xAxis) == 0 {
		xAxis = inferredAxisLabels(series)
	}

	renderCtx := chartRenderContext{
		Viewer: meta.Viewer,
		Theme:  p.resolveTheme(meta.Viewer),
	}
	if override := strings.TrimSpace(stringValue(cfg["theme"], "")); override != "" {
		renderCtx.Theme = override
	}

	renderFn := func() (string, error) {
		return p.render(title, subtitle, xAxis, series, renderCtx)
	}

	var (
		html string
		err  error
	)
	if p.cache != nil {
		key := fmt.Sprintf("%s:%s:%s:%s:%s", meta.Instance.DefinitionID, meta.Instance.ID, p.chartType, renderCtx.Theme, configHash(cfg))
		html, err = p.cache.GetOrRender(key, renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return nil, err
	}

	data := WidgetData{
		"chart_html": html,
		"chart_type": string(p.chartType),
		"title":      title,
		"subtitle":   subtitle,
		"theme":      renderCtx.Theme,
	}
	if boolValue(cfg["dynamic"]) {
		data["dynamic"] = true
		if refresh := stringValue(cfg["refresh_endpoint"], ""); refresh != "" {
			data["refresh_endpoint"] = refresh
		}
	}
	return data, nil
}

func (p *EChartsProvider) render(title, subtitle string, xAxis []string, series []ChartSeries, ctx chartRenderContext) (string, error) {
	switch p.chartType {
	case records.ChartBar:
		return p.renderBarChart(title, subtitle, xAxis, series, ctx)
	case records.ChartLine:
		return p.renderLineChart(title, subtitle, xAxis, series, ctx)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart type: %s", p.chartType)
	}
}

func (p *EChartsProvider) renderBarChart(title, subtitle string, xAxis []string, series []ChartSeries, ctx chartRenderContext) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(p.globalChartOptions(title, subtitle, ctx)...)
	bar.SetXAxis(xAxis)
	for _, s := range series {
		bar.AddSeries(s.Name, toBarData(s.Points))
	}
	return renderChart(bar)
}

func (p *EChartsProvider) renderLineChart(title, subtitle string, xAxis []string, series []ChartSeries, ctx chartRenderContext) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(p.globalChartOptions(title, subtitle, ctx)...)
	line.SetXAxis(xAxis)
	for _, s := range series {
		line.AddSeries(s.Name, toLineData(s.Points))
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *EChartsProvider) globalChartOptions(title, subtitle string, ctx chartRenderContext) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  ctx.Theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if p.assetsHost != "" {
		initOpts.AssetsHost = p.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func (p *EChartsProvider) resolveTheme(viewer ViewerContext) string {
	if p.themeResolver != nil {
		if theme := p.themeResolver(viewer); theme != "" {
			return theme
		}
	}
	if p.theme != "" {
		return p.theme
	}
	return types.ThemeWesteros
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

// ChartSeries is a set of values plotted for one legend entry.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint is an individual, optionally labelled, value.
type ChartPoint struct {
	Label string
	Value float64
}

func parseChartSeries(v any) []ChartSeries {
	var items []map[string]any
	switch val := v.(type) {
	case []map[string]any:
		items = val
	case []any:
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			}
		}
	default:
		return nil
	}
	out := make([]ChartSeries, 0, len(items))
	for _, item := range items {
		series := ChartSeries{
			Name:   stringValue(item["name"], "Series"),
			Points: parseChartPoints(item["data"]),
		}
		if len(series.Points) > 0 {
			out = append(out, series)
		}
	}
	return out
}

func parseChartPoints(v any) []ChartPoint {
	switch value := v.(type) {
	case []float64:
		points := make([]ChartPoint, len(value))
		for i, val := range value {
			points[i] = ChartPoint{Value: val}
		}
		return points
	case []any:
		points := make([]ChartPoint, 0, len(value))
		for _, item := range value {
			if m, ok := item.(map[string]any); ok {
				points = append(points, ChartPoint{
					Label: stringValue(m["name"], ""),
					Value: float64Value(m["value"]),
				})
				continue
			}
			points = append(points, ChartPoint{Value: float64Value(item)})
		}
		return points
	default:
		return nil
	}
}

func inferredAxisLabels(series []ChartSeries) []string {
	var candidate []string
	longest := 0
	for _, s := range series {
		if len(s.Points) <= longest {
			continue
		}
		longest = len(s.Points)
		candidate = make([]string, len(s.Points))
		for i, point := range s.Points {
			if point.Label != "" {
				candidate[i] = point.Label
			} else {
				candidate[i] = fmt.Sprintf("Item %d", i+1)
			}
		}
	}
	return candidate
}

func stringSliceValue(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func intValue(v any, fallback int) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n)
		}
	}
	return fallback
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true")
	case int:
		return val != 0
	default:
		return false
	}
}

func init() {
	RegisterWidgetHook(func(reg *Registry) error {
		providers := map[string]records.ChartKind{
			WidgetBarChart:  records.ChartBar,
			WidgetLineChart: records.ChartLine,
		}
		for code, kind := range providers {
			if _, ok := reg.Provider(code); ok {
				continue
			}
			if _, ok := reg.Definition(code); !ok {
				continue
			}
			if err := reg.bind(code, NewEChartsProvider(kind), OriginBuiltin); err != nil {
				return err
			}
		}
		return nil
	})
}
