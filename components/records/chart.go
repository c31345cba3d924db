package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ChartKind selects how a chart is drawn.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

// Datum is one data point keyed by field name.
type Datum map[string]any

// ChartSpec is the payload consumed by charting surfaces: a sequence of data
// points, the field plotted on the x axis, and one or two y fields.
type ChartSpec struct {
	Title   string    `json:"title,omitempty" yaml:"title,omitempty"`
	Data    []Datum   `json:"data" yaml:"data"`
	XField  string    `json:"xField" yaml:"x_field"`
	YField  string    `json:"yField" yaml:"y_field"`
	YField2 string    `json:"yField2,omitempty" yaml:"y_field2,omitempty"`
	Kind    ChartKind `json:"chartKind" yaml:"kind"`
}

var (
	errChartKind   = errors.New("records: chart kind must be line or bar")
	errChartFields = errors.New("records: chart requires xField and yField")
)

// Validate checks the chart can be drawn.
func (c ChartSpec) Validate() error {
	if c.Kind != ChartLine && c.Kind != ChartBar {
		return fmt.Errorf("%w: got %q", errChartKind, c.Kind)
	}
	if c.XField == "" || c.YField == "" {
		return errChartFields
	}
	for i, d := range c.Data {
		for _, field := range c.YFields() {
			if _, err := numeric(d[field]); err != nil {
				return fmt.Errorf("records: chart datum %d field %s: %w", i, field, err)
			}
		}
	}
	return nil
}

// YFields lists the plotted value fields.
func (c ChartSpec) YFields() []string {
	if c.YField2 == "" {
		return []string{c.YField}
	}
	return []string{c.YField, c.YField2}
}

// Labels returns the x axis labels.
func (c ChartSpec) Labels() []string {
	out := make([]string, len(c.Data))
	for i, d := range c.Data {
		out[i] = fmt.Sprint(d[c.XField])
	}
	return out
}

// Values returns the values of field across the data points.
func (c ChartSpec) Values(field string) ([]float64, error) {
	out := make([]float64, len(c.Data))
	for i, d := range c.Data {
		v, err := numeric(d[field])
		if err != nil {
			return nil, fmt.Errorf("records: chart datum %d field %s: %w", i, field, err)
		}
		out[i] = v
	}
	return out, nil
}

// ChartFromGroups turns a group-by metric into a chart spec.
func ChartFromGroups(value MetricValue, kind ChartKind, xField, yField string) ChartSpec {
	spec := ChartSpec{
		Title:  value.Name,
		XField: xField,
		YField: yField,
		Kind:   kind,
		Data:   make([]Datum, 0, len(value.Groups)),
	}
	for _, g := range value.Groups {
		var y any = g.Count
		if value.Kind == MetricGroupSum {
			y = g.Sum.InexactFloat64()
		}
		spec.Data = append(spec.Data, Datum{xField: g.Key, yField: y})
	}
	return spec
}

func numeric(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case decimal.Decimal:
		return val.InexactFloat64(), nil
	case json.Number:
		return val.Float64()
	case string:
		return strconv.ParseFloat(val, 64)
	case nil:
		return 0, errors.New("missing value")
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}
