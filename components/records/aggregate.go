package records

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MetricKind identifies how a metric reduces a record set.
type MetricKind string

const (
	MetricCount      MetricKind = "count"
	MetricSum        MetricKind = "sum"
	MetricGroupCount MetricKind = "group_count"
	MetricGroupSum   MetricKind = "group_sum"
)

// Metric declares one named reduction over records of type T.
type Metric[T any] struct {
	Name   string
	Kind   MetricKind
	where  func(T) bool
	amount func(T) decimal.Decimal
	key    func(T) string
}

// CountAll counts every record.
func CountAll[T any](name string) Metric[T] {
	return Metric[T]{Name: name, Kind: MetricCount}
}

// CountWhere counts records for which where holds.
func CountWhere[T any](name string, where func(T) bool) Metric[T] {
	return Metric[T]{Name: name, Kind: MetricCount, where: where}
}

// Sum adds amount across every record.
func Sum[T any](name string, amount func(T) decimal.Decimal) Metric[T] {
	return Metric[T]{Name: name, Kind: MetricSum, amount: amount}
}

// SumWhere adds amount across records for which where holds.
func SumWhere[T any](name string, where func(T) bool, amount func(T) decimal.Decimal) Metric[T] {
	return Metric[T]{Name: name, Kind: MetricSum, where: where, amount: amount}
}

// GroupCount counts records per key, in first-seen key order.
func GroupCount[T any](name string, key func(T) string) Metric[T] {
	return Metric[T]{Name: name, Kind: MetricGroupCount, key: key}
}

// GroupSum adds amount per key, in first-seen key order.
func GroupSum[T any](name string, key func(T) string, amount func(T) decimal.Decimal) Metric[T] {
	return Metric[T]{Name: name, Kind: MetricGroupSum, key: key, amount: amount}
}

// Group is one bucket of a group-by metric.
type Group struct {
	Key   string          `json:"key" yaml:"key"`
	Count int             `json:"count" yaml:"count"`
	Sum   decimal.Decimal `json:"sum" yaml:"sum"`
}

// MetricValue is the computed result of a Metric.
type MetricValue struct {
	Name   string          `json:"name" yaml:"name"`
	Kind   MetricKind      `json:"kind" yaml:"kind"`
	Count  int             `json:"count" yaml:"count"`
	Sum    decimal.Decimal `json:"sum" yaml:"sum"`
	Groups []Group         `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Metrics keeps computed values in declaration order.
type Metrics struct {
	values []MetricValue
	index  map[string]int
}

// Get returns the metric with the given name.
func (m Metrics) Get(name string) (MetricValue, bool) {
	idx, ok := m.index[name]
	if !ok {
		return MetricValue{}, false
	}
	return m.values[idx], true
}

// Count returns the count of the named metric, zero when missing.
func (m Metrics) Count(name string) int {
	v, _ := m.Get(name)
	return v.Count
}

// Sum returns the sum of the named metric, zero when missing.
func (m Metrics) Sum(name string) decimal.Decimal {
	v, _ := m.Get(name)
	return v.Sum
}

// Values returns a copy of the computed values in declaration order.
func (m Metrics) Values() []MetricValue {
	out := make([]MetricValue, len(m.values))
	copy(out, m.values)
	return out
}

// Len returns the number of metrics.
func (m Metrics) Len() int {
	return len(m.values)
}

func (m Metrics) MarshalJSON() ([]byte, error) {
	if m.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.values)
}

func (m Metrics) MarshalYAML() (any, error) {
	return m.values, nil
}

// Aggregator computes a fixed list of metrics over record sets.
type Aggregator[T any] struct {
	metrics []Metric[T]
}

// NewAggregator declares the metrics computed by Aggregate.
func NewAggregator[T any](metrics ...Metric[T]) Aggregator[T] {
	return Aggregator[T]{metrics: append([]Metric[T](nil), metrics...)}
}

// Aggregate recomputes every metric over set.
func (a Aggregator[T]) Aggregate(set RecordSet[T]) Metrics {
	out := Metrics{
		values: make([]MetricValue, 0, len(a.metrics)),
		index:  make(map[string]int, len(a.metrics)),
	}
	for _, metric := range a.metrics {
		out.index[metric.Name] = len(out.values)
		out.values = append(out.values, metric.compute(set))
	}
	return out
}

func (m Metric[T]) compute(set RecordSet[T]) MetricValue {
	value := MetricValue{Name: m.Name, Kind: m.Kind, Sum: decimal.Zero}
	switch m.Kind {
	case MetricGroupCount, MetricGroupSum:
		value.Groups = m.groups(set)
		for _, g := range value.Groups {
			value.Count += g.Count
			value.Sum = value.Sum.Add(g.Sum)
		}
	default:
		set.Each(func(_ int, rec T) bool {
			if m.where != nil && !m.where(rec) {
				return true
			}
			value.Count++
			if m.amount != nil {
				value.Sum = value.Sum.Add(m.amount(rec))
			}
			return true
		})
	}
	return value
}

func (m Metric[T]) groups(set RecordSet[T]) []Group {
	if m.key == nil {
		return nil
	}
	var groups []Group
	index := map[string]int{}
	set.Each(func(_ int, rec T) bool {
		key := m.key(rec)
		idx, ok := index[key]
		if !ok {
			idx = len(groups)
			index[key] = idx
			groups = append(groups, Group{Key: key, Sum: decimal.Zero})
		}
		groups[idx].Count++
		if m.amount != nil {
			groups[idx].Sum = groups[idx].Sum.Add(m.amount(rec))
		}
		return true
	})
	return groups
}
