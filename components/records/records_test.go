package records

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID       string
	Name     string
	Code     string
	Category string
	Stock    int
	Price    decimal.Decimal
	Note     string
}

func sampleItems() RecordSet[item] {
	return NewRecordSet([]item{
		{ID: "A-1", Name: "Wireless Headphones", Code: "WH-001", Category: "Electronics", Stock: 45, Price: decimal.RequireFromString("89.99")},
		{ID: "A-2", Name: "Office Chair", Code: "OC-002", Category: "Furniture", Stock: 8, Price: decimal.RequireFromString("299.99"), Note: "fragile"},
		{ID: "A-3", Name: "USB Cable", Code: "UC-003", Category: "Electronics", Stock: 150, Price: decimal.RequireFromString("12.99")},
		{ID: "A-4", Name: "Laptop Stand", Code: "LS-004", Category: "Electronics", Stock: 0, Price: decimal.RequireFromString("45.99")},
	})
}

func itemPredicate() Predicate[item] {
	return NewPredicate(
		StringField("category", func(i item) string { return i.Category }),
		StringField("name", func(i item) string { return i.Name }),
		StringField("code", func(i item) string { return i.Code }),
		OptionalField("note", func(i item) string { return i.Note }),
	)
}

func TestRecordSetIsNotAliased(t *testing.T) {
	src := []item{{ID: "1"}, {ID: "2"}}
	set := NewRecordSet(src)
	src[0].ID = "changed"

	first, ok := set.At(0)
	require.True(t, ok)
	assert.Equal(t, "1", first.ID)

	items := set.Items()
	items[1].ID = "changed"
	second, _ := set.At(1)
	assert.Equal(t, "2", second.ID)

	_, ok = set.At(5)
	assert.False(t, ok)
}

func TestEmptySearchKeepsEverythingInOrder(t *testing.T) {
	set := sampleItems()
	got := itemPredicate().Apply(set, FilterState{})
	require.Equal(t, set.Len(), got.Len())
	assert.Equal(t, set.Items(), got.Items())

	got = itemPredicate().Apply(set, DefaultFilterState())
	assert.Equal(t, set.Items(), got.Items())
}

func TestSearchResultsContainTerm(t *testing.T) {
	set := sampleItems()
	pred := itemPredicate()
	for _, term := range []string{"c", "CABLE", "oc-", "xyz", "e", "FRAGILE"} {
		got := pred.Apply(set, FilterState{Search: term})
		assert.LessOrEqual(t, got.Len(), set.Len(), term)
		got.Each(func(_ int, rec item) bool {
			lower := strings.ToLower(term)
			hit := strings.Contains(strings.ToLower(rec.Name), lower) ||
				strings.Contains(strings.ToLower(rec.Code), lower) ||
				strings.Contains(strings.ToLower(rec.Note), lower)
			assert.True(t, hit, "record %s does not contain %q", rec.ID, term)
			return true
		})
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	got := itemPredicate().Apply(sampleItems(), FilterState{Search: "usb"})
	require.Equal(t, 1, got.Len())
	rec, _ := got.At(0)
	assert.Equal(t, "A-3", rec.ID)
}

func TestCategoryFilter(t *testing.T) {
	pred := itemPredicate()
	set := sampleItems()

	tests := []struct {
		name     string
		state    FilterState
		expected []string
	}{
		{name: "all sentinel", state: FilterState{Category: "all"}, expected: []string{"A-1", "A-2", "A-3", "A-4"}},
		{name: "sentinel ignores case", state: FilterState{Category: "ALL"}, expected: []string{"A-1", "A-2", "A-3", "A-4"}},
		{name: "lower case option", state: FilterState{Category: "furniture"}, expected: []string{"A-2"}},
		{name: "and with search", state: FilterState{Category: "Electronics", Search: "st"}, expected: []string{"A-4"}},
		{name: "no match", state: FilterState{Category: "Books"}, expected: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pred.Apply(set, tt.state)
			var ids []string
			got.Each(func(_ int, rec item) bool {
				ids = append(ids, rec.ID)
				return true
			})
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestAbsentFieldsNeverMatch(t *testing.T) {
	pred := NewPredicate(Field[item]{Name: "missing"}, OptionalField("note", func(i item) string { return i.Note }))
	assert.False(t, pred.Matches(item{}, FilterState{Search: "x"}))
	assert.False(t, pred.Matches(item{Note: "x"}, FilterState{Category: "Electronics"}))
	assert.True(t, pred.Matches(item{}, FilterState{}))
}

func TestAggregateCountsMatchFilteredLength(t *testing.T) {
	agg := NewAggregator(
		CountAll[item]("total"),
		CountWhere("out_of_stock", func(i item) bool { return i.Stock == 0 }),
		Sum("value", func(i item) decimal.Decimal { return i.Price.Mul(decimal.NewFromInt(int64(i.Stock))) }),
	)
	pred := itemPredicate()
	for _, state := range []FilterState{{}, {Search: "a"}, {Category: "Furniture"}, {Search: "zzz"}} {
		filtered := pred.Apply(sampleItems(), state)
		metrics := agg.Aggregate(filtered)
		assert.Equal(t, filtered.Len(), metrics.Count("total"))
	}

	metrics := agg.Aggregate(sampleItems())
	assert.Equal(t, 1, metrics.Count("out_of_stock"))
	assert.Equal(t, "8397.97", metrics.Sum("value").StringFixed(2))
	assert.Equal(t, 3, metrics.Len())
}

func TestAggregateSumsAreExact(t *testing.T) {
	set := NewRecordSet([]item{
		{Price: decimal.RequireFromString("0.1")},
		{Price: decimal.RequireFromString("0.2")},
	})
	metrics := NewAggregator(Sum("price", func(i item) decimal.Decimal { return i.Price })).Aggregate(set)
	assert.True(t, metrics.Sum("price").Equal(decimal.RequireFromString("0.3")))
}

func TestGroupMetricsPreserveFirstSeenOrder(t *testing.T) {
	agg := NewAggregator(
		GroupCount("by_category", func(i item) string { return i.Category }),
		GroupSum("stock_by_category", func(i item) string { return i.Category }, func(i item) decimal.Decimal {
			return decimal.NewFromInt(int64(i.Stock))
		}),
	)
	metrics := agg.Aggregate(sampleItems())

	byCategory, ok := metrics.Get("by_category")
	require.True(t, ok)
	require.Len(t, byCategory.Groups, 2)
	assert.Equal(t, "Electronics", byCategory.Groups[0].Key)
	assert.Equal(t, 3, byCategory.Groups[0].Count)
	assert.Equal(t, "Furniture", byCategory.Groups[1].Key)

	stock, _ := metrics.Get("stock_by_category")
	assert.Equal(t, int64(195), stock.Groups[0].Sum.IntPart())
	assert.Equal(t, int64(203), stock.Sum.IntPart())

	_, ok = metrics.Get("unknown")
	assert.False(t, ok)
}

func TestClassifierIsTotal(t *testing.T) {
	c := NewClassifier("status", []Entry{
		{Value: "Pending", Style: Style{Severity: SeverityWarning, Variant: "outline", Icon: "clock"}},
		{Value: "Cancelled", Style: Style{Severity: SeverityDanger, Variant: "destructive", Icon: "x-circle"}},
	})

	pending := c.Classify("pending")
	assert.Equal(t, "Pending", pending.Label)
	assert.Equal(t, SeverityWarning, pending.Severity)
	assert.Equal(t, "clock", pending.Icon)
	assert.Equal(t, "pending", pending.Slug)

	unknown := c.Classify("On Hold")
	assert.Equal(t, "On Hold", unknown.Label)
	assert.Equal(t, SeverityNeutral, unknown.Severity)
	assert.Equal(t, NeutralClass, unknown.Class)
	assert.Equal(t, "on-hold", unknown.Slug)
	assert.False(t, c.Known("On Hold"))
	assert.True(t, c.Known("CANCELLED"))
	assert.Equal(t, []string{"Pending", "Cancelled"}, c.Values())

	var missing *Classifier
	assert.Equal(t, SeverityNeutral, missing.Classify("x").Severity)
}

func TestClassifierFallbackOverride(t *testing.T) {
	c := NewClassifier("role", nil, WithFallback(Style{Severity: SeverityAccent, Icon: "user"}))
	style := c.Classify("Auditor")
	assert.Equal(t, "Auditor", style.Label)
	assert.Equal(t, SeverityAccent, style.Severity)
	assert.Equal(t, ClassFor(SeverityAccent), style.Class)
}

func newItemPage() *Page[item] {
	stock := NewClassifier("stock", []Entry{
		{Value: "empty", Style: Style{Severity: SeverityDanger}},
	})
	return NewPage(PageConfig[item]{
		Code:      "items",
		Title:     "Items",
		Records:   sampleItems(),
		Predicate: itemPredicate(),
		Metrics: NewAggregator(
			CountAll[item]("total"),
		),
		Badges: []Badge[item]{{
			Key: "stock",
			Field: StringField("stock", func(i item) string {
				if i.Stock == 0 {
					return "empty"
				}
				return "ok"
			}),
			Classifier: stock,
		}},
		Columns: []Column[item]{
			{Key: "id", Title: "ID", Value: func(i item) any { return i.ID }},
			{Key: "name", Title: "Name", Value: func(i item) any { return i.Name }},
		},
		EmptyMessage: "No items found",
	})
}

func TestPageAssemble(t *testing.T) {
	page := newItemPage()
	view := page.Assemble(FilterState{Category: "electronics"})

	assert.Equal(t, "electronics", view.State.Category)
	assert.Equal(t, 3, view.Visible.Len())
	assert.Equal(t, 3, view.Metrics.Count("total"))
	assert.Equal(t, 4, view.Overall.Count("total"))
	require.Len(t, view.Rows, 3)
	assert.Equal(t, "A-1", view.Rows[0].Record.ID)
	assert.Equal(t, SeverityNeutral, view.Rows[0].Badges["stock"].Severity)
	assert.Equal(t, SeverityDanger, view.Rows[2].Badges["stock"].Severity)
	assert.False(t, view.Empty)
	assert.Empty(t, view.EmptyMessage)
}

func TestPageEmptyStateIsNotAnError(t *testing.T) {
	view := newItemPage().Assemble(FilterState{Search: "nothing-here"})
	assert.True(t, view.Empty)
	assert.Equal(t, "No items found", view.EmptyMessage)
	assert.Equal(t, 0, view.Metrics.Count("total"))
	assert.NotNil(t, view.Rows)
}

func TestPageRender(t *testing.T) {
	table := newItemPage().Render(FilterState{Search: "chair"})
	assert.Equal(t, "items", table.Page)
	assert.Equal(t, 1, table.Visible)
	assert.Equal(t, 4, table.Total)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Office Chair", table.Rows[0].Cells["name"])
	assert.Equal(t, []string{"name", "code", "note"}, table.Filters.SearchFields)
	assert.Equal(t, "category", table.Filters.CategoryField)

	options := table.Filters.Options
	require.Len(t, options, 3)
	assert.Equal(t, AllCategories, options[0].Value)
	assert.Equal(t, "Electronics", options[1].Value)
	assert.Equal(t, "Furniture", options[2].Value)
}

func TestChartSpec(t *testing.T) {
	spec := ChartSpec{
		Data: []Datum{
			{"month": "Jan", "sales": 45000, "purchases": 32000.0},
			{"month": "Feb", "sales": 52000, "purchases": "38000"},
		},
		XField:  "month",
		YField:  "sales",
		YField2: "purchases",
		Kind:    ChartLine,
	}
	require.NoError(t, spec.Validate())
	assert.Equal(t, []string{"Jan", "Feb"}, spec.Labels())
	values, err := spec.Values("purchases")
	require.NoError(t, err)
	assert.Equal(t, []float64{32000, 38000}, values)

	spec.Kind = "pie"
	assert.Error(t, spec.Validate())

	spec.Kind = ChartBar
	spec.Data = append(spec.Data, Datum{"month": "Mar"})
	assert.Error(t, spec.Validate())
}

func TestChartFromGroups(t *testing.T) {
	metrics := NewAggregator(
		GroupSum("stock", func(i item) string { return i.Category }, func(i item) decimal.Decimal {
			return decimal.NewFromInt(int64(i.Stock))
		}),
	).Aggregate(sampleItems())
	value, _ := metrics.Get("stock")
	spec := ChartFromGroups(value, ChartBar, "category", "stock")
	require.NoError(t, spec.Validate())
	assert.Equal(t, []string{"Electronics", "Furniture"}, spec.Labels())
	values, _ := spec.Values("stock")
	assert.Equal(t, []float64{195, 8}, values)
}
