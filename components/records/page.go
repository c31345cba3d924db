package records

import "strings"

// DefaultEmptyMessage is shown when a filter leaves no visible record.
const DefaultEmptyMessage = "No records found"

// Column projects one table cell out of a record.
type Column[T any] struct {
	Key   string
	Title string
	Value func(T) any
}

// Badge classifies one field of every visible record.
type Badge[T any] struct {
	Key        string
	Field      Field[T]
	Classifier *Classifier
}

// Option is a selectable category value.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// PageConfig declares a record-listing page.
type PageConfig[T any] struct {
	Code         string
	Title        string
	Description  string
	Records      RecordSet[T]
	Predicate    Predicate[T]
	Metrics      Aggregator[T]
	Badges       []Badge[T]
	Columns      []Column[T]
	Categories   []Option
	AllLabel     string
	EmptyMessage string
}

// Page assembles view models for one listing.
type Page[T any] struct {
	cfg PageConfig[T]
}

// NewPage builds a page from its configuration.
func NewPage[T any](cfg PageConfig[T]) *Page[T] {
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = DefaultEmptyMessage
	}
	if cfg.AllLabel == "" {
		cfg.AllLabel = "All"
	}
	return &Page[T]{cfg: cfg}
}

// Code identifies the page.
func (p *Page[T]) Code() string { return p.cfg.Code }

// Title is the display title of the page.
func (p *Page[T]) Title() string { return p.cfg.Title }

// Records returns the full, unfiltered record set.
func (p *Page[T]) Records() RecordSet[T] { return p.cfg.Records }

// Row pairs a visible record with its classified badges.
type Row[T any] struct {
	Record T
	Badges map[string]Style
}

// View is the typed view model for a page under a filter state.
type View[T any] struct {
	State        FilterState
	Visible      RecordSet[T]
	Rows         []Row[T]
	Metrics      Metrics
	Overall      Metrics
	Total        int
	Empty        bool
	EmptyMessage string
}

// Assemble filters the page records, aggregates the filtered and full sets,
// and classifies every visible record.
func (p *Page[T]) Assemble(state FilterState) View[T] {
	state = state.Normalized()
	visible := p.cfg.Predicate.Apply(p.cfg.Records, state)
	view := View[T]{
		State:   state,
		Visible: visible,
		Rows:    make([]Row[T], 0, visible.Len()),
		Metrics: p.cfg.Metrics.Aggregate(visible),
		Overall: p.cfg.Metrics.Aggregate(p.cfg.Records),
		Total:   p.cfg.Records.Len(),
		Empty:   visible.Empty(),
	}
	visible.Each(func(_ int, rec T) bool {
		view.Rows = append(view.Rows, Row[T]{Record: rec, Badges: p.classify(rec)})
		return true
	})
	if view.Empty {
		view.EmptyMessage = p.cfg.EmptyMessage
	}
	return view
}

func (p *Page[T]) classify(rec T) map[string]Style {
	if len(p.cfg.Badges) == 0 {
		return nil
	}
	badges := make(map[string]Style, len(p.cfg.Badges))
	for _, badge := range p.cfg.Badges {
		value, _ := badge.Field.Value(rec)
		badges[badge.Key] = badge.Classifier.Classify(value)
	}
	return badges
}

// Options returns the category choices, led by the "all" sentinel. Without
// declared categories the distinct values of the category field are used.
func (p *Page[T]) Options() []Option {
	options := []Option{{Value: AllCategories, Label: p.cfg.AllLabel}}
	if len(p.cfg.Categories) > 0 {
		return append(options, p.cfg.Categories...)
	}
	seen := map[string]struct{}{}
	field := p.cfg.Predicate.CategoryField()
	p.cfg.Records.Each(func(_ int, rec T) bool {
		value, ok := field.Value(rec)
		if !ok {
			return true
		}
		key := strings.ToLower(value)
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		options = append(options, Option{Value: value, Label: value})
		return true
	})
	return options
}

// Table is the untyped projection of a View handed to the render layer.
type Table struct {
	Page         string        `json:"page" yaml:"page"`
	Title        string        `json:"title" yaml:"title"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	State        FilterState   `json:"state" yaml:"state"`
	Filters      TableFilters  `json:"filters" yaml:"filters"`
	Columns      []TableColumn `json:"columns" yaml:"columns"`
	Rows         []TableRow    `json:"rows" yaml:"rows"`
	Metrics      Metrics       `json:"metrics" yaml:"metrics"`
	Overall      Metrics       `json:"overall" yaml:"overall"`
	Total        int           `json:"total" yaml:"total"`
	Visible      int           `json:"visible" yaml:"visible"`
	Empty        bool          `json:"empty" yaml:"empty"`
	EmptyMessage string        `json:"empty_message,omitempty" yaml:"empty_message,omitempty"`
}

// TableFilters describes the filter controls of a table.
type TableFilters struct {
	SearchFields  []string `json:"search_fields" yaml:"search_fields"`
	CategoryField string   `json:"category_field" yaml:"category_field"`
	Options       []Option `json:"options" yaml:"options"`
}

// TableColumn is a column header.
type TableColumn struct {
	Key   string `json:"key" yaml:"key"`
	Title string `json:"title" yaml:"title"`
}

// TableRow holds cell values keyed by column and the row badges.
type TableRow struct {
	Cells  map[string]any   `json:"cells" yaml:"cells"`
	Badges map[string]Style `json:"badges,omitempty" yaml:"badges,omitempty"`
}

// Renderer is implemented by pages that can project themselves into a Table.
type Renderer interface {
	Code() string
	Title() string
	Render(state FilterState) Table
}

var _ Renderer = (*Page[struct{}])(nil)

// Render assembles the view for state and projects it into a Table.
func (p *Page[T]) Render(state FilterState) Table {
	view := p.Assemble(state)
	table := Table{
		Page:        p.cfg.Code,
		Title:       p.cfg.Title,
		Description: p.cfg.Description,
		State:       view.State,
		Filters: TableFilters{
			SearchFields:  p.cfg.Predicate.SearchFields(),
			CategoryField: p.cfg.Predicate.CategoryField().Name,
			Options:       p.Options(),
		},
		Columns:      make([]TableColumn, 0, len(p.cfg.Columns)),
		Rows:         make([]TableRow, 0, len(view.Rows)),
		Metrics:      view.Metrics,
		Overall:      view.Overall,
		Total:        view.Total,
		Visible:      view.Visible.Len(),
		Empty:        view.Empty,
		EmptyMessage: view.EmptyMessage,
	}
	for _, col := range p.cfg.Columns {
		table.Columns = append(table.Columns, TableColumn{Key: col.Key, Title: col.Title})
	}
	for _, row := range view.Rows {
		cells := make(map[string]any, len(p.cfg.Columns))
		for _, col := range p.cfg.Columns {
			if col.Value == nil {
				continue
			}
			cells[col.Key] = col.Value(row.Record)
		}
		table.Rows = append(table.Rows, TableRow{Cells: cells, Badges: row.Badges})
	}
	return table
}
