package dashboard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-erp-dashboard/components/records"
)

// TableProvider renders the record table of a listing page under the
// viewer's current filter.
type TableProvider struct {
	source PageSource
}

// NewTableProvider builds a table provider backed by source.
func NewTableProvider(source PageSource) *TableProvider {
	return &TableProvider{source: source}
}

// Fetch renders the page named by the "page" configuration key. Another
// page than the one being viewed renders with its default filter.
func (p *TableProvider) Fetch(_ context.Context, meta WidgetContext) (WidgetData, error) {
	if p.source == nil {
		return nil, fmt.Errorf("table provider: source is required")
	}
	page := stringValue(meta.Instance.Configuration["page"], meta.Page)
	state := meta.Filter.Normalized()
	if page != meta.Page {
		state = records.DefaultFilterState()
	}
	table, err := p.source.Render(page, state)
	if err != nil {
		return nil, fmt.Errorf("table provider: %w", err)
	}
	return WidgetData{"table": table}, nil
}
