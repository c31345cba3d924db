package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

type viewService interface {
	PageView(ctx context.Context, viewer dashboard.ViewerContext, page string) (records.Table, error)
	Filter(ctx context.Context, viewer dashboard.ViewerContext, page string) (records.FilterState, error)
}

// PageViewQuery renders the record table of a listing page under the viewer's filter.
type PageViewQuery struct {
	service viewService
}

// NewPageViewQuery builds the query.
func NewPageViewQuery(service viewService) *PageViewQuery {
	return &PageViewQuery{service: service}
}

var _ gocommand.Querier[PageInput, records.Table] = (*PageViewQuery)(nil)

// Query renders the table.
func (q *PageViewQuery) Query(ctx context.Context, input PageInput) (records.Table, error) {
	return q.service.PageView(ctx, input.Viewer, input.Page)
}

// FilterQuery reads a viewer's stored filter selection.
type FilterQuery struct {
	service viewService
}

// NewFilterQuery builds the query.
func NewFilterQuery(service viewService) *FilterQuery {
	return &FilterQuery{service: service}
}

var _ gocommand.Querier[PageInput, records.FilterState] = (*FilterQuery)(nil)

// Query returns the normalized selection.
func (q *FilterQuery) Query(ctx context.Context, input PageInput) (records.FilterState, error) {
	return q.service.Filter(ctx, input.Viewer, input.Page)
}
