package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
)

// PageInput identifies a page request for a viewer.
type PageInput struct {
	Viewer dashboard.ViewerContext
	Page   string
}

type pageRenderer interface {
	Render(ctx context.Context, viewer dashboard.ViewerContext, page string) (dashboard.PagePayload, error)
}

// PageQuery executes read-only page resolution: layout, navigation and table.
type PageQuery struct {
	controller pageRenderer
}

// NewPageQuery builds the query.
func NewPageQuery(controller pageRenderer) *PageQuery {
	return &PageQuery{controller: controller}
}

var _ gocommand.Querier[PageInput, dashboard.PagePayload] = (*PageQuery)(nil)

// Query resolves the page for the viewer.
func (q *PageQuery) Query(ctx context.Context, input PageInput) (dashboard.PagePayload, error) {
	return q.controller.Render(ctx, input.Viewer, input.Page)
}
