package dashboard

import (
	"context"
	"errors"

	"github.com/goliatone/go-erp-dashboard/components/erp"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

// PageResolver is the subset of Service a Controller needs.
type PageResolver interface {
	Page(code string) (PageDefinition, error)
	PageLayout(ctx context.Context, viewer ViewerContext, page string) (PageLayout, error)
	PageView(ctx context.Context, viewer ViewerContext, page string) (records.Table, error)
}

var _ PageResolver = (*Service)(nil)

// PagePayload is everything a shell needs to draw one page: its definition,
// the sidebar with the active entry marked, the widget layout, and the
// record table for listing pages.
type PagePayload struct {
	Page       PageDefinition `json:"page"`
	Navigation []NavEntry     `json:"navigation"`
	Layout     PageLayout     `json:"layout"`
	Table      *records.Table `json:"table,omitempty"`
}

// NavEntry is a sidebar entry.
type NavEntry struct {
	erp.NavItem
	Active bool `json:"active"`
}

// Controller assembles page payloads for transports.
type Controller struct {
	pages PageResolver
}

// NewController wires the service into a controller.
func NewController(pages PageResolver) *Controller {
	return &Controller{pages: pages}
}

// Render resolves a page for the viewer.
func (c *Controller) Render(ctx context.Context, viewer ViewerContext, page string) (PagePayload, error) {
	if c.pages == nil {
		return PagePayload{}, errors.New("dashboard: controller has no page resolver")
	}
	def, err := c.pages.Page(page)
	if err != nil {
		return PagePayload{}, err
	}
	layout, err := c.pages.PageLayout(ctx, viewer, page)
	if err != nil {
		return PagePayload{}, err
	}
	payload := PagePayload{
		Page:       def,
		Navigation: Navigation(page),
		Layout:     layout,
	}
	if def.Filterable {
		table, err := c.pages.PageView(ctx, viewer, page)
		if err != nil && !errors.Is(err, errMissingPageSource) {
			return PagePayload{}, err
		}
		if err == nil {
			payload.Table = &table
		}
	}
	return payload, nil
}

// Navigation returns the sidebar with the entry of page marked active.
func Navigation(page string) []NavEntry {
	items := erp.Navigation()
	out := make([]NavEntry, len(items))
	for i, item := range items {
		out[i] = NavEntry{NavItem: item, Active: page != "" && item.Page == page}
	}
	return out
}
