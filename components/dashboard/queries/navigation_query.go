package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
)

// NavigationQuery lists the sidebar entries with the active page marked.
type NavigationQuery struct{}

// NewNavigationQuery builds the query.
func NewNavigationQuery() *NavigationQuery {
	return &NavigationQuery{}
}

var _ gocommand.Querier[string, []dashboard.NavEntry] = (*NavigationQuery)(nil)

// Query returns the entries for the active page code.
func (q *NavigationQuery) Query(_ context.Context, page string) ([]dashboard.NavEntry, error) {
	return dashboard.Navigation(page), nil
}
