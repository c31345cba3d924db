package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/erp"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

type stubController struct {
	calls int
	page  string
}

func (s *stubController) Render(_ context.Context, _ dashboard.ViewerContext, page string) (dashboard.PagePayload, error) {
	s.calls++
	s.page = page
	return dashboard.PagePayload{Navigation: dashboard.Navigation(page)}, nil
}

type stubViewService struct {
	views   int
	filters int
}

func (s *stubViewService) PageView(context.Context, dashboard.ViewerContext, string) (records.Table, error) {
	s.views++
	return records.Table{Title: "Inventory"}, nil
}

func (s *stubViewService) Filter(context.Context, dashboard.ViewerContext, string) (records.FilterState, error) {
	s.filters++
	return records.DefaultFilterState(), nil
}

func TestPageQuery(t *testing.T) {
	controller := &stubController{}
	query := NewPageQuery(controller)
	_, err := query.Query(context.Background(), PageInput{Page: erp.PageInventory})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if controller.calls != 1 {
		t.Fatalf("expected 1 call, got %d", controller.calls)
	}
	assert.Equal(t, erp.PageInventory, controller.page)
}

func TestPageViewAndFilterQueries(t *testing.T) {
	service := &stubViewService{}
	table, err := NewPageViewQuery(service).Query(context.Background(), PageInput{Page: erp.PageInventory})
	require.NoError(t, err)
	assert.Equal(t, "Inventory", table.Title)

	state, err := NewFilterQuery(service).Query(context.Background(), PageInput{Page: erp.PageInventory})
	require.NoError(t, err)
	assert.Equal(t, records.AllCategories, state.Category)
	assert.Equal(t, 1, service.views)
	assert.Equal(t, 1, service.filters)
}

func TestNavigationQueryMarksActivePage(t *testing.T) {
	entries, err := NewNavigationQuery().Query(context.Background(), erp.PageSalesOrders)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	active := 0
	for _, entry := range entries {
		if entry.Active {
			active++
			assert.Equal(t, erp.PageSalesOrders, entry.Page)
		}
	}
	assert.Equal(t, 1, active)
}
