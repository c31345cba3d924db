package gorouter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{Page: "/p/:page"})
	assert.Equal(t, "/p/:page", routes.Page)
	assert.Equal(t, "/navigation", routes.Navigation)
	assert.Equal(t, "/pages/:page/view", routes.View)
	assert.Equal(t, "/pages/:page/filter", routes.Filter)
	assert.Equal(t, "/widgets/:id/move", routes.Move)
	assert.Equal(t, "/ws", routes.WebSocket)
}

func TestSharedEventsSkipFilterEvents(t *testing.T) {
	state := records.DefaultFilterState()
	assert.True(t, sharedEvents(dashboard.WidgetEvent{Reason: "add"}))
	assert.False(t, sharedEvents(dashboard.WidgetEvent{Reason: "filter", Filter: &state}))
}
