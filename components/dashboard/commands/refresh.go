package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
)

// RefreshWidgetInput emits refresh notifications for a widget instance or a
// whole page.
type RefreshWidgetInput struct {
	Event dashboard.WidgetEvent
	// InvalidateCharts drops cached chart markup before notifying.
	InvalidateCharts bool
}

type refreshNotifier interface {
	NotifyWidgetUpdated(ctx context.Context, event dashboard.WidgetEvent) error
}

// ChartInvalidator drops cached chart renders by key prefix.
type ChartInvalidator interface {
	Invalidate(prefix string) int
}

// RefreshWidgetCommand triggers refresh hooks without forcing transports.
type RefreshWidgetCommand struct {
	service   refreshNotifier
	charts    ChartInvalidator
	telemetry Telemetry
}

// NewRefreshWidgetCommand creates the command. charts may be nil.
func NewRefreshWidgetCommand(service refreshNotifier, charts ChartInvalidator, telemetry Telemetry) *RefreshWidgetCommand {
	return &RefreshWidgetCommand{service: service, charts: charts, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshWidgetInput] = (*RefreshWidgetCommand)(nil)

// Execute notifies the dashboard service's refresh hooks.
func (c *RefreshWidgetCommand) Execute(ctx context.Context, msg RefreshWidgetInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Event.Reason == "" {
		msg.Event.Reason = "refresh"
	}
	invalidated := 0
	if msg.InvalidateCharts && c.charts != nil {
		invalidated = c.charts.Invalidate(msg.Event.Instance.DefinitionID)
	}
	if err := c.service.NotifyWidgetUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.refresh", map[string]any{
		"page":        msg.Event.Page,
		"area_code":   msg.Event.AreaCode,
		"widget_id":   msg.Event.Instance.ID,
		"invalidated": invalidated,
	})
	return nil
}
