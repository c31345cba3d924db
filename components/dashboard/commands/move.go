package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// MoveWidgetInput relocates a widget instance. A nil position appends.
type MoveWidgetInput struct {
	WidgetID string `json:"widget_id"`
	AreaCode string `json:"area_code"`
	Position *int   `json:"position,omitempty"`
}

type moveService interface {
	MoveWidget(ctx context.Context, widgetID, areaCode string, position *int) error
}

// MoveWidgetCommand wraps Service.MoveWidget.
type MoveWidgetCommand struct {
	service   moveService
	telemetry Telemetry
}

// NewMoveWidgetCommand builds the command.
func NewMoveWidgetCommand(service moveService, telemetry Telemetry) *MoveWidgetCommand {
	return &MoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MoveWidgetInput] = (*MoveWidgetCommand)(nil)

// Execute applies the new placement.
func (c *MoveWidgetCommand) Execute(ctx context.Context, msg MoveWidgetInput) error {
	if c.service == nil {
		return errors.New("move command requires service")
	}
	if err := c.service.MoveWidget(ctx, msg.WidgetID, msg.AreaCode, msg.Position); err != nil {
		return err
	}
	position := -1
	if msg.Position != nil {
		position = *msg.Position
	}
	c.telemetry.Record(ctx, "dashboard.widget.reorder", map[string]any{
		"widget_id": msg.WidgetID,
		"area_code": msg.AreaCode,
		"position":  position,
	})
	return nil
}
