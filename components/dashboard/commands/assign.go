package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
)

// AssignWidgetInput places a widget on a page slot.
type AssignWidgetInput struct {
	Page     string         `json:"page"`
	Slot     string         `json:"slot"`
	Widget   string         `json:"widget"`
	Config   map[string]any `json:"config,omitempty"`
	Position *int           `json:"position,omitempty"`
	Roles    []string       `json:"roles,omitempty"`
	UserID   string         `json:"user_id,omitempty"`
}

type assignService interface {
	Page(code string) (dashboard.PageDefinition, error)
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) error
}

// AssignWidgetCommand resolves the page slot and adds the widget through the service.
type AssignWidgetCommand struct {
	service   assignService
	telemetry Telemetry
}

// NewAssignWidgetCommand creates a command instance.
func NewAssignWidgetCommand(service assignService, telemetry Telemetry) *AssignWidgetCommand {
	return &AssignWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AssignWidgetInput] = (*AssignWidgetCommand)(nil)

// Execute delegates to the dashboard service.
func (c *AssignWidgetCommand) Execute(ctx context.Context, msg AssignWidgetInput) error {
	if c.service == nil {
		return errors.New("assign command requires service")
	}
	page, err := c.service.Page(msg.Page)
	if err != nil {
		return err
	}
	area := dashboard.AreaCode(page.Code, msg.Slot)
	known := false
	for _, code := range page.AreaCodes() {
		if code == area {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("assign command: page %s has no slot %q", page.Code, msg.Slot)
	}
	if err := c.service.AddWidget(ctx, dashboard.AddWidgetRequest{
		DefinitionID:  msg.Widget,
		AreaCode:      area,
		Configuration: msg.Config,
		Position:      msg.Position,
		Roles:         msg.Roles,
		UserID:        msg.UserID,
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.assign", map[string]any{
		"definition_id": msg.Widget,
		"area_code":     area,
	})
	return nil
}
