package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

// ApplyFilterInput sets the search term and category of a listing page for a viewer.
type ApplyFilterInput struct {
	Viewer   dashboard.ViewerContext `json:"viewer"`
	Page     string                  `json:"page"`
	Search   string                  `json:"search"`
	Category string                  `json:"category"`
	// Result receives the normalized state when set.
	Result *records.FilterState `json:"-"`
}

// ResetFilterInput restores the default selection of a page.
type ResetFilterInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Page   string                  `json:"page"`
}

type filterService interface {
	ApplyFilter(ctx context.Context, viewer dashboard.ViewerContext, page string, state records.FilterState) (records.FilterState, error)
	ResetFilter(ctx context.Context, viewer dashboard.ViewerContext, page string) error
}

// ApplyFilterCommand stores a viewer's filter selection.
type ApplyFilterCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewApplyFilterCommand builds the command.
func NewApplyFilterCommand(service filterService, telemetry Telemetry) *ApplyFilterCommand {
	return &ApplyFilterCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplyFilterInput] = (*ApplyFilterCommand)(nil)

// Execute applies the selection.
func (c *ApplyFilterCommand) Execute(ctx context.Context, msg ApplyFilterInput) error {
	if c.service == nil {
		return errors.New("filter command requires service")
	}
	if msg.Page == "" {
		return errors.New("filter command: page is required")
	}
	state, err := c.service.ApplyFilter(ctx, msg.Viewer, msg.Page, records.FilterState{
		Search:   msg.Search,
		Category: msg.Category,
	})
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = state
	}
	c.telemetry.Record(ctx, "dashboard.filter.command", map[string]any{
		"page":     msg.Page,
		"viewer":   msg.Viewer.UserID,
		"category": state.Category,
	})
	return nil
}

// ResetFilterCommand clears a viewer's filter selection.
type ResetFilterCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewResetFilterCommand builds the command.
func NewResetFilterCommand(service filterService, telemetry Telemetry) *ResetFilterCommand {
	return &ResetFilterCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetFilterInput] = (*ResetFilterCommand)(nil)

// Execute resets the selection.
func (c *ResetFilterCommand) Execute(ctx context.Context, msg ResetFilterInput) error {
	if c.service == nil {
		return errors.New("reset filter command requires service")
	}
	if msg.Page == "" {
		return errors.New("reset filter command: page is required")
	}
	if err := c.service.ResetFilter(ctx, msg.Viewer, msg.Page); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.filter.reset.command", map[string]any{
		"page":   msg.Page,
		"viewer": msg.Viewer.UserID,
	})
	return nil
}
