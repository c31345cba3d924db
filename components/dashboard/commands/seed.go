package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
)

// SeedDashboardInput controls bootstrap behavior.
type SeedDashboardInput struct {
	SeedLayout bool
	// Manifest adds widgets and replaces the built-in placements when it has any.
	Manifest *dashboard.WidgetManifestDocument
}

// SeedDashboardCommand registers areas/definitions and optionally seeds layout.
type SeedDashboardCommand struct {
	store     dashboard.WidgetStore
	registry  *dashboard.Registry
	service   *dashboard.Service
	telemetry Telemetry
}

// NewSeedDashboardCommand wires dependencies.
func NewSeedDashboardCommand(store dashboard.WidgetStore, registry *dashboard.Registry, service *dashboard.Service, telemetry Telemetry) *SeedDashboardCommand {
	return &SeedDashboardCommand{
		store:     store,
		registry:  registry,
		service:   service,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if c.store == nil {
		return errors.New("seed command requires widget store")
	}
	if msg.Manifest != nil && c.registry != nil {
		if err := c.registry.LoadManifestDocument(msg.Manifest); err != nil {
			return err
		}
	}
	var pages []dashboard.PageDefinition
	if c.service != nil {
		pages = c.service.Pages()
	}
	if err := dashboard.RegisterAreas(ctx, c.store, pages); err != nil {
		return err
	}
	var registry dashboard.ProviderRegistry
	if c.registry != nil {
		registry = c.registry
	}
	if err := dashboard.RegisterDefinitions(ctx, c.store, registry); err != nil {
		return err
	}
	placements := 0
	if msg.SeedLayout && c.service != nil {
		var reqs []dashboard.AddWidgetRequest
		if msg.Manifest != nil {
			reqs = msg.Manifest.SeedRequests()
		}
		if len(reqs) == 0 {
			reqs = dashboard.DefaultSeedWidgets()
		}
		if err := dashboard.SeedLayout(ctx, c.service, reqs...); err != nil {
			return err
		}
		placements = len(reqs)
	}
	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{
		"seed_layout": msg.SeedLayout,
		"placements":  placements,
	})
	return nil
}
