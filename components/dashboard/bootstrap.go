package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// RegisterAreas ensures the widget areas of every page exist in the store.
// Nil pages register the built-in pages.
func RegisterAreas(ctx context.Context, store WidgetStore, pages []PageDefinition) error {
	if store == nil {
		return errMissingWidgetStore
	}
	if pages == nil {
		pages = DefaultPages()
	}
	for _, page := range pages {
		for _, area := range page.Areas {
			if _, err := store.EnsureArea(ctx, area); err != nil {
				return fmt.Errorf("register area %s: %w", area.Code, err)
			}
		}
	}
	return nil
}

// RegisterDefinitions copies widget definitions into the store. With a
// registry, every definition it holds is copied, manifest widgets included.
func RegisterDefinitions(ctx context.Context, store WidgetStore, registry ProviderRegistry) error {
	if store == nil {
		return errMissingWidgetStore
	}
	defs := DefaultWidgetDefinitions()
	if registry != nil {
		defs = registry.Definitions()
	}
	for _, def := range defs {
		if _, err := store.EnsureDefinition(ctx, def); err != nil {
			return fmt.Errorf("register definition %s: %w", def.Code, err)
		}
	}
	return nil
}

// SeedLayout creates widget placements. Without requests the built-in
// placements of every page are seeded. Failures are joined so one bad
// placement does not hide the others.
func SeedLayout(ctx context.Context, service *Service, reqs ...AddWidgetRequest) error {
	if service == nil {
		return errors.New("dashboard: service is required to seed layout")
	}
	if len(reqs) == 0 {
		reqs = DefaultSeedWidgets()
	}
	var seedErr error
	for _, req := range reqs {
		if err := service.AddWidget(ctx, req); err != nil {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed %s in %s: %w", req.DefinitionID, req.AreaCode, err))
		}
	}
	return seedErr
}
