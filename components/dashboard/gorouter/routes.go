package gorouter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, APIs, and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	Views          gocommand.Querier[queries.PageInput, records.Table]
	Filters        gocommand.Querier[queries.PageInput, records.FilterState]
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	Navigation string
	Page       string
	View       string
	Filter     string
	Widgets    string
	WidgetID   string
	Move       string
	Refresh    string
	WebSocket  string
}

// Register mounts dashboard routes (JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/erp"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = DefaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.Navigation, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, dashboard.Navigation(ctx.Query("active")))
	}))

	group.Get(routes.Page, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.Render(ctx.Context(), viewerResolver(ctx), ctx.Param("page"))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.Views != nil {
		group.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
			table, err := cfg.Views.Query(ctx.Context(), queries.PageInput{
				Viewer: viewerResolver(ctx),
				Page:   ctx.Param("page"),
			})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, table)
		}))
	}

	if cfg.Filters != nil {
		group.Get(routes.Filter, router.WrapHandler(func(ctx router.Context) error {
			page := ctx.Param("page")
			state, err := cfg.Filters.Query(ctx.Context(), queries.PageInput{
				Viewer: viewerResolver(ctx),
				Page:   page,
			})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]any{"page": page, "filter": state})
		}))
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	r.Post(routes.Filter, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.FilterPayload
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		page := ctx.Param("page")
		var state records.FilterState
		if err := api.ApplyFilter(ctx.Context(), commands.ApplyFilterInput{
			Viewer:   resolver(ctx),
			Page:     page,
			Search:   payload.Search,
			Category: payload.Category,
			Result:   &state,
		}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"page": page, "filter": state})
	}))

	r.Delete(routes.Filter, router.WrapHandler(func(ctx router.Context) error {
		page := ctx.Param("page")
		if err := api.ResetFilter(ctx.Context(), commands.ResetFilterInput{
			Viewer: resolver(ctx),
			Page:   page,
		}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"page": page, "filter": records.DefaultFilterState()})
	}))

	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.WidgetPayload
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		if err := api.Assign(ctx.Context(), commands.AssignWidgetInput{
			Page:     ctx.Param("page"),
			Slot:     payload.Slot,
			Widget:   payload.Widget,
			Config:   payload.Config,
			Position: payload.Position,
			Roles:    payload.Roles,
			UserID:   resolver(ctx).UserID,
		}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, fmt.Errorf("%w: widget id is required", httpapi.ErrBadPayload))
		}
		if err := api.Remove(ctx.Context(), commands.RemoveWidgetInput{WidgetID: id, ActorID: resolver(ctx).UserID}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Move, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.MovePayload
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		if err := api.Move(ctx.Context(), commands.MoveWidgetInput{
			WidgetID: ctx.Param("id"),
			AreaCode: payload.AreaCode,
			Position: payload.Position,
		}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "moved"})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshWidgetInput
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))
}

// registerWebSocket streams layout events. Filter events stay private to the
// viewer that changed the filter, so they are not sent on this shared stream.
func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.SubscribeMatching(sharedEvents)
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func sharedEvents(event dashboard.WidgetEvent) bool {
	return event.Filter == nil
}

// DefaultViewerResolver reads user_id, roles and locale locals set by auth
// middleware, falling back to the viewer, roles and locale query parameters.
func DefaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	userID, _ := ctx.Locals("user_id").(string)
	if userID == "" {
		userID = ctx.Query("viewer")
	}
	viewer := httpapi.ViewerFromValues(userID, ctx.Query("roles"), inferLocale(ctx))
	if roles, ok := ctx.Locals("roles").([]string); ok && len(roles) > 0 {
		viewer.Roles = roles
	}
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := ctx.Query("locale"); locale != "" {
		return locale
	}
	return httpapi.ParseAcceptLanguage(ctx.Header("Accept-Language"))
}

func decode(ctx router.Context, v any) error {
	body := ctx.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", httpapi.ErrBadPayload, err)
	}
	return nil
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), httpapi.ErrorBody(err))
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Navigation == "" {
		routes.Navigation = "/navigation"
	}
	if routes.Page == "" {
		routes.Page = "/pages/:page"
	}
	if routes.View == "" {
		routes.View = "/pages/:page/view"
	}
	if routes.Filter == "" {
		routes.Filter = "/pages/:page/filter"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/pages/:page/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/widgets/:id"
	}
	if routes.Move == "" {
		routes.Move = "/widgets/:id/move"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/widgets/refresh"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
