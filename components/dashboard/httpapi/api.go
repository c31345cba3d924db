package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

// FilterPayload is the body of a filter update.
type FilterPayload struct {
	Search   string `json:"search"`
	Category string `json:"category"`
}

// WidgetPayload is the body of a widget placement.
type WidgetPayload struct {
	Slot     string         `json:"slot"`
	Widget   string         `json:"widget"`
	Config   map[string]any `json:"config,omitempty"`
	Position *int           `json:"position,omitempty"`
	Roles    []string       `json:"roles,omitempty"`
}

// MovePayload is the body of a widget move.
type MovePayload struct {
	AreaCode string `json:"area"`
	Position *int   `json:"position,omitempty"`
}

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Pages      gocommand.Querier[queries.PageInput, dashboard.PagePayload]
	Views      gocommand.Querier[queries.PageInput, records.Table]
	Filters    gocommand.Querier[queries.PageInput, records.FilterState]
	Navigation gocommand.Querier[string, []dashboard.NavEntry]
	API        Executor
	// Broadcast streams widget events over WebSocket and SSE when set.
	Broadcast *dashboard.BroadcastHook
	// Viewer resolves the viewer of a request; defaults to RequestViewer.
	Viewer func(*http.Request) dashboard.ViewerContext
}

// Mount registers the endpoints under prefix on mux.
func (h *Handlers) Mount(mux *http.ServeMux, prefix string) {
	prefix = strings.TrimRight(prefix, "/")
	mux.HandleFunc("GET "+prefix+"/navigation", h.HandleNavigation)
	mux.HandleFunc("GET "+prefix+"/pages/{page}", h.HandlePage)
	mux.HandleFunc("GET "+prefix+"/pages/{page}/view", h.HandlePageView)
	mux.HandleFunc("GET "+prefix+"/pages/{page}/filter", h.HandleFilter)
	mux.HandleFunc("POST "+prefix+"/pages/{page}/filter", h.HandleApplyFilter)
	mux.HandleFunc("DELETE "+prefix+"/pages/{page}/filter", h.HandleResetFilter)
	mux.HandleFunc("POST "+prefix+"/pages/{page}/widgets", h.HandleAssignWidget)
	mux.HandleFunc("DELETE "+prefix+"/widgets/{id}", h.HandleRemoveWidget)
	mux.HandleFunc("POST "+prefix+"/widgets/{id}/move", h.HandleMoveWidget)
	mux.HandleFunc("POST "+prefix+"/widgets/refresh", h.HandleRefreshWidget)
	if h.Broadcast != nil {
		mux.HandleFunc("GET "+prefix+"/ws", h.Broadcast.ServeWebSocket)
		mux.HandleFunc("GET "+prefix+"/events", h.Broadcast.ServeSSE)
	}
}

func (h *Handlers) HandleNavigation(w http.ResponseWriter, r *http.Request) {
	if h.Navigation == nil {
		writeError(w, ErrUnsupported)
		return
	}
	entries, err := h.Navigation.Query(r.Context(), r.URL.Query().Get("active"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if h.Pages == nil {
		writeError(w, ErrUnsupported)
		return
	}
	payload, err := h.Pages.Query(r.Context(), h.pageInput(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handlers) HandlePageView(w http.ResponseWriter, r *http.Request) {
	if h.Views == nil {
		writeError(w, ErrUnsupported)
		return
	}
	table, err := h.Views.Query(r.Context(), h.pageInput(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handlers) HandleFilter(w http.ResponseWriter, r *http.Request) {
	if h.Filters == nil {
		writeError(w, ErrUnsupported)
		return
	}
	input := h.pageInput(r)
	state, err := h.Filters.Query(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": input.Page, "filter": state})
}

func (h *Handlers) HandleApplyFilter(w http.ResponseWriter, r *http.Request) {
	var payload FilterPayload
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	input := h.pageInput(r)
	var state records.FilterState
	if err := h.executor().ApplyFilter(r.Context(), commands.ApplyFilterInput{
		Viewer:   input.Viewer,
		Page:     input.Page,
		Search:   payload.Search,
		Category: payload.Category,
		Result:   &state,
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": input.Page, "filter": state})
}

func (h *Handlers) HandleResetFilter(w http.ResponseWriter, r *http.Request) {
	input := h.pageInput(r)
	if err := h.executor().ResetFilter(r.Context(), commands.ResetFilterInput{
		Viewer: input.Viewer,
		Page:   input.Page,
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": input.Page, "filter": records.DefaultFilterState()})
}

func (h *Handlers) HandleAssignWidget(w http.ResponseWriter, r *http.Request) {
	var payload WidgetPayload
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	input := h.pageInput(r)
	if err := h.executor().Assign(r.Context(), commands.AssignWidgetInput{
		Page:     input.Page,
		Slot:     payload.Slot,
		Widget:   payload.Widget,
		Config:   payload.Config,
		Position: payload.Position,
		Roles:    payload.Roles,
		UserID:   input.Viewer.UserID,
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewer(r)
	if err := h.executor().Remove(r.Context(), commands.RemoveWidgetInput{
		WidgetID: r.PathValue("id"),
		ActorID:  viewer.UserID,
	}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleMoveWidget(w http.ResponseWriter, r *http.Request) {
	var payload MovePayload
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := h.executor().Move(r.Context(), commands.MoveWidgetInput{
		WidgetID: r.PathValue("id"),
		AreaCode: payload.AreaCode,
		Position: payload.Position,
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

func (h *Handlers) HandleRefreshWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshWidgetInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := h.executor().Refresh(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handlers) pageInput(r *http.Request) queries.PageInput {
	return queries.PageInput{Viewer: h.viewer(r), Page: r.PathValue("page")}
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return RequestViewer(r)
}

func (h *Handlers) executor() Executor {
	if h.API == nil {
		return &CommandExecutor{}
	}
	return h.API
}

// RequestViewer reads the viewer from the viewer, roles and locale query
// parameters, falling back to the Accept-Language header for the locale.
func RequestViewer(r *http.Request) dashboard.ViewerContext {
	q := r.URL.Query()
	locale := q.Get("locale")
	if locale == "" {
		locale = ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	}
	return ViewerFromValues(q.Get("viewer"), q.Get("roles"), locale)
}

func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), ErrorBody(err))
}
