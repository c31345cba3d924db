package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/erp"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error    string                   `json:"error"`
	Problems []dashboard.ConfigProblem `json:"problems,omitempty"`
}

// StatusFor maps dashboard errors to HTTP status codes.
func StatusFor(err error) int {
	var cfgErr *dashboard.ConfigError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrUnknownPage),
		errors.Is(err, erp.ErrUnknownChart),
		errors.Is(err, dashboard.ErrWidgetNotFound):
		return http.StatusNotFound
	case dashboard.IsNotFilterable(err), errors.As(err, &cfgErr), errors.Is(err, ErrBadPayload):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ErrBadPayload marks request bodies that could not be decoded.
var ErrBadPayload = errors.New("httpapi: invalid request payload")

// ErrorBody builds the response body for err.
func ErrorBody(err error) ErrorResponse {
	body := ErrorResponse{Error: err.Error()}
	var cfgErr *dashboard.ConfigError
	if errors.As(err, &cfgErr) {
		body.Problems = cfgErr.Problems
	}
	return body
}

// ViewerFromValues builds a viewer from loose request values. roles is a
// comma separated list.
func ViewerFromValues(userID, roles, locale string) dashboard.ViewerContext {
	viewer := dashboard.ViewerContext{
		UserID: strings.TrimSpace(userID),
		Locale: strings.ToLower(strings.TrimSpace(locale)),
	}
	if viewer.UserID == "" {
		viewer.UserID = dashboard.AnonymousViewer
	}
	for _, role := range strings.Split(roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			viewer.Roles = append(viewer.Roles, role)
		}
	}
	return viewer
}

// ParseAcceptLanguage returns the first language tag of an Accept-Language header.
func ParseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}
