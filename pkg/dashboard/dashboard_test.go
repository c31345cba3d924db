package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/erp"
	"github.com/goliatone/go-erp-dashboard/pkg/config"
)

var fixedNow = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestNewSeedsEveryPage(t *testing.T) {
	app, err := New(context.Background(), testConfig(t), nil, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, len(core.DefaultSeedWidgets()), app.Store.Instances())
	layout, err := app.Service.PageLayout(context.Background(), core.ViewerContext{UserID: "ana"}, erp.PageDashboard)
	require.NoError(t, err)
	for area, widgets := range layout.Areas {
		for _, w := range widgets {
			_, failed := w.Metadata["error"]
			assert.False(t, failed, "%s/%s: %v", area, w.DefinitionID, w.Metadata["error"])
		}
	}
}

func TestHandlerServesAPIAndMetrics(t *testing.T) {
	app, err := New(context.Background(), testConfig(t), nil, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	defer app.Close()

	handler := app.Handler(promhttp.HandlerFor(app.Prometheus, promhttp.HandlerOpts{}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/erp/pages/dashboard?viewer=ana", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var payload core.PagePayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, erp.PageDashboard, payload.Page.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/erp/pages/inventory/filter?viewer=ana", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"category":"all"`)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "erp_dashboard_events_total")
	assert.Contains(t, rec.Body.String(), "erp_dashboard_chart_cache_misses_total")
}

func TestNewUsesManifestPlacements(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "widgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: "1"
placements:
  - page: reports
    slot: main
    widget: erp.widget.dataset_chart
    config:
      dataset: monthly_revenue
`), 0o600))
	cfg.Seed.Manifest = path

	app, err := New(context.Background(), cfg, nil, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	defer app.Close()
	assert.Equal(t, 1, app.Store.Instances())
}

func TestNewRejectsMissingSeedFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Seed.File = filepath.Join(t.TempDir(), "nope.yaml")
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
