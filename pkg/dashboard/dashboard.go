package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"time"

	router "github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	core "github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-erp-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-erp-dashboard/components/erp"
	"github.com/goliatone/go-erp-dashboard/pkg/config"
	"github.com/goliatone/go-erp-dashboard/pkg/logger"
	"github.com/goliatone/go-erp-dashboard/pkg/metrics"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// App is a fully wired dashboard: catalog, widget engine, transports, and
// observability.
type App struct {
	Config     *config.Config
	Log        *logger.Logger
	Catalog    *erp.Catalog
	Store      *core.MemoryWidgetStore
	Registry   *core.Registry
	Service    *Service
	Controller *core.Controller
	Broadcast  *core.BroadcastHook
	Charts     *core.ChartCache
	Metrics    *metrics.DashboardMetrics
	Prometheus *prometheus.Registry
	Executor   *httpapi.CommandExecutor
}

// Option customizes New.
type Option func(*buildOptions)

type buildOptions struct {
	now        func() time.Time
	authorizer core.Authorizer
}

// WithClock fixes the clock used for relative dates and layout timing.
func WithClock(now func() time.Time) Option {
	return func(o *buildOptions) { o.now = now }
}

// WithAuthorizer replaces the role based widget authorizer.
func WithAuthorizer(a core.Authorizer) Option {
	return func(o *buildOptions) { o.authorizer = a }
}

// New loads the catalog, registers providers, and seeds the layout.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("dashboard: config is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	options := buildOptions{now: time.Now, authorizer: core.RoleAuthorizer{}}
	for _, opt := range opts {
		opt(&options)
	}

	catalog, err := loadCatalog(cfg.Seed.File, options.now)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		Log:        log,
		Catalog:    catalog,
		Store:      core.NewMemoryWidgetStore(),
		Registry:   core.NewRegistry(),
		Broadcast:  core.NewBroadcastHook(),
		Charts:     core.NewChartCache(cfg.Charts.CacheTTL),
		Prometheus: prometheus.NewRegistry(),
	}
	app.Metrics = metrics.NewDashboardMetrics(app.Prometheus)
	app.Prometheus.MustRegister(
		metrics.NewStateCollector(app.Charts, app.Broadcast),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := app.Registry.RegisterCatalog(catalog, core.ProviderOptions{
		Currency: cfg.App.Currency,
		ChartOptions: []core.EChartsProviderOption{
			core.WithChartCache(app.Charts),
			core.WithChartTheme(cfg.Charts.Theme),
			core.WithChartAssetsHost(cfg.Charts.AssetsHost),
		},
	}); err != nil {
		return nil, err
	}

	telemetry := core.MultiTelemetry(app.Metrics, core.TelemetryFunc(log.Named("dashboard").Event))
	app.Service = core.NewService(core.Options{
		WidgetStore: app.Store,
		Authorizer:  options.authorizer,
		Providers:   app.Registry,
		RefreshHook: app.Broadcast,
		Telemetry:   telemetry,
		Source:      catalog,
		Now:         options.now,
	})
	app.Controller = core.NewController(app.Service)
	app.Executor = &httpapi.CommandExecutor{
		ApplyFilterCommander: commands.NewApplyFilterCommand(app.Service, telemetry),
		ResetFilterCommander: commands.NewResetFilterCommand(app.Service, telemetry),
		AssignCommander:      commands.NewAssignWidgetCommand(app.Service, telemetry),
		RemoveCommander:      commands.NewRemoveWidgetCommand(app.Service, telemetry),
		MoveCommander:        commands.NewMoveWidgetCommand(app.Service, telemetry),
		RefreshCommander:     commands.NewRefreshWidgetCommand(app.Service, app.Charts, telemetry),
	}

	input := commands.SeedDashboardInput{SeedLayout: true}
	if cfg.Seed.Manifest != "" {
		doc, err := core.ReadManifest(cfg.Seed.Manifest)
		if err != nil {
			return nil, err
		}
		input.Manifest = doc
	}
	seed := commands.NewSeedDashboardCommand(app.Store, app.Registry, app.Service, telemetry)
	if err := seed.Execute(ctx, input); err != nil {
		return nil, fmt.Errorf("dashboard: seed layout: %w", err)
	}
	if unbound := app.Registry.Unbound(); len(unbound) > 0 {
		log.Warn().Strs("widgets", unbound).Msg("widgets without provider render no data")
	}
	log.Info().
		Str("seed", seedSource(cfg.Seed.File)).
		Int("widgets", app.Store.Instances()).
		Int("pages", len(app.Service.Pages())).
		Msg("dashboard ready")
	return app, nil
}

func loadCatalog(path string, now func() time.Time) (*erp.Catalog, error) {
	if path == "" {
		return erp.LoadCatalog(erp.WithClock(now))
	}
	seed, err := erp.ReadSeed(path)
	if err != nil {
		return nil, err
	}
	return erp.NewCatalog(seed, erp.WithClock(now))
}

func seedSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// Handlers returns the net/http handler set backed by the app.
func (a *App) Handlers() *httpapi.Handlers {
	return &httpapi.Handlers{
		Pages:      queries.NewPageQuery(a.Controller),
		Views:      queries.NewPageViewQuery(a.Service),
		Filters:    queries.NewFilterQuery(a.Service),
		Navigation: queries.NewNavigationQuery(),
		API:        a.Executor,
		Broadcast:  a.Broadcast,
	}
}

// Handler mounts the JSON API under the configured base path, plus the
// Prometheus endpoint when enabled.
func (a *App) Handler(metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	a.Handlers().Mount(mux, a.Config.HTTP.BasePath)
	if a.Config.Metrics.Enabled && metricsHandler != nil {
		mux.Handle("GET "+a.Config.Metrics.Path, metricsHandler)
	}
	return mux
}

// Mount registers the dashboard routes on a go-router router.
func Mount[T any](a *App, r router.Router[T]) error {
	return gorouter.Register(gorouter.Config[T]{
		Router:     r,
		Controller: a.Controller,
		Views:      queries.NewPageViewQuery(a.Service),
		Filters:    queries.NewFilterQuery(a.Service),
		API:        a.Executor,
		Broadcast:  a.Broadcast,
		BasePath:   a.Config.HTTP.BasePath,
	})
}

// Close releases subscribers.
func (a *App) Close() {
	a.Broadcast.Close()
}
