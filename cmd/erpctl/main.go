package main

import (
	"context"
	"time"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-erp-dashboard/pkg/config"
	dashboardpkg "github.com/goliatone/go-erp-dashboard/pkg/dashboard"
	"github.com/goliatone/go-erp-dashboard/pkg/logger"
)

type cli struct {
	Config   string `short:"c" type:"path" help:"Config file (YAML); defaults to ./config.yaml when present."`
	LogLevel string `name:"log-level" help:"Override the configured log level."`
	Seed     string `type:"path" help:"Seed data file replacing the embedded ERP records."`
	Now      string `help:"Clock override (RFC 3339) for relative dates and reproducible output."`

	Serve    serveCmd    `cmd:"" help:"Serve the dashboard JSON API, event streams and metrics."`
	View     viewCmd     `cmd:"" help:"Render the record table of a listing page."`
	Layout   layoutCmd   `cmd:"" help:"Resolve a page layout with widget data."`
	Chart    chartCmd    `cmd:"" help:"Render a seeded chart dataset to an HTML file."`
	Nav      navCmd      `cmd:"" help:"List the navigation entries."`
	Manifest manifestCmd `cmd:"" help:"Validate, export, or extend widget manifests."`
}

type runtime struct {
	cfg *config.Config
	log *logger.Logger
	now func() time.Time
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("erpctl"),
		kong.Description("ERP dashboard server and inspection tool."),
		kong.UsageOnError(),
	)
	rt, err := c.runtime()
	ctx.FatalIfErrorf(err)
	ctx.BindTo(context.Background(), (*context.Context)(nil))
	ctx.FatalIfErrorf(ctx.Run(rt))
}

func (c *cli) runtime() (*runtime, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.Seed != "" {
		cfg.Seed.File = c.Seed
	}
	now := time.Now
	if c.Now != "" {
		fixed, err := time.Parse(time.RFC3339, c.Now)
		if err != nil {
			return nil, err
		}
		now = func() time.Time { return fixed }
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	return &runtime{cfg: cfg, log: log, now: now}, nil
}

func (rt *runtime) app(ctx context.Context) (*dashboardpkg.App, error) {
	return dashboardpkg.New(ctx, rt.cfg, rt.log, dashboardpkg.WithClock(rt.now))
}
