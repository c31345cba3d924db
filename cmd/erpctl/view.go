package main

import (
	"context"
	"fmt"
	"os"

	core "github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

type viewCmd struct {
	Page     string `arg:"" help:"Listing page code (inventory, purchase-orders, sales-orders, users, reports)."`
	Search   string `help:"Search term."`
	Category string `default:"all" help:"Category filter value."`
	Format   string `short:"f" default:"text" enum:"text,json,yaml" help:"Output format."`
	Viewer   string `default:"cli" help:"Viewer id the filter is stored for."`
}

func (cmd *viewCmd) Run(ctx context.Context, rt *runtime) error {
	app, err := rt.app(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	viewer := core.ViewerContext{UserID: cmd.Viewer}
	if _, err := app.Service.ApplyFilter(ctx, viewer, cmd.Page, records.FilterState{
		Search:   cmd.Search,
		Category: cmd.Category,
	}); err != nil {
		return err
	}
	table, err := app.Service.PageView(ctx, viewer, cmd.Page)
	if err != nil {
		return err
	}
	if cmd.Format == "text" {
		return writeTable(os.Stdout, table)
	}
	return encode(os.Stdout, cmd.Format, table)
}

type layoutCmd struct {
	Page   string   `arg:"" help:"Page code."`
	Viewer string   `default:"cli" help:"Viewer id."`
	Role   []string `help:"Viewer roles."`
	Format string   `short:"f" default:"json" enum:"json,yaml" help:"Output format."`
}

func (cmd *layoutCmd) Run(ctx context.Context, rt *runtime) error {
	app, err := rt.app(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	payload, err := app.Controller.Render(ctx, core.ViewerContext{UserID: cmd.Viewer, Roles: cmd.Role}, cmd.Page)
	if err != nil {
		return err
	}
	return encode(os.Stdout, cmd.Format, payload)
}

type chartCmd struct {
	Dataset string `arg:"" help:"Chart dataset code (sales_trend, monthly_revenue, ...)."`
	Kind    string `help:"Override the dataset chart kind (line or bar)."`
	Theme   string `help:"ECharts theme."`
	Out     string `short:"o" type:"path" help:"Output HTML file; stdout when empty."`
}

func (cmd *chartCmd) Run(ctx context.Context, rt *runtime) error {
	app, err := rt.app(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	provider, ok := app.Registry.Provider(core.WidgetDatasetChart)
	if !ok {
		return fmt.Errorf("erpctl: dataset chart provider is not registered")
	}
	cfg := map[string]any{"dataset": cmd.Dataset}
	if cmd.Kind != "" {
		cfg["kind"] = cmd.Kind
	}
	if cmd.Theme != "" {
		cfg["theme"] = cmd.Theme
	}
	data, err := provider.Fetch(ctx, core.WidgetContext{
		Instance: core.WidgetInstance{ID: "cli", DefinitionID: core.WidgetDatasetChart, Configuration: cfg},
		Viewer:   core.ViewerContext{UserID: "cli"},
	})
	if err != nil {
		return err
	}
	html, _ := data["chart_html"].(string)
	if cmd.Out == "" {
		_, err = fmt.Fprint(os.Stdout, html)
		return err
	}
	if err := os.WriteFile(cmd.Out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("erpctl: write chart: %w", err)
	}
	rt.log.Info().Str("dataset", cmd.Dataset).Str("out", cmd.Out).Msg("chart written")
	return nil
}

type navCmd struct {
	Active string `help:"Page code to mark active."`
	Format string `short:"f" default:"text" enum:"text,json,yaml" help:"Output format."`
}

func (cmd *navCmd) Run(_ context.Context, _ *runtime) error {
	entries := core.Navigation(cmd.Active)
	if cmd.Format == "text" {
		return writeNavigation(os.Stdout, entries)
	}
	return encode(os.Stdout, cmd.Format, entries)
}
