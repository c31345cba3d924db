package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"

	core "github.com/goliatone/go-erp-dashboard/components/dashboard"
)

type manifestCmd struct {
	Validate manifestValidateCmd `cmd:"" help:"Decode a manifest and check its placements against widget schemas."`
	Export   manifestExportCmd   `cmd:"" help:"Write the built-in widgets and placements as a manifest."`
	Add      manifestAddCmd      `cmd:"" help:"Add a widget definition to a manifest file."`
}

type manifestValidateCmd struct {
	Path string `arg:"" type:"existingfile" help:"Manifest file."`
}

func (cmd *manifestValidateCmd) Run(_ context.Context, rt *runtime) error {
	doc, err := core.ReadManifest(cmd.Path)
	if err != nil {
		return err
	}
	if err := checkPlacements(doc); err != nil {
		return err
	}
	rt.log.Info().
		Str("manifest", cmd.Path).
		Int("widgets", len(doc.Widgets)).
		Int("placements", len(doc.Placements)).
		Msg("manifest is valid")
	return nil
}

// checkPlacements validates every placement against the definitions known
// to a registry holding the built-ins plus the manifest widgets.
func checkPlacements(doc *core.WidgetManifestDocument) error {
	reg := core.NewRegistry()
	if err := reg.LoadManifestDocument(doc); err != nil {
		return err
	}
	pages := map[string]bool{}
	for _, page := range core.DefaultPages() {
		pages[page.Code] = true
	}
	validator := core.NewJSONSchemaValidator()
	var errs error
	for idx, p := range doc.Placements {
		if !pages[p.Page] {
			errs = errors.Join(errs, fmt.Errorf("placement %d: %w: %s", idx, core.ErrUnknownPage, p.Page))
			continue
		}
		def, ok := reg.Definition(p.Widget)
		if !ok {
			errs = errors.Join(errs, fmt.Errorf("placement %d: widget %s is not defined", idx, p.Widget))
			continue
		}
		if err := validator.Validate(def, p.Config); err != nil {
			errs = errors.Join(errs, fmt.Errorf("placement %d: %w", idx, err))
		}
	}
	return errs
}

type manifestExportCmd struct {
	Out string `short:"o" type:"path" help:"Output file; stdout when empty."`
}

func (cmd *manifestExportCmd) Run(_ context.Context, _ *runtime) error {
	doc := core.DefaultManifest()
	if cmd.Out == "" {
		return core.EncodeManifest(os.Stdout, doc)
	}
	return writeManifest(cmd.Out, doc)
}

type manifestAddCmd struct {
	Code         string   `required:"" help:"Fully-qualified widget code (e.g. erp.widget.cash_flow)."`
	Name         string   `help:"Display name; derived from the code when empty."`
	Description  string   `help:"One-line description."`
	Category     string   `default:"custom" help:"Widget category."`
	ManifestPath string   `name:"manifest" required:"" type:"path" help:"Manifest file to create or update."`
	SchemaPath   string   `name:"schema" type:"existingfile" help:"JSON schema for the widget configuration."`
	Tag          []string `help:"Tags to record (repeatable)."`
	Capabilities []string `help:"Provider capability labels (html,json,sse,...)."`
	Overwrite    bool     `help:"Replace an existing entry with the same code."`
}

func (cmd *manifestAddCmd) Run(_ context.Context, rt *runtime) error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("erpctl: widget code %s must contain at least one '.' segment", cmd.Code)
	}
	path, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("erpctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(path)
	if err != nil {
		return err
	}
	schema, err := loadSchema(cmd.SchemaPath)
	if err != nil {
		return err
	}
	name := cmd.Name
	if name == "" {
		name = widgetName(cmd.Code)
	}
	entry := core.ManifestWidget{
		Definition: core.WidgetDefinition{
			Code:        cmd.Code,
			Name:        name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Schema:      schema,
		},
		Provider: core.ManifestProvider{
			Name:         name + " Provider",
			Summary:      cmd.Description,
			Entry:        "New" + strcase.ToPascal(lastSegment(cmd.Code)) + "Provider",
			Capabilities: cmd.Capabilities,
		},
		Tags: cmd.Tag,
	}
	if err := upsertWidget(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(path, doc); err != nil {
		return err
	}
	rt.log.Info().Str("widget", cmd.Code).Str("manifest", path).Msg("widget added")
	return nil
}

func upsertWidget(doc *core.WidgetManifestDocument, entry core.ManifestWidget, overwrite bool) error {
	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Definition.Code != entry.Definition.Code {
			continue
		}
		if !overwrite {
			return fmt.Errorf("erpctl: manifest already defines widget %s (use --overwrite to replace)", entry.Definition.Code)
		}
		doc.Widgets[idx] = entry
		replaced = true
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Definition.Code < doc.Widgets[j].Definition.Code
	})
	return nil
}

func lastSegment(code string) string {
	parts := strings.Split(code, ".")
	if slug := strings.TrimSpace(parts[len(parts)-1]); slug != "" {
		return slug
	}
	return code
}

// widgetName turns "erp.widget.cash_flow" into "Cash Flow".
func widgetName(code string) string {
	return strcase.ToCase(lastSegment(code), strcase.TitleCase, ' ')
}

func loadSchema(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("erpctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("erpctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*core.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &core.WidgetManifestDocument{Version: core.ManifestVersion, Source: path}, nil
		}
		return nil, fmt.Errorf("erpctl: stat manifest: %w", err)
	}
	return core.ReadManifest(path)
}

func writeManifest(path string, doc *core.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("erpctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("erpctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return core.EncodeManifest(file, doc)
}
