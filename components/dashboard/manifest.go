package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// WidgetManifestDocument models a YAML manifest that adds widget definitions
// and page placements on top of the built-in ones.
type WidgetManifestDocument struct {
	Version    string              `json:"version" yaml:"version"`
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Widgets    []ManifestWidget    `json:"widgets,omitempty" yaml:"widgets,omitempty"`
	Placements []ManifestPlacement `json:"placements,omitempty" yaml:"placements,omitempty"`
	Source     string              `json:"-" yaml:"-"`
}

// ManifestWidget describes a single widget entry within a manifest.
type ManifestWidget struct {
	Definition WidgetDefinition `json:"definition" yaml:"definition"`
	Provider   ManifestProvider `json:"provider,omitempty" yaml:"provider,omitempty"`
	Tags       []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestProvider captures discovery metadata about a provider implementation.
type ManifestProvider struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Summary      string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Entry        string   `json:"entry,omitempty" yaml:"entry,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

// ManifestPlacement places a widget on a page slot.
type ManifestPlacement struct {
	Page     string         `json:"page" yaml:"page"`
	Slot     string         `json:"slot" yaml:"slot"`
	Widget   string         `json:"widget" yaml:"widget"`
	Position *int           `json:"position,omitempty" yaml:"position,omitempty"`
	Roles    []string       `json:"roles,omitempty" yaml:"roles,omitempty"`
	Config   map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

var manifestSlots = []string{SlotHeader, SlotMain, SlotSidebar}

// LoadManifestFile reads a manifest from disk, registers its widgets, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*WidgetManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions and provider metadata from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *WidgetManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	for _, widget := range doc.Widgets {
		if err := r.RegisterDefinition(widget.Definition); err != nil {
			return fmt.Errorf("dashboard: register widget %s from %s: %w", widget.Definition.Code, doc.Source, err)
		}
		r.recordProviderMetadata(widget.Definition.Code, widget.Provider)
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*WidgetManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader. Unknown keys are rejected.
func DecodeManifest(r io.Reader) (*WidgetManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc WidgetManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural rules of the document. Placement
// configurations are checked against widget schemas when they are seeded.
func (doc *WidgetManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, widget := range doc.Widgets {
		if widget.Definition.Code == "" {
			return fmt.Errorf("dashboard: manifest widget at index %d is missing definition.code", idx)
		}
		if widget.Definition.Name == "" {
			return fmt.Errorf("dashboard: manifest widget %s missing definition.name", widget.Definition.Code)
		}
		if _, exists := seen[widget.Definition.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates widget code %s", widget.Definition.Code)
		}
		seen[widget.Definition.Code] = struct{}{}
	}
	for idx, placement := range doc.Placements {
		if placement.Page == "" || placement.Widget == "" {
			return fmt.Errorf("dashboard: manifest placement at index %d needs page and widget", idx)
		}
		if !slices.Contains(manifestSlots, placement.Slot) {
			return fmt.Errorf("dashboard: manifest placement at index %d has unknown slot %q", idx, placement.Slot)
		}
		if placement.Position != nil && *placement.Position < 0 {
			return fmt.Errorf("dashboard: manifest placement at index %d has negative position", idx)
		}
	}
	return nil
}

// SeedRequests turns the placements into widget requests in document order.
func (doc *WidgetManifestDocument) SeedRequests() []AddWidgetRequest {
	out := make([]AddWidgetRequest, 0, len(doc.Placements))
	for _, p := range doc.Placements {
		out = append(out, AddWidgetRequest{
			DefinitionID:  p.Widget,
			AreaCode:      AreaCode(p.Page, p.Slot),
			Configuration: cloneMap(p.Config),
			Position:      p.Position,
			Roles:         append([]string(nil), p.Roles...),
		})
	}
	return out
}

// DefaultManifest describes the built-in widgets and placements as a document.
func DefaultManifest() *WidgetManifestDocument {
	doc := &WidgetManifestDocument{Version: manifestVersionV1, Name: "erp-dashboard"}
	for _, def := range DefaultWidgetDefinitions() {
		doc.Widgets = append(doc.Widgets, ManifestWidget{Definition: def})
	}
	for _, req := range DefaultSeedWidgets() {
		page, slot := splitAreaCode(req.AreaCode)
		doc.Placements = append(doc.Placements, ManifestPlacement{
			Page:   page,
			Slot:   slot,
			Widget: req.DefinitionID,
			Config: req.Configuration,
		})
	}
	return doc
}

// EncodeManifest writes doc as YAML.
func EncodeManifest(w io.Writer, doc *WidgetManifestDocument) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode manifest: %w", err)
	}
	return enc.Close()
}

func (p ManifestProvider) isZero() bool {
	return p.Name == "" &&
		p.Summary == "" &&
		p.Entry == "" &&
		len(p.Capabilities) == 0
}
