package records

import (
	"strings"

	"github.com/ettle/strcase"
)

// Severity is the presentation category a value is classified into.
type Severity string

const (
	SeverityNeutral   Severity = "neutral"
	SeverityPrimary   Severity = "primary"
	SeveritySecondary Severity = "secondary"
	SeveritySuccess   Severity = "success"
	SeverityWarning   Severity = "warning"
	SeverityDanger    Severity = "danger"
	SeverityAccent    Severity = "accent"
)

// NeutralClass is the style class of unclassified values.
const NeutralClass = "bg-muted text-muted-foreground"

var severityClasses = map[Severity]string{
	SeverityNeutral:   NeutralClass,
	SeverityPrimary:   "bg-primary text-primary-foreground",
	SeveritySecondary: "bg-secondary text-secondary-foreground",
	SeveritySuccess:   "bg-success text-success-foreground",
	SeverityWarning:   "bg-warning text-warning-foreground",
	SeverityDanger:    "bg-destructive text-destructive-foreground",
	SeverityAccent:    "bg-accent text-accent-foreground",
}

// ClassFor returns the default style class for a severity.
func ClassFor(severity Severity) string {
	if class, ok := severityClasses[severity]; ok {
		return class
	}
	return NeutralClass
}

// Style describes how a classified value is presented.
type Style struct {
	Label    string   `json:"label" yaml:"label"`
	Severity Severity `json:"severity" yaml:"severity"`
	Variant  string   `json:"variant,omitempty" yaml:"variant,omitempty"`
	Icon     string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Class    string   `json:"class" yaml:"class"`
	Slug     string   `json:"slug" yaml:"slug"`
}

// NeutralStyle is the fallback for values missing from a table.
func NeutralStyle(label string) Style {
	return Style{
		Label:    label,
		Severity: SeverityNeutral,
		Variant:  "secondary",
		Class:    NeutralClass,
		Slug:     slug(label),
	}
}

// Entry binds a raw value to its style.
type Entry struct {
	Value string
	Style Style
}

// Classifier is a static lookup from raw values to styles. Classify is total:
// unknown values resolve to the fallback style labelled with the raw value.
type Classifier struct {
	name     string
	order    []string
	styles   map[string]Style
	fallback Style
}

// ClassifierOption customizes a Classifier.
type ClassifierOption func(*Classifier)

// WithFallback overrides the neutral fallback. The label is always replaced
// with the raw value being classified.
func WithFallback(style Style) ClassifierOption {
	return func(c *Classifier) {
		c.fallback = style
	}
}

// NewClassifier builds a classifier from entries. Keys are matched ignoring case.
func NewClassifier(name string, entries []Entry, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		name:     name,
		styles:   make(map[string]Style, len(entries)),
		fallback: NeutralStyle(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, entry := range entries {
		style := entry.Style
		if style.Label == "" {
			style.Label = entry.Value
		}
		if style.Severity == "" {
			style.Severity = SeverityNeutral
		}
		if style.Class == "" {
			style.Class = ClassFor(style.Severity)
		}
		style.Slug = slug(style.Label)
		key := normalizeKey(entry.Value)
		if _, exists := c.styles[key]; !exists {
			c.order = append(c.order, entry.Value)
		}
		c.styles[key] = style
	}
	return c
}

// Name identifies the table.
func (c *Classifier) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Classify returns the style for value, or the fallback when value is unknown.
func (c *Classifier) Classify(value string) Style {
	if c == nil {
		return NeutralStyle(value)
	}
	if style, ok := c.styles[normalizeKey(value)]; ok {
		return style
	}
	style := c.fallback
	style.Label = value
	if style.Severity == "" {
		style.Severity = SeverityNeutral
	}
	if style.Class == "" {
		style.Class = ClassFor(style.Severity)
	}
	style.Slug = slug(value)
	return style
}

// Known reports whether value has an explicit entry.
func (c *Classifier) Known(value string) bool {
	if c == nil {
		return false
	}
	_, ok := c.styles[normalizeKey(value)]
	return ok
}

// Values lists the raw values in declaration order.
func (c *Classifier) Values() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func slug(label string) string {
	if strings.TrimSpace(label) == "" {
		return "unknown"
	}
	return strcase.ToKebab(label)
}
