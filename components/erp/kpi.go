package erp

// ChangeType is the direction of a KPI trend badge.
type ChangeType string

const (
	ChangeIncrease ChangeType = "increase"
	ChangeDecrease ChangeType = "decrease"
	ChangeNeutral  ChangeType = "neutral"
)

// Change is the trend badge attached to a KPI tile.
type Change struct {
	Value string     `json:"value" yaml:"value"`
	Type  ChangeType `json:"type" yaml:"type" validate:"omitempty,oneof=increase decrease neutral"`
}

// KPIFormat selects how a metric value is displayed.
type KPIFormat string

const (
	FormatCount    KPIFormat = "count"
	FormatNumber   KPIFormat = "number"
	FormatCurrency KPIFormat = "currency"
)

// KPIScope selects which aggregate feeds a tile.
type KPIScope string

const (
	// ScopeVisible reads metrics of the filtered records.
	ScopeVisible KPIScope = "visible"
	// ScopeOverall reads metrics of the whole record set.
	ScopeOverall KPIScope = "overall"
)

// KPI declares one summary tile bound to a page metric.
type KPI struct {
	Page        string    `json:"page,omitempty" yaml:"page,omitempty"`
	Metric      string    `json:"metric" yaml:"metric" validate:"required"`
	Title       string    `json:"title" yaml:"title" validate:"required"`
	Format      KPIFormat `json:"format" yaml:"format" validate:"omitempty,oneof=count number currency"`
	Scope       KPIScope  `json:"scope,omitempty" yaml:"scope,omitempty" validate:"omitempty,oneof=visible overall"`
	Icon        string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Change      Change    `json:"change" yaml:"change"`
}

func (k KPI) withDefaults(page string) KPI {
	if k.Page == "" {
		k.Page = page
	}
	if k.Format == "" {
		k.Format = FormatCount
	}
	if k.Scope == "" {
		k.Scope = ScopeVisible
	}
	if k.Change.Type == "" {
		k.Change.Type = ChangeNeutral
	}
	return k
}
