package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates widget configuration payloads against their schema.
type ConfigValidator interface {
	Validate(def WidgetDefinition, config map[string]any) error
}

// ConfigProblem is one schema violation. Path is a JSON pointer into the configuration.
type ConfigProblem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ConfigError reports every violation found in a widget configuration.
type ConfigError struct {
	Widget   string          `json:"widget"`
	Problems []ConfigProblem `json:"problems"`
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		path := p.Path
		if path == "" {
			path = "/"
		}
		parts = append(parts, path+": "+p.Message)
	}
	return fmt.Sprintf("dashboard: configuration for %s failed validation: %s", e.Widget, strings.Join(parts, "; "))
}

// JSONSchemaValidator compiles widget schemas once and validates configuration maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

var _ ConfigValidator = (*JSONSchemaValidator)(nil)

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate checks config against the definition schema. Violations are
// returned as *ConfigError.
func (v *JSONSchemaValidator) Validate(def WidgetDefinition, config map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	payload, err := normalizeConfig(config)
	if err != nil {
		return fmt.Errorf("dashboard: normalize config for %s: %w", def.Code, err)
	}
	if err := schema.Validate(payload); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ConfigError{Widget: def.Code, Problems: problemsOf(verr)}
		}
		return fmt.Errorf("dashboard: validate config for %s: %w", def.Code, err)
	}
	return nil
}

// Forget drops the compiled schema of a definition so a changed schema is recompiled.
func (v *JSONSchemaValidator) Forget(code string) {
	v.mu.Lock()
	delete(v.compiled, code)
	v.mu.Unlock()
}

func (v *JSONSchemaValidator) schemaFor(def WidgetDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Code]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", def.Code, err)
	}
	compiler := jsonschema.NewCompiler()
	name := def.Code + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", def.Code, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", def.Code, err)
	}
	v.mu.Lock()
	v.compiled[def.Code] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// normalizeConfig round trips config through JSON so Go values (ints, typed
// slices) reach the validator in their JSON shape.
func normalizeConfig(config map[string]any) (map[string]any, error) {
	if config == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func problemsOf(verr *jsonschema.ValidationError) []ConfigProblem {
	var problems []ConfigProblem
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			problems = append(problems, ConfigProblem{Path: e.InstanceLocation, Message: e.Message})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return problems
}
