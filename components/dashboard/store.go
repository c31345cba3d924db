package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ErrWidgetNotFound is returned for unknown instance ids.
var ErrWidgetNotFound = errors.New("dashboard: widget instance not found")

// MemoryWidgetStore is an in-process WidgetStore. Instance ids are UUIDs.
type MemoryWidgetStore struct {
	mu          sync.RWMutex
	areas       map[string]WidgetAreaDefinition
	definitions map[string]WidgetDefinition
	instances   map[string]WidgetInstance
	placements  map[string][]string
	newID       func() string
}

var _ WidgetStore = (*MemoryWidgetStore)(nil)

// NewMemoryWidgetStore creates an empty store.
func NewMemoryWidgetStore() *MemoryWidgetStore {
	return &MemoryWidgetStore{
		areas:       map[string]WidgetAreaDefinition{},
		definitions: map[string]WidgetDefinition{},
		instances:   map[string]WidgetInstance{},
		placements:  map[string][]string{},
		newID:       func() string { return uuid.NewString() },
	}
}

// EnsureArea registers an area; it reports whether the area was created.
func (s *MemoryWidgetStore) EnsureArea(_ context.Context, def WidgetAreaDefinition) (bool, error) {
	if def.Code == "" {
		return false, errInvalidArea
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.areas[def.Code]; ok {
		return false, nil
	}
	s.areas[def.Code] = def
	return true, nil
}

// EnsureDefinition registers a widget definition; it reports whether it was created.
func (s *MemoryWidgetStore) EnsureDefinition(_ context.Context, def WidgetDefinition) (bool, error) {
	if def.Code == "" {
		return false, errInvalidDefinition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[def.Code]; ok {
		return false, nil
	}
	s.definitions[def.Code] = def
	return true, nil
}

// CreateInstance stores a new, unplaced instance.
func (s *MemoryWidgetStore) CreateInstance(_ context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[input.DefinitionID]; !ok {
		return WidgetInstance{}, fmt.Errorf("dashboard: widget definition %s not registered", input.DefinitionID)
	}
	instance := WidgetInstance{
		ID:            s.newID(),
		DefinitionID:  input.DefinitionID,
		Configuration: cloneMap(input.Configuration),
		Visibility:    input.Visibility,
		Metadata:      cloneMap(input.Metadata),
	}
	s.instances[instance.ID] = instance
	return instance, nil
}

// DeleteInstance removes an instance and its placement.
func (s *MemoryWidgetStore) DeleteInstance(_ context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	instance, ok := s.instances[instanceID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, instanceID)
	}
	delete(s.instances, instanceID)
	if instance.AreaCode != "" {
		s.placements[instance.AreaCode] = slices.DeleteFunc(s.placements[instance.AreaCode], func(id string) bool {
			return id == instanceID
		})
	}
	return nil
}

// AssignInstance places an instance in an area. A nil or out of range
// position appends.
func (s *MemoryWidgetStore) AssignInstance(_ context.Context, input AssignWidgetInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.areas[input.AreaCode]; !ok {
		return fmt.Errorf("dashboard: area %s not registered", input.AreaCode)
	}
	instance, ok := s.instances[input.InstanceID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, input.InstanceID)
	}
	if instance.AreaCode != "" {
		s.placements[instance.AreaCode] = slices.DeleteFunc(s.placements[instance.AreaCode], func(id string) bool {
			return id == input.InstanceID
		})
	}
	ids := s.placements[input.AreaCode]
	if input.Position != nil && *input.Position >= 0 && *input.Position < len(ids) {
		ids = slices.Insert(ids, *input.Position, input.InstanceID)
	} else {
		ids = append(ids, input.InstanceID)
	}
	s.placements[input.AreaCode] = ids
	instance.AreaCode = input.AreaCode
	s.instances[input.InstanceID] = instance
	return nil
}

// ResolveArea returns the visible instances of an area in placement order.
func (s *MemoryWidgetStore) ResolveArea(_ context.Context, input ResolveAreaInput) (ResolvedArea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resolved := ResolvedArea{AreaCode: input.AreaCode}
	for pos, id := range s.placements[input.AreaCode] {
		instance, ok := s.instances[id]
		if !ok || !visibleTo(instance.Visibility, input) {
			continue
		}
		instance.Position = pos
		instance.Configuration = cloneMap(instance.Configuration)
		instance.Metadata = cloneMap(instance.Metadata)
		resolved.Widgets = append(resolved.Widgets, instance)
	}
	return resolved, nil
}

// Instances returns the number of stored instances.
func (s *MemoryWidgetStore) Instances() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

func visibleTo(v WidgetVisibility, input ResolveAreaInput) bool {
	if !input.Now.IsZero() {
		if v.StartAt != nil && input.Now.Before(*v.StartAt) {
			return false
		}
		if v.EndAt != nil && input.Now.After(*v.EndAt) {
			return false
		}
	}
	if len(v.Roles) == 0 {
		return true
	}
	for _, role := range v.Roles {
		if slices.Contains(input.Audience, role) {
			return true
		}
	}
	return false
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
