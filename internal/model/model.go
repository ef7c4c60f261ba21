// Package model implements the workflow state model: loading,
// constraint compilation, and the proofs that the model partitions its
// states, constrains them validly, and can realise every project
// state.
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/albcorp/robant/internal/hierarchy"
	"github.com/albcorp/robant/internal/validation"
)

// StateDesc describes a state that carries no constraints
type StateDesc struct {
	Precis string `yaml:"precis"`
}

// Constraint is one action-state entry in the constraints mapping of
// an open or shut project state. Exactly one of the interpretations
// applies: a bound pair, or a cross-reference naming another action
// state whose equivalence class absorbs this one
type Constraint struct {
	Min    int
	Max    int
	HasMax bool
	Xref   string
}

// UnmarshalYAML decodes the three concrete constraint forms: an exact
// count, a one- or two-element bound list, or a cross-reference
func (c *Constraint) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case node.Kind == yaml.ScalarNode && node.Tag == "!!int":
		var n int
		if err := node.Decode(&n); err != nil {
			return err
		}
		*c = Constraint{Min: n, Max: n, HasMax: true}
		return nil
	case node.Kind == yaml.ScalarNode && node.Tag == "!!str":
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*c = Constraint{Xref: s}
		return nil
	case node.Kind == yaml.SequenceNode:
		var bounds []int
		if err := node.Decode(&bounds); err != nil {
			return err
		}
		switch len(bounds) {
		case 1:
			*c = Constraint{Min: bounds[0]}
			return nil
		case 2:
			*c = Constraint{Min: bounds[0], Max: bounds[1], HasMax: true}
			return nil
		}
		return fmt.Errorf("line %d: constraint bounds must have one or two elements", node.Line)
	}
	return fmt.Errorf("line %d: cannot decode constraint entry", node.Line)
}

// MarshalYAML re-serialises the entry in its source form
func (c Constraint) MarshalYAML() (interface{}, error) {
	switch {
	case c.Xref != "":
		return c.Xref, nil
	case c.HasMax && c.Min == c.Max:
		return c.Min, nil
	case c.HasMax:
		return []int{c.Min, c.Max}, nil
	default:
		return []int{c.Min}, nil
	}
}

// ConstrainedState is a project state that admits actions
type ConstrainedState struct {
	Precis      string                `yaml:"precis"`
	Constraints map[string]Constraint `yaml:"constraints"`
}

// StateModel is the typed form of STATES.yml
type StateModel struct {
	File         string                      `yaml:"-"`
	ActionStates map[string]StateDesc        `yaml:"action_states"`
	LimbStates   map[string]StateDesc        `yaml:"limb_states"`
	EmptyStates  map[string]StateDesc        `yaml:"empty_states"`
	OpenStates   map[string]ConstrainedState `yaml:"open_states"`
	ShutStates   map[string]ConstrainedState `yaml:"shut_states"`
}

// Load reads, validates, and binds the state model at the root of the
// repository
func Load(root string) (*StateModel, error) {
	path := filepath.Join(root, hierarchy.StatesName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &hierarchy.Error{Path: path, Message: "Missing state model file"}
		}
		return nil, err
	}
	return Parse(path, data)
}

// Parse validates and binds a raw state model document
func Parse(path string, data []byte) (*StateModel, error) {
	if err := validation.ValidateModel(path, data); err != nil {
		return nil, err
	}
	var m StateModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, validation.NewParseError(path, err.Error())
	}
	m.File = path
	return &m, nil
}

// ActionStateNames returns the declared action states in sorted order
func (m *StateModel) ActionStateNames() []string {
	names := make([]string, 0, len(m.ActionStates))
	for a := range m.ActionStates {
		names = append(names, a)
	}
	sort.Strings(names)
	return names
}

// ProjectStates returns the union of limb, empty, open, and shut
// states
func (m *StateModel) ProjectStates() map[string]bool {
	states := make(map[string]bool)
	for s := range m.LimbStates {
		states[s] = true
	}
	for s := range m.EmptyStates {
		states[s] = true
	}
	for s := range m.OpenStates {
		states[s] = true
	}
	for s := range m.ShutStates {
		states[s] = true
	}
	return states
}

// IsLimb reports whether s is a limb project state
func (m *StateModel) IsLimb(s string) bool {
	_, ok := m.LimbStates[s]
	return ok
}

// IsShut reports whether s is a shut project state
func (m *StateModel) IsShut(s string) bool {
	_, ok := m.ShutStates[s]
	return ok
}

// constrainedStates merges the open and shut declarations; every
// project state in the result carries explicit constraints
func (m *StateModel) constrainedStates() map[string]ConstrainedState {
	merged := make(map[string]ConstrainedState, len(m.OpenStates)+len(m.ShutStates))
	for s, d := range m.OpenStates {
		merged[s] = d
	}
	for s, d := range m.ShutStates {
		merged[s] = d
	}
	return merged
}

// sortedKeys is a helper for deterministic iteration over the model's
// string-keyed sections
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
