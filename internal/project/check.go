package project

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/albcorp/robant/internal/hierarchy"
	"github.com/albcorp/robant/internal/interval"
	"github.com/albcorp/robant/internal/model"
)

// Validator carries the run-wide state shared by every project check:
// the compiled constraints, the UUID registry, and the effort interval
// index. It is built once per run and never mutated concurrently
type Validator struct {
	model     *model.StateModel
	compiled  model.Compiled
	uuids     map[uuid.UUID]string
	intervals *interval.Tree
}

// NewValidator analyses the state model and prepares the run state.
// Model check failures are returned before any project is visited
func NewValidator(m *model.StateModel) (*Validator, error) {
	compiled, err := model.Check(m)
	if err != nil {
		return nil, err
	}
	return &Validator{
		model:     m,
		compiled:  compiled,
		uuids:     make(map[uuid.UUID]string),
		intervals: interval.New(),
	}, nil
}

// ValidateForest walks the project folders under dir and collects one
// diagnostic per failing project. A hierarchy failure ends the walk
// and is collected with whatever was found before it
func (v *Validator) ValidateForest(dir string) []error {
	var diags []error
	err := hierarchy.Walk(dir, func(p hierarchy.Project) error {
		if err := v.ValidateProject(p); err != nil {
			diags = append(diags, err)
		}
		return nil
	})
	if err != nil {
		diags = append(diags, err)
	}
	return diags
}

// ValidateProject loads one project and runs the per-project checks
// in their fixed order, stopping at the first failure
func (v *Validator) ValidateProject(p hierarchy.Project) error {
	slog.Debug("validating project", "metadata", p.MetadataPath, "label", p.Label)

	md, err := LoadMetadata(p.MetadataPath)
	if err != nil {
		return err
	}
	plans, err := LoadPlans(p.PlansPath)
	if err != nil {
		return err
	}

	if err := v.checkState(p.Label, md, plans); err != nil {
		return err
	}
	if err := v.checkIdentity(md); err != nil {
		return err
	}
	if err := v.checkChronology(md); err != nil {
		return err
	}
	return v.checkSatisfaction(md, plans)
}

// checkState verifies every workflow state the project mentions: the
// current state against the model and the position label, the logbook
// transitions, and the plan actions
func (v *Validator) checkState(label hierarchy.Label, md *Metadata, plans *Plans) error {
	projectStates := v.model.ProjectStates()

	if !projectStates[md.Todo] {
		return &StateError{
			File:    md.File,
			Message: fmt.Sprintf("Unknown project TODO state: %s", md.Todo),
		}
	}
	if label == hierarchy.Limb && !v.model.IsLimb(md.Todo) {
		return &StateError{
			File:    md.File,
			Message: fmt.Sprintf("Invalid project TODO state for limb project: %s", md.Todo),
		}
	}

	for _, entry := range md.Logbook {
		tr, ok := entry.(*Transition)
		if !ok {
			continue
		}
		if !projectStates[tr.To] {
			return &StateError{
				File:    md.File,
				Message: fmt.Sprintf("Unknown project TODO state in logbook entry: %s: %s", tr.To, tr.At),
			}
		}
		if tr.From != "" && !projectStates[tr.From] {
			return &StateError{
				File:    md.File,
				Message: fmt.Sprintf("Unknown project TODO state in logbook entry: %s: %s", tr.From, tr.At),
			}
		}
	}

	for _, action := range plans.Actions {
		if _, ok := v.model.ActionStates[action.Todo]; !ok {
			return &StateError{
				File:    plans.File,
				Message: fmt.Sprintf("Unknown action TODO state: %s", action.Todo),
			}
		}
	}
	return nil
}

// checkIdentity enforces forest-wide UUID uniqueness and the
// slug/folder agreement required of non-limb projects
func (v *Validator) checkIdentity(md *Metadata) error {
	id, err := uuid.Parse(md.UUID)
	if err != nil {
		return &IdentityError{
			File:    md.File,
			Message: fmt.Sprintf("Invalid project UUID: %s", md.UUID),
		}
	}
	if prev, ok := v.uuids[id]; ok {
		return &IdentityError{
			File:    md.File,
			Message: fmt.Sprintf("Project UUID MUST be unique: %s: %s", md.UUID, prev),
		}
	}
	v.uuids[id] = md.File

	folder := filepath.Base(filepath.Dir(md.File))
	if md.Slug != folder && !v.model.IsLimb(md.Todo) {
		return &IdentityError{
			File:    md.File,
			Message: fmt.Sprintf("Project slug MUST match folder name: %s", md.Slug),
		}
	}
	return nil
}

// checkChronology enforces the logbook rules: disjoint effort
// intervals across the whole forest, a recorded inception, inactivity
// of limb projects, ordered entries with continuous transitions, and
// agreement between the final transition and the project state
func (v *Validator) checkChronology(md *Metadata) error {
	for _, entry := range md.Logbook {
		iv, ok := entry.(*Interval)
		if !ok {
			continue
		}
		if iv.Stop.Before(iv.Start.Time) {
			return &ChronologyError{
				File:    md.File,
				Message: fmt.Sprintf("Logbook time intervals MUST be non-negative: %s, %s", iv.Start, iv.Stop),
			}
		}
		if olap, ok := v.intervals.AnyOverlap(iv.Start.Time, iv.Stop.Time); ok {
			olapStart := laterOf(iv.Start.Time, olap.Start)
			olapStop := earlierOf(iv.Stop.Time, olap.Stop)
			return &ChronologyError{
				File:    md.File,
				Message: fmt.Sprintf("Logbook time intervals MUST NOT overlap: %s, %s", formatInstant(olapStart), formatInstant(olapStop)),
			}
		}
		v.intervals.Insert(iv.Start.Time, iv.Stop.Time, md.File)
	}

	oldest, ok := md.Logbook[len(md.Logbook)-1].(*Transition)
	if !ok || oldest.From != "" {
		return &ChronologyError{
			File:    md.File,
			Message: "Logbook MUST record project inception",
		}
	}

	if v.model.IsLimb(md.Todo) && len(md.Logbook) > 1 {
		return &ChronologyError{
			File:    md.File,
			Message: "Limb projects MUST NOT record activity",
		}
	}

	predState := oldest.To
	predStop := oldest.At.Time
	for i := len(md.Logbook) - 2; i >= 0; i-- {
		switch curr := md.Logbook[i].(type) {
		case *Transition:
			if curr.At.Before(predStop) {
				return &ChronologyError{
					File:    md.File,
					Message: fmt.Sprintf("Logbook entry MUST NOT start before preceding entry: %s", curr.At),
				}
			}
			if curr.From != predState {
				return &ChronologyError{
					File:    md.File,
					Message: fmt.Sprintf("Logbook transition MUST record preceding state: %s", curr.At),
				}
			}
			predState = curr.To
			predStop = curr.At.Time
		case *Interval:
			if curr.Start.Before(predStop) {
				return &ChronologyError{
					File:    md.File,
					Message: fmt.Sprintf("Logbook entry MUST NOT start before preceding entry: %s", curr.Start),
				}
			}
			if v.model.IsLimb(predState) {
				return &ChronologyError{
					File:    md.File,
					Message: fmt.Sprintf("Effort MUST NOT be recorded against limb project state: %s: %s", predState, curr.Start),
				}
			}
			if v.model.IsShut(predState) {
				return &ChronologyError{
					File:    md.File,
					Message: fmt.Sprintf("Effort MUST NOT be recorded against shut project state: %s: %s", predState, curr.Start),
				}
			}
			predStop = curr.Stop.Time
		}
	}
	if predState != md.Todo {
		return &ChronologyError{
			File:    md.File,
			Message: fmt.Sprintf("Final logbook transition MUST match project state: %s", predState),
		}
	}
	return nil
}

// checkSatisfaction counts the plan actions against the compiled
// clauses of the project's state. Limb states admit no actions at all
func (v *Validator) checkSatisfaction(md *Metadata, plans *Plans) error {
	clauses, ok := v.compiled[md.Todo]
	if !ok {
		if len(plans.Actions) > 0 {
			first := plans.Actions[0]
			return &SatisfactionError{
				File:    plans.File,
				Line:    first.Line,
				Message: fmt.Sprintf("Actions MUST NOT be recorded against limb project state: %s: %s %s", md.Todo, first.Todo, first.Title),
			}
		}
		return nil
	}

	for _, cl := range clauses {
		count := 0
		if !cl.HasMax {
			for _, action := range plans.Actions {
				if containsState(cl.States, action.Todo) {
					count++
					if count == cl.Min {
						break
					}
				}
			}
		} else {
			for _, action := range plans.Actions {
				if containsState(cl.States, action.Todo) {
					count++
					if count > cl.Max {
						return &SatisfactionError{
							File:    plans.File,
							Line:    action.Line,
							Message: fmt.Sprintf("Upper bound on actions states exceeded: %s: %d <= %s <= %d", md.Todo, cl.Min, cl.Class(), cl.Max),
						}
					}
				}
			}
		}
		if count < cl.Min {
			return &SatisfactionError{
				File:    md.File,
				Message: fmt.Sprintf("Lower bound on action states not reached: %s: %d <= %s", md.Todo, cl.Min, cl.Class()),
			}
		}
	}
	return nil
}

func containsState(states []string, s string) bool {
	for _, x := range states {
		if x == s {
			return true
		}
	}
	return false
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// formatInstant renders a computed instant the way timestamps are
// written in the documents
func formatInstant(t time.Time) string {
	if t.Second() == 0 {
		return t.Format("2006-01-02 15:04")
	}
	return t.Format("2006-01-02 15:04:05")
}
