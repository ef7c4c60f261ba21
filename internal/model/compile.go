package model

import (
	"sort"
	"strings"
)

// Clause constrains the total count of actions over an equivalence
// class of action states. Min is always present; Max only when HasMax
// is set. For one project state the clause classes partition the
// action-state universe
type Clause struct {
	States []string
	Min    int
	Max    int
	HasMax bool
}

// Class renders the equivalence class for diagnostics
func (c Clause) Class() string {
	return strings.Join(c.States, " + ")
}

// contains reports whether the clause class covers action state a
func (c Clause) contains(a string) bool {
	for _, s := range c.States {
		if s == a {
			return true
		}
	}
	return false
}

// Compiled maps each non-limb project state to its compiled clauses
type Compiled map[string][]Clause

// Counts is a bag of actions in canonical form: one entry per action
// state, sorted by state name
type Counts []StateCount

// StateCount is the count of actions at one action state
type StateCount struct {
	State string
	N     int
}

// Total returns the bag size
func (c Counts) Total() int {
	total := 0
	for _, sc := range c {
		total += sc.N
	}
	return total
}

// ZeroCounts returns the all-zero bag over the model's action states
func ZeroCounts(m *StateModel) Counts {
	actions := m.ActionStateNames()
	counts := make(Counts, len(actions))
	for i, a := range actions {
		counts[i] = StateCount{State: a}
	}
	return counts
}

// CountActions folds a sequence of action states into canonical
// counts. States outside the model are ignored; callers reject them
// beforehand
func CountActions(m *StateModel, states []string) Counts {
	counts := ZeroCounts(m)
	index := make(map[string]int, len(counts))
	for i, sc := range counts {
		index[sc.State] = i
	}
	for _, s := range states {
		if i, ok := index[s]; ok {
			counts[i].N++
		}
	}
	return counts
}

// Compile lowers the model's constraint declarations into explicit
// clauses. Empty project states become all-zero clauses; open and
// shut states expand their concrete entries and then fold each
// cross-reference into the class of its target
func Compile(m *StateModel) Compiled {
	actions := m.ActionStateNames()

	compiled := make(Compiled)
	for e := range m.EmptyStates {
		clauses := make([]Clause, 0, len(actions))
		for _, a := range actions {
			clauses = append(clauses, Clause{States: []string{a}, Min: 0, Max: 0, HasMax: true})
		}
		compiled[e] = clauses
	}

	for state, desc := range m.constrainedStates() {
		var clauses []Clause
		for _, a := range actions {
			con := desc.Constraints[a]
			if con.Xref != "" {
				continue
			}
			clauses = append(clauses, Clause{States: []string{a}, Min: con.Min, Max: con.Max, HasMax: con.HasMax})
		}
		for _, a := range actions {
			con := desc.Constraints[a]
			if con.Xref == "" {
				continue
			}
			for i := range clauses {
				if clauses[i].States[0] == con.Xref {
					clauses[i].States = append(clauses[i].States, a)
					break
				}
			}
		}
		compiled[state] = clauses
	}

	return compiled
}

// Satisfies reports whether counts meets every clause
func Satisfies(clauses []Clause, counts Counts) bool {
	for _, cl := range clauses {
		total := 0
		for _, sc := range counts {
			if cl.contains(sc.State) {
				total += sc.N
			}
		}
		if total < cl.Min {
			return false
		}
		if cl.HasMax && total > cl.Max {
			return false
		}
	}
	return true
}

// Classifiers returns the project states whose constraints counts
// satisfies, in sorted order. For a model that passes
// CheckSatisfaction the result has at most one element for every bag
// reachable from the empty bag
func Classifiers(compiled Compiled, counts Counts) []string {
	var states []string
	for state, clauses := range compiled {
		if Satisfies(clauses, counts) {
			states = append(states, state)
		}
	}
	sort.Strings(states)
	return states
}
