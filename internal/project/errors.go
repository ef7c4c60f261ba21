package project

import "github.com/albcorp/robant/internal/report"

// StateError indicates an unknown workflow state, or a project state
// incompatible with the project's position in the hierarchy
type StateError struct {
	File    string
	Message string
}

// Error returns the bare message
func (e *StateError) Error() string {
	return e.Message
}

// Pos returns the offending file
func (e *StateError) Pos() report.Position {
	return report.Position{File: e.File}
}

// IdentityError indicates a UUID collision or a slug that does not
// match its folder
type IdentityError struct {
	File    string
	Message string
}

// Error returns the bare message
func (e *IdentityError) Error() string {
	return e.Message
}

// Pos returns the offending file
func (e *IdentityError) Pos() report.Position {
	return report.Position{File: e.File}
}

// ChronologyError indicates a logbook rule violation
type ChronologyError struct {
	File    string
	Message string
}

// Error returns the bare message
func (e *ChronologyError) Error() string {
	return e.Message
}

// Pos returns the offending file
func (e *ChronologyError) Pos() report.Position {
	return report.Position{File: e.File}
}

// SatisfactionError indicates an action-count clause violated by the
// project plans. Line locates the offending action when one exists
type SatisfactionError struct {
	File    string
	Line    int
	Message string
}

// Error returns the bare message
func (e *SatisfactionError) Error() string {
	return e.Message
}

// Pos returns the offending file and, when set, the action line
func (e *SatisfactionError) Pos() report.Position {
	return report.Position{File: e.File, Line: e.Line}
}
