package model

import "github.com/albcorp/robant/internal/report"

// PartitionError indicates a state name declared in more than one
// section of the model
type PartitionError struct {
	File    string
	Message string
}

// Error returns the bare message
func (e *PartitionError) Error() string {
	return e.Message
}

// Pos returns the model file
func (e *PartitionError) Pos() report.Position {
	return report.Position{File: e.File}
}

// ValidityError indicates a malformed constraint declaration: an
// unknown or unconstrained action state, or an unresolvable
// cross-reference
type ValidityError struct {
	File    string
	Message string
}

// Error returns the bare message
func (e *ValidityError) Error() string {
	return e.Message
}

// Pos returns the model file
func (e *ValidityError) Pos() report.Position {
	return report.Position{File: e.File}
}

// SatisfactionError indicates a project state that no achievable bag
// of actions uniquely classifies
type SatisfactionError struct {
	File    string
	Message string
}

// Error returns the bare message
func (e *SatisfactionError) Error() string {
	return e.Message
}

// Pos returns the model file
func (e *SatisfactionError) Pos() report.Position {
	return report.Position{File: e.File}
}
