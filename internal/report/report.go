// Package report renders validation failures in the fixed single-line
// diagnostic format shared by every robant check.
package report

import (
	"errors"
	"fmt"
)

// Position locates a diagnostic in its source document. Line and Col
// are 1-based; zero means the information is not available.
type Position struct {
	File string
	Line int
	Col  int
}

// Diagnostic is implemented by every error kind that carries a source
// position. The Error method returns the bare message without the
// file prefix; Render adds it.
type Diagnostic interface {
	error
	Pos() Position
}

// Render formats err as a single machine-greppable line. The format is
// chosen by the positional information the error carries:
//
//	Failed validation: <file>: <message>
//	Failed validation: <file>:<line>: <message>
//	Failed validation: <file>:<line>:<col>: <message>
func Render(err error) string {
	var d Diagnostic
	if !errors.As(err, &d) {
		return fmt.Sprintf("Failed validation: %s", err)
	}
	p := d.Pos()
	switch {
	case p.Line > 0 && p.Col > 0:
		return fmt.Sprintf("Failed validation: %s:%d:%d: %s", p.File, p.Line, p.Col, d.Error())
	case p.Line > 0:
		return fmt.Sprintf("Failed validation: %s:%d: %s", p.File, p.Line, d.Error())
	default:
		return fmt.Sprintf("Failed validation: %s: %s", p.File, d.Error())
	}
}
