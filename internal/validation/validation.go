// Package validation checks raw YAML documents against the bundled
// JSON Schemas before they are bound to typed records.
package validation

import (
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"cuelang.org/go/encoding/jsonschema"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/albcorp/robant/internal/report"
	"github.com/albcorp/robant/internal/schema"
)

// Validator manages CUE validation with schema caching
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// Global validator instance (singleton for performance)
var globalValidator *Validator
var once sync.Once

// getValidator returns the global validator instance (lazy initialization)
func getValidator() *Validator {
	once.Do(func() {
		globalValidator = &Validator{
			ctx:     cuecontext.New(),
			schemas: make(map[string]cue.Value),
		}
	})
	return globalValidator
}

// getSchema lifts an embedded JSON Schema into a CUE value and caches it
func (v *Validator) getSchema(name string) (cue.Value, error) {
	// Check cache first (read lock)
	v.mu.RLock()
	if s, ok := v.schemas[name]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	// Load schema (write lock)
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.schemas[name]; ok {
		return s, nil
	}

	// Get embedded schema source
	raw := schema.Get(name)
	if raw == nil {
		return cue.Value{}, fmt.Errorf("unknown schema: %s", name)
	}

	// A JSON document is valid CUE, so compile it directly
	doc := v.ctx.CompileBytes(raw, cue.Filename("schema/"+name+".json"))
	if doc.Err() != nil {
		return cue.Value{}, fmt.Errorf("failed to compile schema %s: %w", name, doc.Err())
	}

	// Lift the JSON Schema into a CUE definition
	file, err := jsonschema.Extract(doc, &jsonschema.Config{})
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to extract schema %s: %w", name, err)
	}
	def := v.ctx.BuildFile(file)
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("failed to build schema %s: %w", name, def.Err())
	}

	// Cache it
	v.schemas[name] = def
	return def, nil
}

// validate checks the YAML document in data against the named schema.
// The path is used for diagnostics only; the data has already been
// read by the caller
func (v *Validator) validate(path string, data []byte, name string) error {
	schemaValue, err := v.getSchema(name)
	if err != nil {
		return err
	}

	// Parse the YAML source. Timestamps stay strings: CUE has no date
	// type and applies no implicit resolution
	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return newParseError(path, err)
	}
	dataValue := v.ctx.BuildFile(file)
	if dataValue.Err() != nil {
		return newParseError(path, dataValue.Err())
	}

	// Unify data with schema (validation happens here)
	unified := schemaValue.Unify(dataValue)
	if unified.Err() != nil {
		return newParseError(path, unified.Err())
	}

	// Then validate for completeness and concreteness
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return newParseError(path, err)
	}

	return nil
}

// ValidateModel validates a raw state model document
func ValidateModel(path string, data []byte) error {
	return getValidator().validate(path, data, schema.States)
}

// ValidateMetadata validates a raw project metadata document
func ValidateMetadata(path string, data []byte) error {
	return getValidator().validate(path, data, schema.Metadata)
}

// ParseError reports a YAML syntax or schema failure for one document.
// Line and Col are set when the underlying parser supplied a position
// inside the document
type ParseError struct {
	File    string
	Line    int
	Col     int
	Message string
}

// Error returns the bare message; the file and position are rendered
// by the report package
func (e *ParseError) Error() string {
	return e.Message
}

// Pos returns the source position of the failure
func (e *ParseError) Pos() report.Position {
	return report.Position{File: e.File, Line: e.Line, Col: e.Col}
}

// NewParseError builds a ParseError without positional information
func NewParseError(path, message string) *ParseError {
	return &ParseError{File: path, Message: message}
}

// newParseError flattens a CUE error list into a single-line message,
// keeping the first position that points into the failing document
func newParseError(path string, err error) *ParseError {
	pe := &ParseError{File: path}

	var msgs []string
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if p := e.Path(); len(p) > 0 {
			msg = strings.Join(p, ".") + ": " + msg
		}
		msgs = append(msgs, msg)

		if pe.Line == 0 {
			if pos := documentPosition(e, path); pos != token.NoPos {
				pe.Line = pos.Line()
				pe.Col = pos.Column()
			}
		}
	}
	if len(msgs) == 0 {
		msgs = []string{err.Error()}
	}
	pe.Message = strings.Join(msgs, "; ")
	return pe
}

// documentPosition picks the error position that refers to the failing
// document rather than to the schema
func documentPosition(e cueerrors.Error, path string) token.Pos {
	if pos := e.Position(); pos != token.NoPos && pos.Filename() == path {
		return pos
	}
	for _, pos := range e.InputPositions() {
		if pos != token.NoPos && pos.Filename() == path {
			return pos
		}
	}
	return token.NoPos
}
