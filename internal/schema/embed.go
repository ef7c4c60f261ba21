package schema

import _ "embed"

// Embedded JSON Schemas
// These are compiled into the binary at build time using go:embed
// directives and lifted into CUE by the validator on first use

//go:embed states.json
var statesJSON []byte

//go:embed metadata.json
var metadataJSON []byte

// Schema names accepted by Get
const (
	States   = "states"
	Metadata = "metadata"
)

// Get returns the embedded JSON Schema for the given name, or nil if
// no such schema is bundled
func Get(name string) []byte {
	switch name {
	case States:
		return statesJSON
	case Metadata:
		return metadataJSON
	default:
		return nil
	}
}

// List returns all available schema names
func List() []string {
	return []string{
		States,
		Metadata,
	}
}
