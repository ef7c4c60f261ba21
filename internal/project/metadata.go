// Package project loads project metadata and plans and checks them
// against the state model and the forest-wide invariants.
package project

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/albcorp/robant/internal/validation"
)

// Timestamp layouts accepted in metadata documents, most specific
// first
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Timestamp is a point in time that remembers the exact text it was
// written as, so diagnostics and re-serialisation quote the document
type Timestamp struct {
	time.Time
	raw string
}

// String returns the timestamp as written in the document
func (t Timestamp) String() string {
	return t.raw
}

// UnmarshalYAML reads the timestamp from its string form. The YAML
// layer never coerces timestamps, so the scalar arrives untouched
func (t *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{Time: parsed, raw: s}
			return nil
		}
	}
	return fmt.Errorf("line %d: cannot parse timestamp %q", node.Line, s)
}

// MarshalYAML writes the timestamp back in its source form
func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.raw, nil
}

// GitHubIssue references the external tracker issue a project shadows
type GitHubIssue struct {
	Repo  string `yaml:"repo"`
	Issue int    `yaml:"issue"`
}

// GitHubEvent references the tracker event behind a logbook transition
type GitHubEvent struct {
	Event int `yaml:"event"`
}

// Entry is one logbook record: either a Transition or an Interval
type Entry interface {
	isEntry()
}

// Transition records a change of project state at an instant. The
// oldest entry of every logbook is a transition with no From state,
// the inception
type Transition struct {
	At     Timestamp    `yaml:"at"`
	To     string       `yaml:"to"`
	From   string       `yaml:"from,omitempty"`
	Note   string       `yaml:"note,omitempty"`
	GitHub *GitHubEvent `yaml:"github,omitempty"`
}

func (*Transition) isEntry() {}

// Interval records effort spent on the project over [Start, Stop)
type Interval struct {
	Start Timestamp `yaml:"start"`
	Stop  Timestamp `yaml:"stop"`
	Note  string    `yaml:"note,omitempty"`
}

func (*Interval) isEntry() {}

// Logbook is the ordered history of a project, newest entry first
type Logbook []Entry

// UnmarshalYAML dispatches each entry on the presence of the at key;
// the schema has already partitioned the two shapes
func (l *Logbook) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: logbook must be a sequence", node.Line)
	}
	entries := make(Logbook, 0, len(node.Content))
	for _, item := range node.Content {
		if hasMappingKey(item, "at") {
			var t Transition
			if err := item.Decode(&t); err != nil {
				return err
			}
			entries = append(entries, &t)
		} else {
			var iv Interval
			if err := item.Decode(&iv); err != nil {
				return err
			}
			entries = append(entries, &iv)
		}
	}
	*l = entries
	return nil
}

func hasMappingKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Metadata is the typed form of a METADATA.yml document
type Metadata struct {
	File    string       `yaml:"-"`
	UUID    string       `yaml:"uuid"`
	Slug    string       `yaml:"slug"`
	Title   string       `yaml:"title"`
	Todo    string       `yaml:"todo"`
	Tags    []string     `yaml:"tags,omitempty"`
	GitHub  *GitHubIssue `yaml:"github,omitempty"`
	Logbook Logbook      `yaml:"logbook"`
}

// LoadMetadata reads, validates, and binds one metadata document
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMetadata(path, data)
}

// ParseMetadata validates and binds a raw metadata document
func ParseMetadata(path string, data []byte) (*Metadata, error) {
	if err := validation.ValidateMetadata(path, data); err != nil {
		return nil, err
	}
	var md Metadata
	if err := yaml.Unmarshal(data, &md); err != nil {
		return nil, validation.NewParseError(path, err.Error())
	}
	md.File = path
	return &md, nil
}
