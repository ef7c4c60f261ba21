// Package hierarchy locates the repository root and enumerates the
// project folders beneath it with their positional labels.
package hierarchy

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/albcorp/robant/internal/report"
)

// Fixed names in the project hierarchy
const (
	MarkerName   = ".git"
	StatesName   = "STATES.yml"
	MetadataName = "METADATA.yml"
	PlansName    = "PLANS.rst"
)

// Folders excluded from traversal at every level
var excludedDirs = map[string]bool{
	"LIB": true,
	"SRC": true,
	"TMP": true,
}

// Label classifies a project by its position in the tree
type Label string

const (
	Limb Label = "LIMB"
	Leaf Label = "LEAF"
)

// Project is one discovered project folder
type Project struct {
	Label        Label
	MetadataPath string
	PlansPath    string
}

// Error reports a repository or expected file missing from the
// hierarchy
type Error struct {
	Path    string
	Message string
}

// Error returns the bare message
func (e *Error) Error() string {
	return e.Message
}

// Pos returns the offending path
func (e *Error) Pos() report.Position {
	return report.Position{File: e.Path}
}

// LocateRoot searches upward from dir, inclusive, for the folder that
// contains the repository marker directory
func LocateRoot(dir string) (string, error) {
	d, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if info, err := os.Stat(filepath.Join(d, MarkerName)); err == nil && info.IsDir() {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", &Error{Path: dir, Message: "No repository found"}
		}
		d = parent
	}
}

// Traversal modes. In hunt mode the walker is outside any project and
// descends until it finds one; in visit mode every folder must be a
// project
type mode int

const (
	hunt mode = iota
	visit
)

type frame struct {
	dir  string
	mode mode
}

// Walk enumerates project folders under dir in depth-first pre-order
// and invokes fn for each. Sibling ordering follows the directory
// iterator; consumers must not depend on it
func Walk(dir string, fn func(Project) error) error {
	d, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	first, err := initialMode(d)
	if err != nil {
		return err
	}

	stack := []frame{{dir: d, mode: first}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		proj, ok, err := probe(f.dir)
		if err != nil {
			return err
		}

		switch f.mode {
		case hunt:
			if ok {
				slog.Debug("found project", "dir", f.dir)
				if err := fn(Project{Label: Limb, MetadataPath: proj.MetadataPath, PlansPath: proj.PlansPath}); err != nil {
					return err
				}
				if err := pushChildren(&stack, f.dir, visit); err != nil {
					return err
				}
			} else {
				if err := pushChildren(&stack, f.dir, hunt); err != nil {
					return err
				}
			}
		case visit:
			if !ok {
				return &Error{Path: f.dir, Message: "Unexpected folder in project hierarchy"}
			}
			children, err := subdirs(f.dir)
			if err != nil {
				return err
			}
			label := Leaf
			if len(children) > 0 {
				label = Limb
			}
			if err := fn(Project{Label: label, MetadataPath: proj.MetadataPath, PlansPath: proj.PlansPath}); err != nil {
				return err
			}
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{dir: children[i], mode: visit})
			}
		}
	}
	return nil
}

// initialMode decides whether the walk starts inside a project
// subtree. A starting folder that is itself a project is visited in
// place only when it has no repository marker and its parent is also a
// project; otherwise the walk hunts from the starting folder
func initialMode(d string) (mode, error) {
	_, ok, err := probe(d)
	if err != nil {
		return hunt, err
	}
	if !ok {
		return hunt, nil
	}
	if isDir(filepath.Join(d, MarkerName)) {
		return hunt, nil
	}
	_, parentOK, err := probe(filepath.Dir(d))
	if err != nil {
		return hunt, err
	}
	if !parentOK {
		return hunt, nil
	}
	return visit, nil
}

// probe reports whether dir is a project folder. A folder carrying
// only one of the two companion files is an error
func probe(dir string) (Project, bool, error) {
	m := filepath.Join(dir, MetadataName)
	p := filepath.Join(dir, PlansName)
	mOK := isFile(m)
	pOK := isFile(p)
	switch {
	case mOK && pOK:
		return Project{MetadataPath: m, PlansPath: p}, true, nil
	case mOK:
		return Project{}, false, &Error{Path: p, Message: "Missing project plans file"}
	case pOK:
		return Project{}, false, &Error{Path: m, Message: "Missing project metadata file"}
	default:
		return Project{}, false, nil
	}
}

func pushChildren(stack *[]frame, dir string, m mode) error {
	children, err := subdirs(dir)
	if err != nil {
		return err
	}
	for i := len(children) - 1; i >= 0; i-- {
		*stack = append(*stack, frame{dir: children[i], mode: m})
	}
	return nil
}

// subdirs lists the non-excluded child folders of dir. Dot folders
// (the repository marker among them) are never project candidates
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !excludedDirs[e.Name()] && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, filepath.Join(dir, e.Name()))
		}
	}
	return dirs, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
