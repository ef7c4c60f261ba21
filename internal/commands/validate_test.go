package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeProject lays out one project folder under root
func writeProject(t *testing.T, root, rel, uuid, slug, todo, logbook, plans string) {
	t.Helper()
	dir := filepath.Join(root, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	metadata := fmt.Sprintf(`uuid: %s
slug: %s
title: Test project
todo: %s
logbook:
%s`, uuid, slug, todo, logbook)
	if err := os.WriteFile(filepath.Join(dir, "METADATA.yml"), []byte(metadata), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "PLANS.rst"), []byte(plans), 0o644); err != nil {
		t.Fatal(err)
	}
}

const fullStatesYml = `action_states:
  HOLD:
    precis: Task waiting on its turn
  WAIT:
    precis: Task waiting on an external party
  WORK:
    precis: Task in progress
  QUIT:
    precis: Task abandoned before completion
  DROP:
    precis: Task discarded as unnecessary
  STOP:
    precis: Task completed
limb_states:
  ROOT:
    precis: Top of a project tree
  LOOK:
    precis: Interior project
empty_states:
  NOTE:
    precis: Project not yet planned
open_states:
  WATCH:
    precis: Project waiting on its tasks
    constraints:
      HOLD: [1]
      WAIT: HOLD
      WORK: 0
      QUIT: 0
      DROP: [0]
      STOP: [0]
  START:
    precis: Project under way
    constraints:
      HOLD: [0]
      WAIT: [0]
      WORK: 1
      QUIT: 0
      DROP: [0]
      STOP: [0]
shut_states:
  QUASH:
    precis: Project abandoned
    constraints:
      HOLD: 0
      WAIT: 0
      WORK: 0
      QUIT: [1]
      DROP: [0]
      STOP: [0]
  CLOSE:
    precis: Project completed
    constraints:
      HOLD: 0
      WAIT: 0
      WORK: 0
      QUIT: 0
      DROP: [1]
      STOP: DROP
`

const rootLogbook = "- at: 2021-06-29 08:00\n  to: ROOT\n"

func startLogbook(date string) string {
	return fmt.Sprintf("- at: %s 09:00\n  from: NOTE\n  to: START\n- at: %s 08:00\n  to: NOTE\n", date, date)
}

// TestValidateCommand tests the validate command over small forests
func TestValidateCommand(t *testing.T) {
	t.Run("healthy forest", func(t *testing.T) {
		root := mkRepo(t, fullStatesYml)
		writeProject(t, root, "plans", "0e0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "plans", "ROOT", rootLogbook, "")
		writeProject(t, root, "plans/fix-roof", "1f0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "fix-roof", "START",
			startLogbook("2021-06-30"), ".. todo:: WORK Replace the tiles\n")

		out, err := runCommand(t, "validate", "--root", root)
		if err != nil {
			t.Fatalf("unexpected error: %v, output %q", err, out)
		}
		if !strings.Contains(out, "OK") {
			t.Errorf("output %q does not contain OK", out)
		}
	})

	t.Run("second work action cited by line", func(t *testing.T) {
		root := mkRepo(t, fullStatesYml)
		writeProject(t, root, "plans", "0e0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "plans", "ROOT", rootLogbook, "")
		writeProject(t, root, "plans/fix-roof", "1f0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "fix-roof", "START",
			startLogbook("2021-06-30"),
			".. todo:: WORK Replace the tiles\n\n.. todo:: WORK Paint the walls\n")

		out, err := runCommand(t, "validate", "--root", root)
		if err == nil {
			t.Fatalf("expected error, got output %q", out)
		}
		want := "PLANS.rst:3: Upper bound on actions states exceeded: START: 1 <= WORK <= 1"
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	})

	t.Run("multiple faulty projects yield multiple diagnostics", func(t *testing.T) {
		root := mkRepo(t, fullStatesYml)
		writeProject(t, root, "plans", "0e0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "plans", "ROOT", rootLogbook, "")
		// Slug mismatch on a leaf
		writeProject(t, root, "plans/foo", "1f0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "bar", "WATCH",
			"- at: 2021-06-30 09:00\n  from: NOTE\n  to: WATCH\n- at: 2021-06-30 08:00\n  to: NOTE\n",
			".. todo:: HOLD Wait for spring\n")
		// Missing lower bound on another leaf
		writeProject(t, root, "plans/idle", "2a0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "idle", "WATCH",
			"- at: 2021-07-01 09:00\n  from: NOTE\n  to: WATCH\n- at: 2021-07-01 08:00\n  to: NOTE\n", "")

		out, err := runCommand(t, "validate", "--root", root)
		if err == nil {
			t.Fatalf("expected error, got output %q", out)
		}
		if !strings.Contains(out, "Project slug MUST match folder name: bar") {
			t.Errorf("missing slug diagnostic in %q", out)
		}
		if !strings.Contains(out, "Lower bound on action states not reached: WATCH: 1 <= HOLD + WAIT") {
			t.Errorf("missing satisfaction diagnostic in %q", out)
		}
	})

	t.Run("overlapping intervals across projects", func(t *testing.T) {
		root := mkRepo(t, fullStatesYml)
		writeProject(t, root, "plans", "0e0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "plans", "ROOT", rootLogbook, "")
		interval := func(start, stop string) string {
			return fmt.Sprintf("- start: %s\n  stop: %s\n", start, stop) + startLogbook("2021-06-30")
		}
		writeProject(t, root, "plans/one", "1f0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "one", "START",
			interval("2021-07-02 10:00", "2021-07-02 11:00"), ".. todo:: WORK First\n")
		writeProject(t, root, "plans/two", "2a0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "two", "START",
			interval("2021-07-02 10:30", "2021-07-02 10:45"), ".. todo:: WORK Second\n")

		out, err := runCommand(t, "validate", "--root", root)
		if err == nil {
			t.Fatalf("expected error, got output %q", out)
		}
		want := "Logbook time intervals MUST NOT overlap: 2021-07-02 10:30, 2021-07-02 10:45"
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
		if !strings.Contains(out, filepath.Join("plans", "two", "METADATA.yml")) {
			t.Errorf("diagnostic does not cite the second project: %q", out)
		}
	})

	t.Run("missing companion file", func(t *testing.T) {
		root := mkRepo(t, fullStatesYml)
		writeProject(t, root, "plans", "0e0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "plans", "ROOT", rootLogbook, "")
		broken := filepath.Join(root, "plans", "broken")
		if err := os.MkdirAll(broken, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(broken, "METADATA.yml"), []byte("uuid: x\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		out, err := runCommand(t, "validate", "--root", root)
		if err == nil {
			t.Fatalf("expected error, got output %q", out)
		}
		if !strings.Contains(out, "Missing project plans file") {
			t.Errorf("output %q does not report the missing plans file", out)
		}
		if !strings.Contains(out, filepath.Join("broken", "PLANS.rst")) {
			t.Errorf("diagnostic does not cite the plans path: %q", out)
		}
	})

	t.Run("separate forest directory", func(t *testing.T) {
		root := mkRepo(t, fullStatesYml)
		writeProject(t, root, "plans", "0e0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "plans", "ROOT", rootLogbook, "")
		writeProject(t, root, "plans/fix-roof", "1f0e81cb-b125-4e9c-9a5e-09b8e80e7e25", "fix-roof", "START",
			startLogbook("2021-06-30"), ".. todo:: WORK Replace the tiles\n")

		out, err := runCommand(t, "validate", "--root", root, "--dir", filepath.Join(root, "plans"))
		if err != nil {
			t.Fatalf("unexpected error: %v, output %q", err, out)
		}
		if !strings.Contains(out, "OK") {
			t.Errorf("output %q does not contain OK", out)
		}
	})
}
