package project

import (
	"bufio"
	"os"
	"regexp"
)

// Action directive in a plans file: the TODO keyword and the title
// text, anchored to the whole line
var actionRE = regexp.MustCompile(`^\.\. +todo:: +([A-Z]+) +(.*?) *$`)

// Action is one tagged directive from a plans file
type Action struct {
	Line  int
	Todo  string
	Title string
}

// Plans holds the actions extracted from one PLANS.rst
type Plans struct {
	File    string
	Actions []Action
}

// LoadPlans scans a plans file for action directives, numbering lines
// from 1. All other content is ignored
func LoadPlans(path string) (*Plans, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	plans := &Plans{File: path}
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		if m := actionRE.FindStringSubmatch(scanner.Text()); m != nil {
			plans.Actions = append(plans.Actions, Action{Line: line, Todo: m[1], Title: m[2]})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}
