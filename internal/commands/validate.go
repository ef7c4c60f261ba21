package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/albcorp/robant/internal/hierarchy"
	"github.com/albcorp/robant/internal/model"
	"github.com/albcorp/robant/internal/project"
	"github.com/albcorp/robant/internal/report"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a forest of projects",
		Long: `Validate the forest of project folders under a directory.

The state model is loaded from the repository root and analysed first.
Every project folder is then checked in depth-first order: workflow
states against the model and the project's position, UUID uniqueness,
logbook chronology with forest-wide disjoint effort intervals, and
action counts against the compiled constraints. A failing project does
not stop validation of the projects after it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDir, _ := cmd.Flags().GetString("root")
			return runValidate(cmd, rootDir, dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory of the forest to validate (default: the --root directory)")

	return cmd
}

func runValidate(cmd *cobra.Command, rootDir, dir string) error {
	root, err := hierarchy.LocateRoot(rootDir)
	if err != nil {
		return fail(cmd, err)
	}
	if dir == "" {
		dir = rootDir
	}
	slog.Debug("validating forest", "root", root, "dir", dir)

	m, err := model.Load(root)
	if err != nil {
		return fail(cmd, err)
	}
	validator, err := project.NewValidator(m)
	if err != nil {
		return fail(cmd, err)
	}

	diags := validator.ValidateForest(dir)
	for _, d := range diags {
		fmt.Fprintln(cmd.OutOrStdout(), report.Render(d))
	}
	if len(diags) > 0 {
		return errValidationFailed
	}

	fmt.Fprintln(cmd.OutOrStdout(), "OK")
	return nil
}
