package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/albcorp/robant/internal/hierarchy"
	"github.com/albcorp/robant/internal/model"
)

// NewModelCmd creates the model command
func NewModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Validate the repository state model",
		Long: `Validate the STATES.yml state model at the repository root.

The model must partition its workflow states, constrain every action
state of every open and shut project state, and be satisfiable: every
non-limb project state must be the unique classification of some
achievable bag of actions. Prints OK when all three checks pass.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("root")
			return runModel(cmd, dir)
		},
	}
}

func runModel(cmd *cobra.Command, dir string) error {
	root, err := hierarchy.LocateRoot(dir)
	if err != nil {
		return fail(cmd, err)
	}
	slog.Debug("located repository root", "root", root)

	m, err := model.Load(root)
	if err != nil {
		return fail(cmd, err)
	}
	if _, err := model.Check(m); err != nil {
		return fail(cmd, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "OK")
	return nil
}
