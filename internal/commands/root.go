// Package commands wires the robant CLI verbs.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/albcorp/robant/internal/config"
	"github.com/albcorp/robant/internal/report"
)

// errValidationFailed signals a non-zero exit after the diagnostics
// have already been printed
var errValidationFailed = errors.New("validation failed")

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "robant",
		Short: "Validate project metadata and folders",
		Long: `robant - Project forest validation

robant walks a forest of project folders, checks every METADATA.yml
and PLANS.rst against the repository state model in STATES.yml, and
enforces identity, chronology, and action-satisfaction invariants.
The tool is read-only and terminates after printing diagnostics.`,
		Version:      config.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("root", "r", ".", "Directory from which to locate the repository root")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(NewAboutCmd())
	rootCmd.AddCommand(NewModelCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewSchemaCmd())

	return rootCmd
}

// fail prints one diagnostic in the fixed single-line format and
// returns the run-level error that drives the exit code
func fail(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.OutOrStdout(), report.Render(err))
	return errValidationFailed
}
