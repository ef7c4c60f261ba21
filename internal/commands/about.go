package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albcorp/robant/internal/config"
)

// NewAboutCmd creates the about command
func NewAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show tool information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "robant %s\n", config.Version)
			fmt.Fprintln(out, "Validate project metadata and folders against schema and self-consistency constraints")
			if config.BuildDate != "unknown" {
				fmt.Fprintf(out, "Built: %s\n", config.BuildDate)
			}
			if config.Commit != "none" {
				fmt.Fprintf(out, "Commit: %s\n", config.Commit)
			}
		},
	}
}
