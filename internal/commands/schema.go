package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/albcorp/robant/internal/schema"
)

// NewSchemaCmd creates the schema command
func NewSchemaCmd() *cobra.Command {
	var schemaName string
	var exportPath string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "View bundled JSON Schemas",
		Long: `View the bundled JSON Schemas that define the document formats.

By default, lists all available schemas. Use --name to show a specific
schema, and --export to save a schema to a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, schemaName, exportPath)
		},
	}

	cmd.Flags().StringVar(&schemaName, "name", "", "Schema name to show (states or metadata)")
	cmd.Flags().StringVar(&exportPath, "export", "", "Export schema to file (requires --name)")

	return cmd
}

func runSchema(cmd *cobra.Command, schemaName string, exportPath string) error {
	if exportPath != "" && schemaName == "" {
		return fmt.Errorf("--export requires --name to be specified")
	}

	// If no schema name specified, list all schemas
	if schemaName == "" {
		return listSchemas(cmd)
	}

	content := schema.Get(schemaName)
	if content == nil {
		return fmt.Errorf("schema %q not found. Available schemas: %s", schemaName, strings.Join(schema.List(), ", "))
	}

	if exportPath != "" {
		return exportSchema(cmd, schemaName, content, exportPath)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s", content)
	return nil
}

func listSchemas(cmd *cobra.Command) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Available schemas:\n\n")
	for _, name := range schema.List() {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nUse 'robant schema --name <schema-name>' to view a specific schema\n")
	return nil
}

func exportSchema(cmd *cobra.Command, name string, content []byte, exportPath string) error {
	dir := filepath.Dir(exportPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(exportPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write schema to %s: %w", exportPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema %q exported to %s\n", name, exportPath)
	return nil
}
