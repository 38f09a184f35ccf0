package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/schemas"
	bundled "github.com/jonathan/portfolio/schemas"
)

func newValidateCmd() *cobra.Command {
	var (
		schemaName string
		dir        string
	)

	cmd := &cobra.Command{
		Use:   "validate [file.json]",
		Short: "Validate content documents against the bundled JSON Schemas",
		Long: `Validates a single JSON document against one schema (--schema), or a whole
dataset directory (--dir) the way the seed command would load it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if dir != "" {
				if _, err := loadDataset(dir); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ dataset %s is valid\n", dir)
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("a file argument or --dir is required")
			}
			if !slices.Contains(bundled.All, schemaName) {
				return fmt.Errorf("unknown schema %q (one of: %s)", schemaName, strings.Join(bundled.All, ", "))
			}
			if err := schemas.ValidateFile(schemaName, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ %s is valid against %s\n", args[0], schemaName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaName, "schema", "s", bundled.Projects, "Schema file name")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Validate a dataset directory instead of a single file")
	return cmd
}
