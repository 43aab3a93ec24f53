package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a saved analysis JSON document",
	Long:  "Checks a JSON file against the resume analysis schema and enum rules, as the server does for LLM replies.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if _, err := analysis.Validate(raw); err != nil {
		var schemaErr *analysis.SchemaError
		if errors.As(err, &schemaErr) {
			fmt.Fprintln(out, "Validation failed:")
			for _, fe := range schemaErr.Errors {
				fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
			}
		}
		return fmt.Errorf("validation failed")
	}

	fmt.Fprintln(out, "Validation passed")
	return nil
}
