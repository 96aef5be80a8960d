package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phenogo/phenogo"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every phenotype definition for consistency",
	Long:  `Loads every available definition and reports broken successor links, invalid rules, and malformed volume parameters.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All definitions are valid.")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	loader := newLoader(cmd)

	names, err := loader.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		spec, err := loader.Load(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		// Building exercises the full construction-time validation.
		if _, err := phenogo.New(*spec); err != nil {
			return err
		}
		fmt.Printf("  %s: ok\n", name)
	}
	return nil
}
