package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/parley-dev/parley/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check skill definition files for consistency",
	Long:  `Parses and validates the given skill definition files (JSON or YAML) and reports every problem found.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := false
		for _, path := range args {
			if err := validateFile(path); err != nil {
				failed = true
				fmt.Printf("%s: invalid\n", path)
				var agg *schema.AggregateError
				if errors.As(err, &agg) {
					for _, problem := range agg.Errors {
						fmt.Printf("  - %v\n", problem)
					}
				} else {
					fmt.Printf("  - %v\n", err)
				}
				continue
			}
			fmt.Printf("%s: ok\n", path)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateFile(path string) error {
	_, err := schema.ParseFile(path)
	return err
}
