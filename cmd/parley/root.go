package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley is a dialog orchestration engine for multi-skill assistants",
	Long:  `Parley coordinates conversations across declarative skills: it queues recognized intents, tracks open questions, and handles interruptions, aborts, and resumptions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("locale", "en", "Locale for engine prompts (en, de)")
}
