package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/parley-dev/parley/internal/cli"
	"github.com/parley-dev/parley/internal/logging"
	"github.com/spf13/cobra"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with the demo skills",
	Long:  `Starts a terminal conversation against the bundled weather and joke skills, using keyword matching as the language understanding.`,
	Run: func(cmd *cobra.Command, args []string) {
		locale, _ := cmd.Flags().GetString("locale")
		contextFile, _ := cmd.Flags().GetString("context")
		plain, _ := cmd.Flags().GetBool("plain")
		verbose, _ := cmd.Flags().GetBool("verbose")

		level := slog.LevelError
		if verbose {
			level = slog.LevelDebug
		}

		err := cli.RunChat(cli.ChatOptions{
			Locale:      locale,
			ContextFile: contextFile,
			Plain:       plain,
			Logger:      logging.New(level),
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("context", "", "File to load/save the conversation context")
	chatCmd.Flags().Bool("plain", false, "Disable markdown rendering")
	chatCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")

	// Make 'chat' the default if no command is provided.
	rootCmd.Run = chatCmd.Run
}
