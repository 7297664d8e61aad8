package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/parley-dev/parley/internal/presentation/tui"
)

// ChatOptions configures the interactive session.
type ChatOptions struct {
	Locale      string
	ContextFile string
	Plain       bool // skip markdown rendering
	Logger      *slog.Logger
}

// RunChat drives an interactive conversation with the demo engine on stdin
// and stdout. When a context file is given, the conversation context is
// loaded from it on start and written back on exit.
func RunChat(opts ChatOptions) error {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	contextJSON := ""
	if opts.ContextFile != "" {
		raw, err := os.ReadFile(opts.ContextFile)
		if err == nil {
			contextJSON = string(raw)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("read context file: %w", err)
		}
	}

	eng, err := NewDemoEngine(contextJSON, opts.Locale, opts.Logger)
	if err != nil {
		return err
	}

	tui.PrintBanner()
	fmt.Println("Ask about the weather or request a joke. Type 'exit' to leave.")
	fmt.Println()

	render := func(s string) (string, error) { return s, nil }
	if !opts.Plain {
		render = tui.NewRenderer()
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "exit" || text == "quit" {
			break
		}

		for _, line := range eng.UserInput(text) {
			out, err := render(line)
			if err != nil {
				out = line
			}
			fmt.Print(normalizeOutput(out))
		}
	}

	eng.Shutdown(func(serialized string) {
		if opts.ContextFile == "" {
			return
		}
		if err := os.WriteFile(opts.ContextFile, []byte(serialized), 0o644); err != nil {
			opts.Logger.Error("failed to write context file", "path", opts.ContextFile, "err", err)
		}
	})

	fmt.Println("Bye!")
	return scanner.Err()
}

// normalizeOutput makes plain and rendered lines print uniformly: exactly one
// trailing newline.
func normalizeOutput(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}
