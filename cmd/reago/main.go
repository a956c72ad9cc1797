package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦═╗┌─┐┌─┐┌─┐┌─┐
  ╠╦╝├┤ ├─┤│ ┬│ │
  ╩╚═└─┘┴ ┴└─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "reago",
		Short: "Fine-grained reactive state for Go",
		Long: `Reago is a fine-grained reactive dependency engine for Go.

Wrap plain data in observed views, derive values, and let effects
re-run automatically when the data they read changes:

  • Deep and shallow views over records, arrays, maps, and sets
  • Effects with precise, self-pruning dependency tracking
  • Lazily cached computed values
  • Lifetime scopes with cascading disposal
  • Prometheus and OpenTelemetry instrumentation hooks`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		benchCmd(),
		demoCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Reago ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
