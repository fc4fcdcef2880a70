package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/typereflect/cmd/typereflect/commands"
	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/logger"
)

var rootCmd = &cobra.Command{
	Use:   "typereflect",
	Short: "Generate TypeScript types and runtime validators from a schema",
	Long: `typereflect - TypeScript types and runtime validators from one schema.

Schemas declare structs, aliases and enums (simple, complex or untagged).
Every destination in typereflect.toml receives type declarations and
validators that agree on field keys and case literals.

Available commands:
  generate - Write every configured destination
  check    - Verify generated files are up to date
  watch    - Regenerate on schema changes
  version  - Show build information

Examples:
  typereflect generate --init   # Create typereflect.toml and a starter schema
  typereflect generate          # Generate all destinations
  typereflect check             # CI gate: fail when generated files are stale`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to typereflect.toml (default: search upwards from the working directory)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	if errors.Is(err, commands.ErrStale) {
		os.Exit(1)
	}
	os.Exit(2)
}
