package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/typegen"
)

// ErrStale is returned by check when generated files are out of date.
var ErrStale = errors.New("generated files are out of date")

// CheckCmd checks if generated files are up to date
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated files are up to date",
	Long: `Check if the generated files match the current schemas.

This command generates every destination into a temporary directory and
compares the result byte for byte with the files in the project.

Exit codes:
  0 - Generated files are up to date
  1 - Generated files are out of date (differences listed)
  2 - Error during check

Examples:
  typereflect check               # Check all destinations
  make types-check                # Same, via Makefile`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := loadProject(configFlag(cmd))
	if err != nil {
		return err
	}
	p.describe(verbosity(cmd))

	tempDir, err := os.MkdirTemp("", "typereflect-check-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	if _, err := p.generate(cmd.Context(), tempDir); err != nil {
		return errors.Wrap(err, "failed to generate")
	}

	result, err := typegen.CompareDirectories(tempDir, p.cfg.Dir())
	if err != nil {
		return errors.Wrap(err, "failed to compare directories")
	}

	if result.UpToDate {
		pterm.Printf("%s\n", pterm.LightGreen("✓ Generated files are up to date"))
		return nil
	}

	pterm.Printf("%s\n", pterm.Red("✗ Generated files are out of date"))
	for _, d := range result.Differences {
		pterm.Printf("  - %s %s\n", d.Path, pterm.Gray("("+d.Reason+")"))
	}
	return errors.WithHint(ErrStale, "run 'typereflect generate' to update")
}
