package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typereflect/config"
	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/logger"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate types and validators from the configured schemas",
	Long: `Generate type declarations and runtime validators for every destination
listed in typereflect.toml.

Each destination names its emitters:
  typescript  - TypeScript type declarations
  validation  - TypeScript validator namespaces (T.validate(input))
  format      - lay out the TypeScript destination
  go          - Go declarations with the same JSON shape
  rust        - serde-annotated Rust declarations

An entity whose schema is defective (missing content key, duplicate wrapper
key, unknown reference) is left out of its destination; the other entities
are still written and the command exits non-zero.

Examples:
  typereflect generate                       # Use ./typereflect.toml (searched upwards)
  typereflect generate --config api/tr.toml  # Explicit configuration
  typereflect generate --init                # Write a starter configuration`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().Bool("init", false, "Write a starter typereflect.toml and schema in the current directory")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if initialise, _ := cmd.Flags().GetBool("init"); initialise {
		return runInit()
	}

	p, err := loadProject(configFlag(cmd))
	if err != nil {
		return err
	}
	p.describe(verbosity(cmd))

	start := time.Now()
	res, err := p.generate(cmd.Context(), "")
	if res != nil {
		printResult(res)
	}
	if err != nil {
		return err
	}
	if logger.ShouldOutput(verbosity(cmd), logger.OutputTiming) {
		pterm.Printf("%s\n", pterm.Gray(fmt.Sprintf("done in %s", time.Since(start).Round(time.Millisecond))))
	}
	return nil
}

func printResult(res *result) {
	for _, r := range res.Reports {
		if r.Path == "" {
			continue
		}
		switch {
		case r.Failed != nil:
			pterm.Printf("%s %s %s\n",
				pterm.Yellow("⚠ Generated"),
				r.Path,
				pterm.Gray(fmt.Sprintf("(%d entities, %d withheld)", len(r.Written), len(r.Failed.Errors))))
		case r.Bytes > 0 || len(r.Written) > 0:
			pterm.Printf("%s %s %s\n",
				pterm.LightGreen("✓ Generated"),
				r.Path,
				pterm.Gray(fmt.Sprintf("(%d entities)", len(r.Written))))
		}
	}
	for _, path := range res.Indexes {
		pterm.Printf("%s %s %s\n", pterm.LightGreen("✓ Generated"), path, pterm.Gray("(index)"))
	}
}

const starterSchema = `version: "1"
entities:
  - struct: Point
    fields:
      - {name: x, type: number}
      - {name: y, type: number}
      - {name: label, type: "string?"}
  - enum: Shape
    inflection: snake_case
    representation: {kind: complex, case_key: kind, content_key: data}
    cases:
      - name: Circle
        fields:
          - {name: center, type: Point}
          - {name: radius, type: number}
      - {name: Polygon, tuple: ["Point[]"]}
      - {name: Empty}
`

func runInit() error {
	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}

	cfgPath := filepath.Join(wd, config.FileName)
	if err := config.WriteDefault(cfgPath); err != nil {
		return err
	}
	pterm.Printf("%s %s\n", pterm.LightGreen("✓ Created"), cfgPath)

	for _, s := range config.Default().Schemas {
		schemaPath := filepath.Join(wd, s)
		if _, err := os.Stat(schemaPath); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(schemaPath), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", schemaPath)
		}
		if err := os.WriteFile(schemaPath, []byte(starterSchema), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", schemaPath)
		}
		pterm.Printf("%s %s\n", pterm.LightGreen("✓ Created"), schemaPath)
	}
	return nil
}
