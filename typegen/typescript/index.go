package typescript

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/schema"
	"github.com/teranos/typereflect/version"
)

// ModuleExport represents a generated module and the entities it declares
type ModuleExport struct {
	// Module is the destination path relative to the index, without extension
	Module string
	Names  []string
}

// Exports lists the top-level names the typescript and validation emitters
// declare for an entity.
func Exports(entity schema.Entity) []string {
	names := []string{entity.EntityName()}
	en, ok := entity.(*schema.Enum)
	if !ok {
		return names
	}
	l, err := schema.Classify(en)
	if err != nil {
		return names
	}
	switch l.Representation {
	case schema.ComplexRepresentation:
		names = append(names, en.Name+"Case", en.Name+"CaseKey")
		for _, c := range l.Cases {
			names = append(names, c.TypeName)
		}
	case schema.UntaggedRepresentation:
		for _, c := range l.Payloads() {
			if !c.Elided {
				names = append(names, c.TypeName)
			}
		}
	}
	return names
}

// IndexFile renders a barrel export (index.ts) re-exporting every entity.
// Each export carries both the type and its validator namespace.
func IndexFile(exports []ModuleExport) string {
	var sb strings.Builder

	sb.WriteString("// " + version.Header() + "\n")
	sb.WriteString("/* eslint-disable */\n")

	sorted := make([]ModuleExport, len(exports))
	copy(sorted, exports)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Module < sorted[j].Module
	})

	for _, exp := range sorted {
		if len(exp.Names) == 0 {
			continue
		}

		names := make([]string, len(exp.Names))
		copy(names, exp.Names)
		sort.Strings(names)

		sb.WriteString("\n")
		sb.WriteString("export {\n")
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  %s,\n", name))
		}
		sb.WriteString(fmt.Sprintf("} from './%s';\n", filepath.ToSlash(exp.Module)))
	}

	return sb.String()
}

// GenerateIndexFile writes index.ts into outputDir and returns its path.
func GenerateIndexFile(outputDir string, exports []ModuleExport) (string, error) {
	indexPath := filepath.Join(outputDir, "index.ts")
	if err := os.WriteFile(indexPath, []byte(IndexFile(exports)), 0o644); err != nil {
		return "", errors.WrapOutput(err, "failed to write %s", indexPath)
	}
	return indexPath, nil
}

// ModuleFor returns the import specifier of destination relative to outputDir.
func ModuleFor(outputDir, destination string) (string, error) {
	rel, err := filepath.Rel(outputDir, destination)
	if err != nil {
		return "", errors.Wrapf(err, "%s is not below %s", destination, outputDir)
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel)), nil
}
