package commands

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typereflect/config"
	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/logger"
	"github.com/teranos/typereflect/schema"
	"github.com/teranos/typereflect/typegen"
	"github.com/teranos/typereflect/typegen/builtin"
	"github.com/teranos/typereflect/typegen/gosource"
	"github.com/teranos/typereflect/typegen/typescript"
)

// project is a loaded configuration together with its schema set.
type project struct {
	cfg *config.Config
	set *schema.Set
}

// result is the outcome of one generation run.
type result struct {
	Reports []typegen.Report
	Indexes []string
}

func configFlag(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

// describe prints what was loaded, depending on the -v count.
func (p *project) describe(v int) {
	if logger.ShouldOutput(v, logger.OutputSchema) {
		pterm.Printf("%s %d entities from %s\n",
			pterm.Gray("Loaded"), p.set.Len(), p.cfg.Path())
	}
	if logger.ShouldOutput(v, logger.OutputConfig) {
		if data, err := config.Marshal(p.cfg); err == nil {
			pterm.Printf("%s\n%s\n", pterm.Gray("Resolved configuration:"), data)
		}
	}
}

func loadProject(configPath string) (*project, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	set, err := schema.LoadFiles(cfg.SchemaPaths()...)
	if err != nil {
		return nil, err
	}
	if len(cfg.Packages) > 0 {
		goSet, err := gosource.Load(cfg.Dir(), cfg.Packages...)
		if err != nil {
			return nil, err
		}
		if set, err = set.Merge(goSet); err != nil {
			return nil, errors.Wrap(err, "Go packages")
		}
	}

	logger.Debugw("Loaded project",
		"config", cfg.Path(),
		logger.FieldCount, set.Len())
	return &project{cfg: cfg, set: set}, nil
}

// watchedFiles are the inputs whose changes require regeneration.
func (p *project) watchedFiles() []string {
	return append([]string{p.cfg.Path()}, p.cfg.SchemaPaths()...)
}

// outputPath maps a configured destination path below root. An empty root
// writes in place.
func (p *project) outputPath(dest, root string) (string, error) {
	resolved := p.cfg.Resolve(dest)
	if root == "" {
		return resolved, nil
	}
	rel, err := filepath.Rel(p.cfg.Dir(), resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.WithHint(
			errors.Newf("destination %s is outside %s", dest, p.cfg.Dir()),
			"check only supports destinations inside the project directory",
		)
	}
	return filepath.Join(root, rel), nil
}

func (p *project) destinations(root string) ([]typegen.Destination, error) {
	registry := builtin.Registry()
	dests := make([]typegen.Destination, 0, len(p.cfg.Destinations))
	for _, d := range p.cfg.Destinations {
		path, err := p.outputPath(d.Path, root)
		if err != nil {
			return nil, err
		}
		emitters, err := registry.Build(d.Emitters, p.cfg.EmitterOptions(d, path))
		if err != nil {
			return nil, errors.Wrapf(err, "destination %s", d.Path)
		}
		var entities []schema.Entity
		if len(d.Entities) > 0 {
			if entities, err = p.set.Select(d.Entities); err != nil {
				return nil, errors.Wrapf(err, "destination %s", d.Path)
			}
		}
		dests = append(dests, typegen.Destination{Path: path, Emitters: emitters, Entities: entities})
	}
	return dests, nil
}

// generate runs every destination and writes the requested index.ts files.
// Destination failures are returned joined; the result is always populated.
func (p *project) generate(ctx context.Context, root string) (*result, error) {
	dests, err := p.destinations(root)
	if err != nil {
		return nil, err
	}

	reports, runErr := typegen.NewPipeline(p.set).
		WithConcurrency(p.cfg.Concurrency).
		Run(ctx, dests)
	res := &result{Reports: reports}

	indexes, err := p.writeIndexes(reports)
	res.Indexes = indexes
	return res, errors.Join(runErr, err)
}

// writeIndexes writes one index.ts per directory holding indexed destinations.
// A name declared by several destinations is exported from the first one.
func (p *project) writeIndexes(reports []typegen.Report) ([]string, error) {
	byDir := make(map[string][]typescript.ModuleExport)
	exported := make(map[string]map[string]bool)
	var dirs []string
	for i, d := range p.cfg.Destinations {
		if !d.Index || reports[i].Path == "" {
			continue
		}
		path := reports[i].Path
		dir := filepath.Dir(path)
		module, err := typescript.ModuleFor(dir, path)
		if err != nil {
			return nil, err
		}

		if _, seen := byDir[dir]; !seen {
			dirs = append(dirs, dir)
			exported[dir] = make(map[string]bool)
		}
		var names []string
		for _, written := range reports[i].Written {
			e, ok := p.set.Lookup(written)
			if !ok {
				continue
			}
			for _, name := range typescript.Exports(e) {
				if !exported[dir][name] {
					exported[dir][name] = true
					names = append(names, name)
				}
			}
		}
		byDir[dir] = append(byDir[dir], typescript.ModuleExport{Module: module, Names: names})
	}

	var written []string
	var errs []error
	for _, dir := range dirs {
		path, err := typescript.GenerateIndexFile(dir, byDir[dir])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}
