package typegen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/logger"
	"github.com/teranos/typereflect/schema"
)

// DefaultConcurrency bounds how many destinations are generated at once.
const DefaultConcurrency = 4

// Destination is one generated file.
type Destination struct {
	Path     string
	Emitters []Emitter

	// Entities restricts the destination to a subset of the set, kept in
	// schema order by the caller; nil means every entity
	Entities []schema.Entity
}

// Report describes the outcome of one destination.
type Report struct {
	Path string

	// Written lists the entities present in the file
	Written []string

	// Failed holds the withheld entities, nil when every entity was written
	Failed *errors.GenerationErrors

	Bytes    int
	Duration time.Duration
}

// Pipeline generates destinations from one schema set.
type Pipeline struct {
	set         *schema.Set
	concurrency int
	logger      *zap.SugaredLogger
}

// NewPipeline creates a pipeline over set.
func NewPipeline(set *schema.Set) *Pipeline {
	return &Pipeline{
		set:         set,
		concurrency: DefaultConcurrency,
		logger:      logger.ComponentLogger("pipeline"),
	}
}

// WithConcurrency sets the number of destinations generated in parallel (minimum 1).
func (p *Pipeline) WithConcurrency(n int) *Pipeline {
	if n < 1 {
		n = 1
	}
	p.concurrency = n
	return p
}

// Run generates every destination. Destinations are independent: a failure in
// one never prevents or undoes another. Reports are returned in destination
// order alongside the joined errors of all destinations.
func (p *Pipeline) Run(ctx context.Context, destinations []Destination) ([]Report, error) {
	reports := make([]Report, len(destinations))
	errs := make([]error, len(destinations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := range destinations {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = errors.Wrapf(err, "skipped %s", destinations[i].Path)
				return nil
			}
			reports[i], errs[i] = p.Generate(destinations[i])
			return nil
		})
	}
	_ = g.Wait()

	return reports, errors.Join(errs...)
}

// Generate renders, writes and finalizes one destination.
func (p *Pipeline) Generate(d Destination) (Report, error) {
	start := time.Now()
	report := Report{Path: d.Path}

	content, written, genErr := p.Render(d)
	report.Written = written
	if genErr != nil {
		if !errors.As(genErr, &report.Failed) {
			// not entity-scoped: nothing is written
			return report, genErr
		}
	}

	if err := writeFile(d.Path, content); err != nil {
		return report, err
	}
	report.Bytes = len(content)

	for _, em := range d.Emitters {
		if err := em.Finalize(d.Path); err != nil {
			return report, errors.WrapOutput(err, "%s: finalize %s", d.Path, em.Name())
		}
	}

	report.Duration = time.Since(start)
	p.logger.Infow("Generated destination",
		logger.FieldDestination, d.Path,
		logger.FieldCount, len(written),
		logger.FieldSize, report.Bytes,
		logger.FieldDurationMS, report.Duration.Milliseconds(),
	)

	if report.Failed != nil {
		return report, report.Failed
	}
	return report, nil
}

// Render assembles the content of d without touching the filesystem. It
// returns the entity names that made it into the content. A non-nil error is
// either a *errors.GenerationErrors (the content is still usable) or a
// destination-wide failure (the content is nil).
func (p *Pipeline) Render(d Destination) ([]byte, []string, error) {
	entities := d.Entities
	if entities == nil {
		entities = p.set.Entities()
	}

	var blocks []string
	for _, em := range d.Emitters {
		prefix, err := em.Prefix(p.set)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s: prefix %s", d.Path, em.Name())
		}
		blocks = appendBlock(blocks, prefix)
	}

	var written []string
	var failures []error
	for _, entity := range entities {
		name := entity.EntityName()
		var parts []string
		var entityErr error
		for _, em := range d.Emitters {
			text, err := Emit(em, entity, p.set)
			if err != nil {
				entityErr = errors.Wrapf(err, "emitter %s", em.Name())
				break
			}
			parts = appendBlock(parts, text)
		}
		if entityErr != nil {
			p.logger.Warnw("Withholding entity",
				logger.FieldDestination, d.Path,
				logger.FieldEntity, name,
				logger.FieldError, entityErr.Error(),
			)
			failures = append(failures, errors.NewEntityError(name, entityErr))
			continue
		}
		p.logger.Debugw("Emitted entity",
			logger.FieldDestination, d.Path,
			logger.FieldEntity, name,
			logger.FieldEntityKind, entity.EntityKind().String(),
		)
		blocks = append(blocks, parts...)
		written = append(written, name)
	}

	content := []byte(strings.Join(blocks, "\n\n") + "\n")
	if len(failures) > 0 {
		return content, written, &errors.GenerationErrors{Destination: d.Path, Errors: failures}
	}
	return content, written, nil
}

func appendBlock(blocks []string, text string) []string {
	text = strings.TrimRight(text, " \t\n")
	if strings.TrimSpace(text) == "" {
		return blocks
	}
	return append(blocks, text)
}

func writeFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapOutput(err, "failed to create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.WrapOutput(err, "failed to write %s", path)
	}
	return nil
}
