// Package suite is the batch layer: it discovers scenario files, expands
// them into scenarios and runs each one in its own session.
package suite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fjglira/storeflow/internal/clock"
	"github.com/fjglira/storeflow/internal/config"
	"github.com/fjglira/storeflow/internal/converter"
	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/metrics"
	"github.com/fjglira/storeflow/internal/parser"
	"github.com/fjglira/storeflow/internal/runner"
	"github.com/fjglira/storeflow/internal/scanner"
)

// Executor runs one scenario. *runner.Runner implements it.
type Executor interface {
	Run(ctx context.Context, sc domain.Scenario) domain.Outcome
}

// Suite wires the loading pipeline together.
type Suite struct {
	scanner   scanner.Scanner
	registry  parser.ParserRegistry
	converter converter.Converter
	log       logrus.FieldLogger
}

// New creates a Suite with all dependencies.
func New(s scanner.Scanner, r parser.ParserRegistry, c converter.Converter, log logrus.FieldLogger) *Suite {
	return &Suite{
		scanner:   s,
		registry:  r,
		converter: c,
		log:       log,
	}
}

// FromConfig builds the scanner, parser registry and converter from cfg.
func FromConfig(cfg *config.Config, log logrus.FieldLogger) *Suite {
	recursive := true
	if cfg.Input.Recursive != nil {
		recursive = *cfg.Input.Recursive
	}
	return New(
		scanner.NewScanner(cfg.Input.Include, cfg.Input.Exclude, recursive),
		parser.NewDefaultRegistry(cfg.Markdown.Tags),
		converter.NewConverter(runner.Catalog{}),
		log,
	)
}

// Load scans dirs and returns every scenario found, in file order. A
// directory that cannot be scanned is skipped with a warning; a file that
// fails to parse or convert fails the load.
func (s *Suite) Load(dirs []string) ([]domain.Scenario, error) {
	s.log.Debugf("Scanning directories: %v", dirs)
	files, err := s.scanner.ScanAll(dirs, func(dir string, err error) bool {
		s.log.Warnf("Failed to scan directory %s: %v", dir, err)
		return true
	})
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		s.log.Warn("No scenario files found")
		return nil, nil
	}
	s.log.Infof("Found %d scenario file(s)", len(files))

	var scenarios []domain.Scenario
	seen := make(map[string]string)
	for _, file := range files {
		loaded, err := s.LoadFile(file)
		if err != nil {
			return nil, err
		}
		for _, sc := range loaded {
			if first, dup := seen[sc.ID]; dup {
				return nil, domain.NewErrorWithSuggestion("convert", file, 0,
					fmt.Sprintf("duplicate scenario ID %q (first defined at %s)", sc.ID, first),
					"rename the suite or the scenario in one of the files", nil)
			}
			seen[sc.ID] = sc.Source
		}
		scenarios = append(scenarios, loaded...)
	}

	s.log.Infof("Loaded %d scenario(s)", len(scenarios))
	return scenarios, nil
}

// LoadFile parses and converts a single file. Files without a registered
// parser yield no scenarios.
func (s *Suite) LoadFile(path string) ([]domain.Scenario, error) {
	s.log.Debugf("Processing: %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", path, 0,
			"failed to read file",
			"check that the file exists and has read permissions",
			err)
	}

	ext := filepath.Ext(path)
	p, err := s.registry.ParserFor(ext)
	if err != nil {
		s.log.Warnf("No parser for %s, skipping %s", ext, path)
		return nil, nil
	}

	docs, err := p.Parse(path, content)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		s.log.Debugf("No scenario blocks found in %s", path)
		return nil, nil
	}

	var scenarios []domain.Scenario
	for _, doc := range docs {
		converted, err := s.converter.Convert(doc)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, converted...)
	}
	return scenarios, nil
}

// RunOptions configures Run.
type RunOptions struct {
	Parallelism     int
	ScenarioTimeout time.Duration
	Driver          string
	Clock           clock.Clock
	Metrics         *metrics.Collector
}

// Run executes scenarios with at most Parallelism in flight. Outcomes keep
// the order of scenarios regardless of completion order.
func (s *Suite) Run(ctx context.Context, exec Executor, scenarios []domain.Scenario, opts RunOptions) *domain.Report {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	limit := opts.Parallelism
	if limit < 1 {
		limit = 1
	}

	rep := &domain.Report{
		RunID:     uuid.NewString(),
		Driver:    opts.Driver,
		StartedAt: clk.Now(),
		Outcomes:  make([]domain.Outcome, len(scenarios)),
	}
	log := s.log.WithField("run", rep.RunID)
	log.WithFields(logrus.Fields{
		"scenarios":   len(scenarios),
		"parallelism": limit,
	}).Info("Starting run")

	var g errgroup.Group
	g.SetLimit(limit)
	for i, sc := range scenarios {
		g.Go(func() error {
			scCtx := ctx
			if opts.ScenarioTimeout > 0 {
				var cancel context.CancelFunc
				scCtx, cancel = context.WithTimeout(ctx, opts.ScenarioTimeout)
				defer cancel()
			}
			rep.Outcomes[i] = exec.Run(scCtx, sc)
			return nil
		})
	}
	_ = g.Wait()

	rep.Duration = clk.Now().Sub(rep.StartedAt)
	opts.Metrics.ObserveReport(rep)
	log.WithFields(logrus.Fields{
		"passed":   rep.Passed(),
		"failed":   rep.Failed(),
		"duration": rep.Duration,
	}).Info("Run complete")
	return rep
}
