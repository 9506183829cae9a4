package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/189/koa2-generator/internal/catalog"
	"github.com/189/koa2-generator/internal/config"
	"github.com/189/koa2-generator/internal/filesystem"
	"github.com/189/koa2-generator/internal/generator"
	"github.com/189/koa2-generator/internal/manifest"
	"github.com/189/koa2-generator/internal/plan"
)

// Scaffolder generates Koa 2 projects
type Scaffolder struct {
	cat      *catalog.Catalog
	renderer *generator.Renderer
	out      io.Writer
	diffOut  io.Writer
	logger   *log.Logger
}

// NewScaffolder creates a scaffolder that prints its creation log to out.
// A nil logger discards diagnostics.
func NewScaffolder(cat *catalog.Catalog, out io.Writer, logger *log.Logger) *Scaffolder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scaffolder{
		cat:      cat,
		renderer: generator.NewRenderer(cat),
		out:      out,
		diffOut:  out,
		logger:   logger,
	}
}

// WithDiffOutput sets the writer conflict diffs are printed to; their colors
// and width follow it. It defaults to the creation log writer.
func (s *Scaffolder) WithDiffOutput(w io.Writer) *Scaffolder {
	s.diffOut = w
	return s
}

// Result describes a finished (or aborted) run.
type Result struct {
	Files   []plan.PlannedFile
	Records []generator.ConflictRecord
	Written []generator.LogEntry
	DryRun  bool
}

// Skipped returns the number of files left alone because they were
// already up to date.
func (r *Result) Skipped() int {
	return generator.Counts(r.Records)[generator.IdenticalSkip]
}

// Scaffold plans, renders, classifies and writes one project. Conflicts
// are detected for the whole plan first; on a *generator.ConflictError
// nothing has been written and the returned Result carries the records.
func (s *Scaffolder) Scaffold(ctx context.Context, cfg *config.ScaffoldConfig) (*Result, error) {
	if err := s.checkTarget(cfg.TargetDir); err != nil {
		return nil, err
	}

	p, m, err := plan.Plan(cfg, s.cat)
	if err != nil {
		return nil, fmt.Errorf("failed to plan project: %w", err)
	}
	s.logger.Debug("planned project",
		"name", cfg.ProjectName,
		"view", cfg.ViewEngine,
		"css", cfg.CSSEngine,
		"git", cfg.GitEnabled,
		"files", len(p.Files))

	manifestBytes, err := manifest.Serialize(m)
	if err != nil {
		return nil, err
	}

	contents, err := s.renderer.RenderPlan(ctx, p.Files, p.Context, manifestBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to render project: %w", err)
	}

	opts := generator.ClassifyOptions{Force: cfg.Force}
	if cfg.ShowDiff {
		opts.Differ = generator.NewDiffer(s.diffOut, generator.DiffOptions{})
	}

	result := &Result{Files: p.Files, DryRun: cfg.DryRun}
	result.Records, err = generator.ClassifyAll(p.Files, contents, cfg.TargetDir, opts)
	if err != nil {
		return result, err
	}
	for _, rec := range result.Records {
		if rec.Action == generator.ConflictOverwrite {
			s.logger.Warn("overwriting file", "path", rec.Path)
		}
	}

	result.Written, err = generator.Materialize(ctx, p.Files, contents, result.Records, generator.MaterializeOptions{
		TargetDir: cfg.TargetDir,
		Writer:    s.out,
		Logger:    s.logger,
		DryRun:    cfg.DryRun,
	})
	if err != nil {
		return result, err
	}

	s.logger.Debug("scaffold finished", "written", len(result.Written), "unchanged", result.Skipped())
	return result, nil
}

// checkTarget accepts a missing or existing directory. A non-empty target
// is allowed: every file is classified against what is already there.
func (s *Scaffolder) checkTarget(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect target %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("target %s exists and is not a directory", dir)
	}

	empty, err := filesystem.IsEmpty(dir)
	if err != nil {
		return fmt.Errorf("failed to inspect target %s: %w", dir, err)
	}
	if !empty {
		s.logger.Warn("target directory is not empty", "dir", dir)
	}
	return nil
}
