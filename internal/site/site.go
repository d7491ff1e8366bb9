// Package site orchestrates the build pipeline: output preparation, static
// assets, page rendering, tag pages, link verification and the build report.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/eightytwo/idspispopd/internal/assets"
	"github.com/eightytwo/idspispopd/internal/config"
	ierrors "github.com/eightytwo/idspispopd/internal/errors"
	"github.com/eightytwo/idspispopd/internal/linkcheck"
	"github.com/eightytwo/idspispopd/internal/logfields"
	"github.com/eightytwo/idspispopd/internal/metrics"
	"github.com/eightytwo/idspispopd/internal/render"
)

// Generator builds a site from configuration: content in, rendered tree out.
// A generator is not safe for concurrent builds; serve mode serializes them.
type Generator struct {
	cfg            *config.Config
	engine         *render.Engine
	recorder       metrics.Recorder
	pageDefs       map[string]config.PageDef
	lastModified   func(path string) (time.Time, bool)
	onPageRendered func()
}

// NewGenerator creates a generator for cfg. Metrics default to the no-op
// recorder.
func NewGenerator(cfg *config.Config) *Generator {
	defs := make(map[string]config.PageDef, len(cfg.Pages))
	for _, p := range cfg.Pages {
		defs[p.Category] = p
	}
	return &Generator{cfg: cfg, recorder: metrics.NoopRecorder{}, pageDefs: defs}
}

// SetRecorder replaces the metrics recorder. Returns the generator for
// chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r != nil {
		g.recorder = r
	}
	return g
}

// SetLastModified installs a source timestamp lookup. When it reports a
// time for a content file, templates see it as the last_modified variable.
func (g *Generator) SetLastModified(fn func(path string) (time.Time, bool)) *Generator {
	g.lastModified = fn
	return g
}

// Build runs the full pipeline. The returned report is never nil: failed
// builds carry their errors and a failed outcome.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	report := newBuildReport()
	g.onPageRendered = func() { report.RenderedPages++ }

	engine, err := render.NewEngine(g.cfg.Paths.Templates)
	if err != nil {
		// Without a template environment nothing can render.
		werr := ierrors.Wrap(err, ierrors.CategoryTemplate, ierrors.SeverityFatal, "load template environment")
		report.Errors = append(report.Errors, werr)
		report.deriveOutcome()
		report.finish()
		return report, werr
	}
	g.engine = engine

	bs := newBuildState(g, report)
	stages := []stageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageCopyStatic, stageCopyStatic},
		{StageRenderPages, stageRenderPages},
		{StageTagPages, stageTagPages},
		{StageVerifyLinks, stageVerifyLinks},
	}

	runErr := runStages(ctx, bs, stages)
	report.deriveOutcome()
	report.finish()

	if runErr == nil {
		if perr := report.Persist(g.cfg.Paths.Output); perr != nil {
			slog.Warn("failed to persist build report", logfields.BuildID(report.ID), logfields.Error(perr))
		}
	}

	g.recorder.ObserveBuildDuration(report.Duration())
	g.recorder.IncBuildOutcome(string(report.Outcome))
	g.recorder.SetPagesRendered(report.RenderedPages)

	slog.Info("site build completed",
		logfields.BuildID(report.ID),
		logfields.Outcome(string(report.Outcome)),
		logfields.Count(report.RenderedPages),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))

	return report, runErr
}

func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	out := bs.Generator.cfg.Paths.Output
	if err := os.RemoveAll(out); err != nil {
		return ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityFatal, "clear output directory").
			WithContext("path", out)
	}
	if err := os.MkdirAll(out, 0o750); err != nil {
		return ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityFatal, "create output directory").
			WithContext("path", out)
	}
	return nil
}

func stageCopyStatic(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	if err := assets.CopyTree(g.cfg.Paths.Static, g.cfg.Paths.Output); err != nil {
		return ierrors.Wrap(err, ierrors.CategoryFileSystem, ierrors.SeverityFatal, "copy static assets").
			WithContext("path", g.cfg.Paths.Static)
	}
	return nil
}

func stageRenderPages(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	for _, page := range g.cfg.Pages {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageRenderPages, ctx.Err())
		default:
		}

		if page.Listing {
			items, tags, err := g.buildListPage(page)
			if err != nil {
				return err
			}
			bs.Report.Items += len(items)
			bs.Tags.Merge(tags)
			if page.DetailPages {
				if err := g.buildDetailPages(page, items); err != nil {
					return err
				}
				bs.Report.DetailPages += len(items)
			}
		} else {
			if err := g.buildSimplePage(page); err != nil {
				return err
			}
		}
		bs.Report.Pages++
	}
	return nil
}

func stageTagPages(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	for _, key := range bs.Tags.Keys() {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageTagPages, ctx.Err())
		default:
		}
		if err := g.buildTagPage(key, bs.Tags.Items(key)); err != nil {
			return err
		}
		bs.Report.TagPages++
	}
	return nil
}

// stageVerifyLinks never fails the build: broken references and checker
// problems surface as warnings.
func stageVerifyLinks(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	checker := linkcheck.NewChecker(g.cfg.Paths.Output, g.cfg.Site.BaseURL)
	problems, err := checker.Verify(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageVerifyLinks, err)
		}
		return newWarnStageError(StageVerifyLinks, err)
	}
	if len(problems) == 0 {
		return nil
	}
	for _, p := range problems {
		slog.Warn("broken internal link",
			logfields.Page(p.Page),
			slog.String("url", p.URL),
			slog.String("reason", p.Reason))
	}
	return newWarnStageError(StageVerifyLinks, fmt.Errorf("%d unresolved internal links", len(problems)))
}

// templateContext is the data every template receives.
func (g *Generator) templateContext(category string) map[string]any {
	return map[string]any{
		"Site":     g.cfg.Site,
		"Category": category,
	}
}

// render runs one template, classifying failures: a missing template is a
// configuration problem, an execution failure is a rendering problem.
func (g *Generator) render(name string, data map[string]any) (string, error) {
	out, err := g.engine.Render(name, data)
	if err != nil {
		if errors.Is(err, render.ErrTemplateNotFound) {
			return "", ierrors.Wrap(err, ierrors.CategoryTemplate, ierrors.SeverityFatal, "missing template")
		}
		return "", ierrors.Wrap(err, ierrors.CategoryRender, ierrors.SeverityFatal, "execute template").
			WithContext("template", name)
	}
	return out, nil
}

// writePage writes one rendered page relative to the output root and ticks
// the rendered pages counter.
func (g *Generator) writePage(rel, html string) error {
	if _, err := WritePage(g.cfg.Paths.Output, rel, html); err != nil {
		return err
	}
	if g.onPageRendered != nil {
		g.onPageRendered()
	}
	return nil
}
