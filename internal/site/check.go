package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eightytwo/idspispopd/internal/config"
	"github.com/eightytwo/idspispopd/internal/errors"
	"github.com/eightytwo/idspispopd/internal/render"
)

// Check validates the build inputs without writing any output: the
// template set parses, every page's templates exist and every listing item
// loads cleanly. Unlike Build, which stops at the first fatal problem,
// Check collects everything it finds so one run reports all of them.
func Check(ctx context.Context, cfg *config.Config) []error {
	engine, err := render.NewEngine(cfg.Paths.Templates)
	if err != nil {
		return []error{errors.Wrap(err, errors.CategoryTemplate, errors.SeverityFatal, "parse templates")}
	}

	g := NewGenerator(cfg)
	g.engine = engine

	var problems []error
	for _, page := range cfg.Pages {
		select {
		case <-ctx.Done():
			return append(problems, ctx.Err())
		default:
		}

		if !engine.Has(page.Template) {
			problems = append(problems, errors.New(errors.CategoryTemplate, errors.SeverityError,
				fmt.Sprintf("category %s: template %s.html not found", page.Category, page.Template)))
		}
		if page.DetailPages && !engine.Has(page.DetailTemplate) {
			problems = append(problems, errors.New(errors.CategoryTemplate, errors.SeverityError,
				fmt.Sprintf("category %s: detail template %s.html not found", page.Category, page.DetailTemplate)))
		}
		if page.Listing {
			problems = append(problems, g.checkListing(page)...)
		}
	}

	if _, err := os.Stat(cfg.Paths.Static); err != nil {
		problems = append(problems, errors.New(errors.CategoryFileSystem, errors.SeverityError,
			fmt.Sprintf("static directory %s not found", cfg.Paths.Static)))
	}

	return problems
}

// checkListing loads every item of one listing category, reporting files
// that would fail the build.
func (g *Generator) checkListing(page config.PageDef) []error {
	entries, err := os.ReadDir(page.SourceDir)
	if err != nil {
		return []error{errors.Wrap(err, errors.CategoryContent, errors.SeverityError,
			fmt.Sprintf("category %s: read source directory", page.Category))}
	}

	var problems []error
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(page.SourceDir, entry.Name())
		item, err := g.loadItem(path)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		if item.PublishedAt.IsZero() {
			problems = append(problems, errors.New(errors.CategoryContent, errors.SeverityError,
				fmt.Sprintf("%s has no date_published, required for listing order", path)))
		}
		if page.DetailPages && item.Slug == "" {
			problems = append(problems, errors.New(errors.CategoryContent, errors.SeverityError,
				fmt.Sprintf("%s has no title to derive a detail page slug from", path)))
		}
	}
	return problems
}
