package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/eightytwo/idspispopd/internal/assets"
	"github.com/eightytwo/idspispopd/internal/config"
	"github.com/eightytwo/idspispopd/internal/errors"
	"github.com/eightytwo/idspispopd/internal/logfields"
)

// buildDetailPages writes one page per item at <category>/<slug>/, plus any
// co-located asset directory named after the item's source file stem.
func (g *Generator) buildDetailPages(page config.PageDef, items []Item) error {
	for _, item := range items {
		if item.Slug == "" {
			return errors.New(errors.CategoryContent, errors.SeverityFatal,
				fmt.Sprintf("%s has no title to derive a detail page slug from", item.SourcePath))
		}

		data := g.templateContext(page.Category)
		data["Page"] = item.Vars
		out, err := g.render(page.DetailTemplate, data)
		if err != nil {
			return err
		}

		relDir := filepath.Join(page.Category, item.Slug)
		if err := g.writePage(relDir, out); err != nil {
			return err
		}

		if err := g.copyItemAssets(page, item, relDir); err != nil {
			return err
		}

		slog.Debug("detail page rendered", logfields.Category(page.Category), logfields.Slug(item.Slug))
	}
	return nil
}

// copyItemAssets mirrors a directory that travels with the source file:
// content/blog/my-post/ is copied under the rendered my-post/ page.
func (g *Generator) copyItemAssets(page config.PageDef, item Item, relDir string) error {
	stem := strings.TrimSuffix(filepath.Base(item.SourcePath), filepath.Ext(item.SourcePath))
	assetDir := filepath.Join(page.SourceDir, stem)

	info, err := os.Stat(assetDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	if err := assets.CopyTree(assetDir, filepath.Join(g.cfg.Paths.Output, relDir)); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "copy item assets").
			WithContext("source", assetDir).
			WithContext("slug", item.Slug)
	}
	return nil
}
