package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/eightytwo/idspispopd/internal/config"
	"github.com/eightytwo/idspispopd/internal/content"
	"github.com/eightytwo/idspispopd/internal/errors"
	"github.com/eightytwo/idspispopd/internal/logfields"
)

// buildListPage renders one listing category: every regular file in the
// source directory becomes an item, ordered most recent first. Returns the
// sorted items and the category's tag buckets in first-seen order.
func (g *Generator) buildListPage(page config.PageDef) ([]Item, *TagIndex, error) {
	entries, err := os.ReadDir(page.SourceDir)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CategoryContent, errors.SeverityFatal, "read listing source directory").
			WithContext("category", page.Category)
	}

	items := make([]Item, 0, len(entries))
	tags := NewTagIndex()

	for _, entry := range entries {
		// Subdirectories hold per-item assets, not content.
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(page.SourceDir, entry.Name())
		item, err := g.loadItem(path)
		if err != nil {
			return nil, nil, err
		}
		if item.PublishedAt.IsZero() {
			return nil, nil, errors.New(errors.CategoryContent, errors.SeverityFatal,
				fmt.Sprintf("%s has no date_published, required for listing order", path))
		}
		items = append(items, item)
		for _, tag := range item.Tags {
			tags.Add(TagKey{Category: page.Category, Tag: tag}, item)
		}
	}

	sortByPublishedDesc(items)

	data := g.templateContext(page.Category)
	data["Items"] = varsOf(items)
	out, err := g.render(page.Template, data)
	if err != nil {
		return nil, nil, err
	}
	if err := g.writePage(page.Category, out); err != nil {
		return nil, nil, err
	}

	slog.Debug("listing page rendered", logfields.Category(page.Category), logfields.Count(len(items)))
	return items, tags, nil
}

// loadItem converts one source file into an Item, lifting the typed fields
// out of the extracted variables.
func (g *Generator) loadItem(path string) (Item, error) {
	doc, err := content.Load(path)
	if err != nil {
		return Item{}, errors.Wrap(err, errors.CategoryContent, errors.SeverityFatal, "load content file")
	}
	vars, err := content.Extract(doc)
	if err != nil {
		return Item{}, errors.Wrap(err, errors.CategoryContent, errors.SeverityFatal, "extract page variables").
			WithContext("path", path)
	}

	item := Item{SourcePath: path, Vars: vars}

	if title, ok := vars["title"].(string); ok && title != "" {
		slug, err := content.Slugify(title)
		if err != nil {
			return Item{}, errors.Wrap(err, errors.CategoryContent, errors.SeverityFatal, "derive slug").
				WithContext("path", path)
		}
		item.Slug = slug
		vars["slug"] = slug
	}
	if published, ok := vars["date_published"].(time.Time); ok {
		item.PublishedAt = published
	}
	// Tags come from the raw front matter sequence: a lone tag is one tag,
	// never a string to split.
	item.Tags = append(item.Tags, doc.Metadata["tags"]...)

	if g.lastModified != nil {
		if t, ok := g.lastModified(path); ok {
			vars["last_modified"] = t
		}
	}

	return item, nil
}
