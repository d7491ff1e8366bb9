package site

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/eightytwo/idspispopd/internal/errors"
	"github.com/eightytwo/idspispopd/internal/logfields"
)

// buildTagPage renders the items carrying one tag, most recent first, with
// the owning category's listing template at <category>/tag/<tag>/.
func (g *Generator) buildTagPage(key TagKey, items []Item) error {
	page, ok := g.pageDefs[key.Category]
	if !ok {
		return errors.New(errors.CategoryInternal, errors.SeverityFatal,
			fmt.Sprintf("tag %q references unknown category %q", key.Tag, key.Category))
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sortByPublishedDesc(sorted)

	data := g.templateContext(key.Category)
	data["Tag"] = key.Tag
	data["Items"] = varsOf(sorted)
	out, err := g.render(page.Template, data)
	if err != nil {
		return err
	}

	if err := g.writePage(filepath.Join(key.Category, "tag", key.Tag), out); err != nil {
		return err
	}

	slog.Debug("tag page rendered", logfields.Category(key.Category), logfields.Tag(key.Tag), logfields.Count(len(sorted)))
	return nil
}
