package site

import (
	"log/slog"

	"github.com/eightytwo/idspispopd/internal/config"
	"github.com/eightytwo/idspispopd/internal/logfields"
)

// buildSimplePage renders a category that has no source content: the
// template alone produces the page.
func (g *Generator) buildSimplePage(page config.PageDef) error {
	out, err := g.render(page.Template, g.templateContext(page.Category))
	if err != nil {
		return err
	}
	if err := g.writePage(page.Category, out); err != nil {
		return err
	}
	slog.Debug("page rendered", logfields.Category(page.Category), logfields.Template(page.Template))
	return nil
}
