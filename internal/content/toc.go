package content

import (
	"fmt"
	"html"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

// tocDepth limits the table of contents to top-level sections and their
// immediate subsections.
const tocDepth = 2

// tocTitle heads the rendered table of contents.
const tocTitle = "Contents"

// tocEntry is one heading reference collected from a parsed body.
type tocEntry struct {
	title string
	id    string
	level int
}

// collectHeadings walks the AST and returns headings up to maxLevel, in
// document order. Headings without an id (auto heading IDs disabled or an
// empty heading) are skipped.
func collectHeadings(root gmast.Node, source []byte, maxLevel int) []tocEntry {
	var entries []tocEntry
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		heading, ok := n.(*gmast.Heading)
		if !ok || heading.Level > maxLevel {
			return gmast.WalkContinue, nil
		}
		idVal, found := heading.Attribute([]byte("id"))
		if !found {
			return gmast.WalkContinue, nil
		}
		id, ok := idVal.([]byte)
		if !ok {
			return gmast.WalkContinue, nil
		}
		entries = append(entries, tocEntry{
			title: string(heading.Text(source)),
			id:    string(id),
			level: heading.Level,
		})
		return gmast.WalkContinue, nil
	})
	return entries
}

// renderTOC renders collected headings as a nested list wrapped in a
// div.toc, mirroring the shape themes style against. Returns empty when
// there are no headings.
func renderTOC(entries []tocEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<div class=\"toc\">\n<span class=\"toctitle\">")
	b.WriteString(tocTitle)
	b.WriteString("</span>\n<ul>\n")

	depth := 0 // nested lists open beyond the root
	prev := entries[0].level
	for i, e := range entries {
		switch {
		case i == 0:
			b.WriteString("<li>")
		case e.level > prev:
			for l := prev; l < e.level; l++ {
				b.WriteString("\n<ul>\n<li>")
				depth++
			}
		case e.level < prev:
			closing := prev - e.level
			if closing > depth {
				closing = depth
			}
			for c := 0; c < closing; c++ {
				b.WriteString("</li>\n</ul>\n")
				depth--
			}
			b.WriteString("</li>\n<li>")
		default:
			b.WriteString("</li>\n<li>")
		}
		fmt.Fprintf(&b, "<a href=\"#%s\">%s</a>", e.id, html.EscapeString(e.title))
		prev = e.level
	}

	for ; depth > 0; depth-- {
		b.WriteString("</li>\n</ul>\n")
	}
	b.WriteString("</li>\n</ul>\n</div>")
	return b.String()
}
