// Package content loads Markdown content files. YAML front matter is parsed
// into metadata where every value is a sequence, and the body is rendered to
// HTML5 with GFM tables, footnotes, syntax-highlighted code blocks and auto
// heading IDs. A table of contents is derived from the heading tree and can
// be injected into the body via a [TOC] marker paragraph.
package content

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/eightytwo/idspispopd/internal/frontmatter"
)

// tocMarker is the rendered form of a paragraph containing only [TOC].
const tocMarker = "<p>[TOC]</p>"

// Document is the result of loading one Markdown content file.
type Document struct {
	// HTML is the rendered body.
	HTML string
	// TOC is the rendered table of contents, empty when the body has no
	// headings within the depth limit.
	TOC string
	// Metadata holds the front matter fields. Every value is a sequence of
	// strings, even when single-valued.
	Metadata map[string][]string
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
			highlighting.WithGuessLanguage(false),
		),
	),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(ghtml.WithUnsafe()),
)

// Load reads and converts the Markdown file at path.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("content file %s is not valid UTF-8", path)
	}

	fm, body, had, err := frontmatter.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("split front matter in %s: %w", path, err)
	}

	metadata := map[string][]string{}
	if had {
		metadata, err = frontmatter.Parse(fm)
		if err != nil {
			return nil, fmt.Errorf("parse front matter in %s: %w", path, err)
		}
	}

	rendered, toc, err := convert(body)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}

	return &Document{HTML: rendered, TOC: toc, Metadata: metadata}, nil
}

// convert renders a Markdown body and its table of contents. The body is
// parsed once; rendering and TOC extraction share the AST.
func convert(body []byte) (rendered string, toc string, err error) {
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	toc = renderTOC(collectHeadings(root, body, tocDepth))

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, root); err != nil {
		return "", "", fmt.Errorf("render markdown: %w", err)
	}

	rendered = buf.String()
	if strings.Contains(rendered, tocMarker) {
		rendered = strings.Replace(rendered, tocMarker, toc, 1)
	}
	return rendered, toc, nil
}
