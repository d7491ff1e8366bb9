// Package render owns the HTML template environment. Every <name>.html file
// in the templates directory is parsed into a single escaping template set
// sharing one helper FuncMap; templates are addressed by bare name.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
)

// ErrTemplateNotFound indicates a page referenced a template that is not
// present in the templates directory.
var ErrTemplateNotFound = errors.New("template not found")

// Engine renders pages through a parsed template set.
type Engine struct {
	set *template.Template
}

// NewEngine parses every *.html file in dir into one template set. An empty
// or missing directory is an error: a site without templates cannot build.
func NewEngine(dir string) (*Engine, error) {
	set, err := template.New("").Funcs(Helpers()).ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
	}
	return &Engine{set: set}, nil
}

// Render executes the template <name>.html with data.
func (e *Engine) Render(name string, data any) (string, error) {
	tpl := e.set.Lookup(name + ".html")
	if tpl == nil {
		return "", fmt.Errorf("%w: %s.html", ErrTemplateNotFound, name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Has reports whether the set contains the template <name>.html.
func (e *Engine) Has(name string) bool {
	return e.set.Lookup(name+".html") != nil
}
