// Package linkcheck verifies that internal references in a rendered site
// resolve to files in the output tree. It never fetches anything over the
// network; external links are reported as out of scope and skipped.
package linkcheck

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/eightytwo/idspispopd/internal/logfields"
)

// Problem describes one internal reference that does not resolve to a file
// in the output tree.
type Problem struct {
	Page   string // rendered page, relative to the site root
	URL    string // reference as written in the page
	Reason string
}

// Checker verifies internal references against a rendered site tree.
type Checker struct {
	root    string
	baseURL string
}

// NewChecker returns a checker for the site tree rooted at root. Links to
// baseURL's host are treated as internal and resolved by path.
func NewChecker(root, baseURL string) *Checker {
	return &Checker{root: root, baseURL: baseURL}
}

// Verify walks every rendered page under the root and resolves each internal
// reference against the tree. Unresolvable references come back as problems;
// only the tree walk itself can fail.
func (c *Checker) Verify(ctx context.Context) ([]Problem, error) {
	var problems []Problem

	err := filepath.WalkDir(c.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			return err
		}

		pageProblems, err := c.verifyPage(p, rel)
		if err != nil {
			// An unreadable page should not abort verification of the rest.
			slog.Warn("skipping page during link verification", logfields.Page(rel), logfields.Error(err))
			return nil
		}
		problems = append(problems, pageProblems...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return problems, nil
}

// verifyPage extracts the references of one page and resolves the internal
// ones against the tree.
func (c *Checker) verifyPage(htmlPath, rel string) ([]Problem, error) {
	links, err := ExtractLinks(htmlPath, c.baseURL)
	if err != nil {
		return nil, err
	}

	base := pageURL(rel)

	var problems []Problem
	for _, link := range links {
		if !shouldCheck(link) {
			continue
		}
		if reason, ok := c.resolveTarget(base, link.URL); !ok {
			problems = append(problems, Problem{Page: filepath.ToSlash(rel), URL: link.URL, Reason: reason})
		}
	}
	return problems, nil
}

// pageURL derives the served URL of a rendered file: directory indexes are
// served at the directory path, everything else at its file path.
func pageURL(rel string) *url.URL {
	slashed := filepath.ToSlash(rel)
	if path.Base(slashed) == "index.html" {
		dir := path.Dir(slashed)
		if dir == "." {
			return &url.URL{Path: "/"}
		}
		return &url.URL{Path: "/" + dir + "/"}
	}
	return &url.URL{Path: "/" + slashed}
}

// resolveTarget maps one reference to output tree candidates. A reference
// resolves when it names a regular file directly or a directory holding an
// index.html.
func (c *Checker) resolveTarget(base *url.URL, raw string) (string, bool) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "unparseable reference", false
	}

	abs := base.ResolveReference(ref)
	clean := path.Clean(abs.Path)
	relPath := strings.TrimPrefix(clean, "/")

	var candidates []string
	if relPath == "" || relPath == "." {
		candidates = []string{filepath.Join(c.root, "index.html")}
	} else {
		candidates = []string{
			filepath.Join(c.root, filepath.FromSlash(relPath)),
			filepath.Join(c.root, filepath.FromSlash(relPath), "index.html"),
		}
	}

	for _, cand := range candidates {
		if info, err := os.Stat(cand); err == nil && info.Mode().IsRegular() {
			return "", true
		}
	}
	return "target not found", false
}
