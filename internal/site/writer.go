package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eightytwo/idspispopd/internal/errors"
)

// WritePage writes rendered HTML to <root>/<rel>/index.html, creating the
// directory chain. rel must stay inside the output root. Returns the path
// of the written file.
func WritePage(root, rel, html string) (string, error) {
	clean := filepath.Clean(rel)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.CategoryFileSystem, errors.SeverityFatal,
			fmt.Sprintf("page path %q escapes the output directory", rel))
	}

	dir := filepath.Join(root, clean)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "create page directory").WithContext("path", dir)
	}

	path := filepath.Join(dir, "index.html")
	// #nosec G306 -- rendered pages are served publicly
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "write page").WithContext("path", path)
	}
	return path, nil
}
