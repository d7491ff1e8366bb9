package site

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWritePage_CreatesIndexHTML(t *testing.T) {
	root := t.TempDir()

	path, err := WritePage(root, "blog", "<html>listing</html>")
	if err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	want := filepath.Join(root, "blog", "index.html")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if string(data) != "<html>listing</html>" {
		t.Fatalf("page content = %q", data)
	}
}

func TestWritePage_NestedPath(t *testing.T) {
	root := t.TempDir()

	if _, err := WritePage(root, filepath.Join("blog", "tag", "go"), "tagged"); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "blog", "tag", "go", "index.html")); err != nil {
		t.Fatalf("nested page missing: %v", err)
	}
}

func TestWritePage_RejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()

	if _, err := WritePage(root, filepath.Join("..", "evil"), "x"); err == nil {
		t.Fatalf("expected error for escaping relative path")
	}
	if _, err := WritePage(root, string(filepath.Separator)+"abs", "x"); err == nil {
		t.Fatalf("expected error for absolute path")
	}
}
