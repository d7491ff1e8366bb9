package state

import (
	"os"
	"path/filepath"
	"testing"
)

func seedHashTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func TestHashTree_DeterministicForSameContent(t *testing.T) {
	files := map[string]string{
		"blog/a.md": "alpha",
		"blog/b.md": "beta",
	}
	first := seedHashTree(t, files)
	second := seedHashTree(t, files)

	h1, err := HashTree(first)
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}
	h2, err := HashTree(second)
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("same content hashed differently: %s vs %s", h1, h2)
	}
}

func TestHashTree_ContentChangeChangesHash(t *testing.T) {
	root := seedHashTree(t, map[string]string{"a.md": "one"})

	before, err := HashTree(root)
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "a.md"), []byte("two"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	after, err := HashTree(root)
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}
	if before == after {
		t.Fatalf("content change did not change hash")
	}
}

func TestHashTree_NewFileChangesHash(t *testing.T) {
	root := seedHashTree(t, map[string]string{"a.md": "one"})

	before, err := HashTree(root)
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "b.md"), []byte("new"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	after, err := HashTree(root)
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}
	if before == after {
		t.Fatalf("new file did not change hash")
	}
}

func TestHashTree_MissingRootContributesNothing(t *testing.T) {
	root := seedHashTree(t, map[string]string{"a.md": "one"})
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	withMissing, err := HashTree(root, missing)
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}
	alone, err := HashTree(root)
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}
	if withMissing != alone {
		t.Fatalf("missing root changed hash")
	}
}

func TestHashTree_EmptyInputHasKnownHash(t *testing.T) {
	h1, err := HashTree(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}
	h2, err := HashTree()
	if err != nil {
		t.Fatalf("HashTree: %v", err)
	}
	if h1 != h2 || h1 == "" {
		t.Fatalf("empty hashes differ: %q vs %q", h1, h2)
	}
}
