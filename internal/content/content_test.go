package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeContent(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.md")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FullDocument_RendersBodyAndMetadata(t *testing.T) {
	path := writeContent(t, `---
title: Test Post
date_published: 01 Jan 2024
tags:
  - demo
---
# Hi

Some **bold** text.
`)

	doc, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, doc.HTML, "<h1 id=\"hi\">Hi</h1>")
	require.Contains(t, doc.HTML, "<strong>bold</strong>")
	require.Equal(t, []string{"Test Post"}, doc.Metadata["title"])
	require.Equal(t, []string{"01 Jan 2024"}, doc.Metadata["date_published"])
	require.Equal(t, []string{"demo"}, doc.Metadata["tags"])
}

func TestLoad_NoFrontMatter_EmptyMetadata(t *testing.T) {
	path := writeContent(t, "plain paragraph\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, doc.Metadata)
	require.Contains(t, doc.HTML, "<p>plain paragraph</p>")
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.md"))
	require.Error(t, err)
}

func TestLoad_InvalidUTF8_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.md")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x41}, 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "UTF-8")
}

func TestLoad_UnterminatedFrontMatter_ReturnsError(t *testing.T) {
	path := writeContent(t, "---\ntitle: Broken\n# Body without closing delimiter\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_InvalidYAMLFrontMatter_ReturnsError(t *testing.T) {
	path := writeContent(t, "---\n: bad\n---\nbody\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_GFMTable_Renders(t *testing.T) {
	path := writeContent(t, "| a | b |\n|---|---|\n| 1 | 2 |\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, doc.HTML, "<table>")
}

func TestLoad_FencedCode_Highlighted(t *testing.T) {
	path := writeContent(t, "```go\nfmt.Println(\"hi\")\n```\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, doc.HTML, "<pre")
}

func TestLoad_Footnote_RendersFootnoteSection(t *testing.T) {
	path := writeContent(t, "Read this.[^1]\n\n[^1]: The note.\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, doc.HTML, "fn:1")
}

func TestLoad_TOCMarker_ReplacedWithContents(t *testing.T) {
	path := writeContent(t, "[TOC]\n\n# One\n\n## Two\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.NotContains(t, doc.HTML, "[TOC]")
	require.Contains(t, doc.HTML, "toctitle")
	require.Contains(t, doc.HTML, "Contents")
}

func TestLoad_TOCMarkerWithoutHeadings_MarkerRemoved(t *testing.T) {
	path := writeContent(t, "[TOC]\n\njust text\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.NotContains(t, doc.HTML, "[TOC]")
	require.Empty(t, doc.TOC)
}
