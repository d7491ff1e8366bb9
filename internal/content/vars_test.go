package content

import (
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtract_ContentIsUnescapedHTML(t *testing.T) {
	doc := &Document{HTML: "<h1>Hi</h1>", Metadata: map[string][]string{}}

	vars, err := Extract(doc)
	require.NoError(t, err)
	require.Equal(t, template.HTML("<h1>Hi</h1>"), vars["content"])
}

func TestExtract_TOCOnlyWhenNonEmpty(t *testing.T) {
	doc := &Document{HTML: "x", Metadata: map[string][]string{}}
	vars, err := Extract(doc)
	require.NoError(t, err)
	require.NotContains(t, vars, "toc")

	doc.TOC = "<div class=\"toc\"></div>"
	vars, err = Extract(doc)
	require.NoError(t, err)
	require.Equal(t, template.HTML(doc.TOC), vars["toc"])
}

func TestExtract_SingleValueCollapsesToScalar(t *testing.T) {
	doc := &Document{HTML: "", Metadata: map[string][]string{
		"title": {"Test Post"},
	}}

	vars, err := Extract(doc)
	require.NoError(t, err)
	require.Equal(t, "Test Post", vars["title"])
}

func TestExtract_MultiValueStaysSequence(t *testing.T) {
	doc := &Document{HTML: "", Metadata: map[string][]string{
		"tags": {"go", "blog"},
	}}

	vars, err := Extract(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"go", "blog"}, vars["tags"])
}

func TestExtract_DateFieldsParsed(t *testing.T) {
	doc := &Document{HTML: "", Metadata: map[string][]string{
		"date_published": {"01 Jan 2024"},
		"date_updated":   {"15 Feb 2025"},
	}}

	vars, err := Extract(doc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), vars["date_published"])
	require.Equal(t, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC), vars["date_updated"])
}

func TestExtract_MalformedDate_ErrorNamesField(t *testing.T) {
	doc := &Document{HTML: "", Metadata: map[string][]string{
		"date_published": {"2024-01-01"},
	}}

	_, err := Extract(doc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "date_published")
}

func TestExtract_EmptyDate_ErrorNamesField(t *testing.T) {
	doc := &Document{HTML: "", Metadata: map[string][]string{
		"date_published": {""},
	}}

	_, err := Extract(doc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "date_published")
}
