package linkcheck

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/eightytwo/idspispopd/internal/errors"
)

// Link is one reference extracted from a rendered page.
type Link struct {
	URL        string // raw attribute value
	Text       string // link text or alt text
	Tag        string // HTML tag (a, img, script, link, ...)
	Attribute  string // attribute carrying the reference
	IsInternal bool   // true when the target lives inside the site
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string, baseURL string) ([]*Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityWarning, "open rendered page").WithContext("path", htmlPath)
	}
	defer func() {
		_ = file.Close()
	}()

	return ExtractLinksFromReader(file, baseURL)
}

// ExtractLinksFromReader extracts all links from an HTML reader.
func ExtractLinksFromReader(r io.Reader, baseURL string) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryRender, errors.SeverityWarning, "parse rendered HTML")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityWarning, "invalid base URL").WithContext("base_url", baseURL)
	}

	var links []*Link

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			extractElementLinks(n, &links, base)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)
	return links, nil
}

// extractElementLinks extracts links from a single HTML element.
func extractElementLinks(n *html.Node, links *[]*Link, base *url.URL) {
	switch n.Data {
	case "a":
		if href := getAttr(n, "href"); href != "" {
			*links = append(*links, &Link{
				URL:        href,
				Text:       extractText(n),
				Tag:        "a",
				Attribute:  "href",
				IsInternal: isInternalLink(href, base),
			})
		}
	case "img":
		if src := getAttr(n, "src"); src != "" {
			*links = append(*links, &Link{
				URL:        src,
				Text:       getAttr(n, "alt"),
				Tag:        "img",
				Attribute:  "src",
				IsInternal: isInternalLink(src, base),
			})
		}
	case "script":
		if src := getAttr(n, "src"); src != "" {
			*links = append(*links, &Link{
				URL:        src,
				Tag:        "script",
				Attribute:  "src",
				IsInternal: isInternalLink(src, base),
			})
		}
	case "link":
		if href := getAttr(n, "href"); href != "" {
			*links = append(*links, &Link{
				URL:        href,
				Text:       getAttr(n, "rel"),
				Tag:        "link",
				Attribute:  "href",
				IsInternal: isInternalLink(href, base),
			})
		}
	case "video", "audio", "source":
		if src := getAttr(n, "src"); src != "" {
			*links = append(*links, &Link{
				URL:        src,
				Tag:        n.Data,
				Attribute:  "src",
				IsInternal: isInternalLink(src, base),
			})
		}
	}
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return strings.TrimSpace(text.String())
}

// isInternalLink determines if a URL is internal to the site.
func isInternalLink(linkURL string, baseURL *url.URL) bool {
	// Anchors and non-HTTP protocols never leave the site.
	if strings.HasPrefix(linkURL, "mailto:") ||
		strings.HasPrefix(linkURL, "tel:") ||
		strings.HasPrefix(linkURL, "javascript:") ||
		strings.HasPrefix(linkURL, "#") {
		return true
	}

	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}

	// Relative URLs are internal.
	if u.Scheme == "" || u.Host == "" {
		return true
	}

	if baseURL != nil && u.Host == baseURL.Host {
		return true
	}

	return false
}

// shouldCheck filters out references that cannot be resolved against the
// output tree: pure anchors, special protocols and empty targets.
func shouldCheck(link *Link) bool {
	if link.URL == "" || strings.HasPrefix(link.URL, "#") {
		return false
	}

	if strings.HasPrefix(link.URL, "mailto:") ||
		strings.HasPrefix(link.URL, "tel:") ||
		strings.HasPrefix(link.URL, "javascript:") ||
		strings.HasPrefix(link.URL, "data:") {
		return false
	}

	return link.IsInternal
}
