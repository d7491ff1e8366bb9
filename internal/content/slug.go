package content

import "github.com/goliatone/go-slug"

// Slugify derives a URL-safe slug from a title: lowercase ASCII letters,
// digits and hyphens only.
func Slugify(title string) (string, error) {
	return slug.Normalize(title)
}
