package render

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Helpers returns the FuncMap shared by every template in the set.
func Helpers() map[string]any {
	titleCaser := cases.Title(language.English)
	return map[string]any{
		// titleCase turns a category or file stem into display text:
		// "my-projects" -> "My Projects".
		"titleCase": func(s string) string {
			return titleCaser.String(strings.ReplaceAll(strings.ReplaceAll(s, "-", " "), "_", " "))
		},
		"lower": strings.ToLower,
		// dateFormat renders a parsed date_* field: {{ dateFormat "2 Jan 2006" .Page.date_published }}.
		"dateFormat": func(layout string, t time.Time) string {
			return t.Format(layout)
		},
		"join": strings.Join,
	}
}
