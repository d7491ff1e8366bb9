package content

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// DateLayout is the textual format used by date_* front matter fields,
// e.g. "01 Jan 2024".
const DateLayout = "02 Jan 2006"

// datePrefix marks front matter fields parsed as dates.
const datePrefix = "date_"

// Extract flattens a loaded document into template variables. The rendered
// body lands under "content" and the table of contents under "toc" (when
// non-empty), both typed so the template engine injects them verbatim.
// date_* fields are parsed into time.Time; other single-valued fields
// collapse to their scalar and multi-valued fields stay sequences.
func Extract(doc *Document) (map[string]any, error) {
	vars := map[string]any{
		"content": template.HTML(doc.HTML), // #nosec G203 -- rendered by the markdown converter, not user-supplied HTML
	}
	if doc.TOC != "" {
		vars["toc"] = template.HTML(doc.TOC) // #nosec G203 -- same provenance as content
	}

	for field, values := range doc.Metadata {
		if strings.HasPrefix(field, datePrefix) {
			if len(values) == 0 || values[0] == "" {
				return nil, fmt.Errorf("date field %s is empty", field)
			}
			parsed, err := time.Parse(DateLayout, values[0])
			if err != nil {
				return nil, fmt.Errorf("parse date field %s: %w", field, err)
			}
			vars[field] = parsed
			continue
		}

		if len(values) == 1 {
			vars[field] = values[0]
		} else {
			vars[field] = values
		}
	}

	return vars, nil
}
