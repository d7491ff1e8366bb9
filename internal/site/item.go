package site

import (
	"sort"
	"time"
)

// Item is one content file's contribution to a listing category. The typed
// fields drive sorting, tagging and output paths; Vars is what templates see.
type Item struct {
	Slug        string
	SourcePath  string
	PublishedAt time.Time
	Tags        []string
	Vars        map[string]any
}

// sortByPublishedDesc orders items most recent first. The sort is stable so
// items sharing a date keep their enumeration order.
func sortByPublishedDesc(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}

// varsOf projects items to the maps handed to templates.
func varsOf(items []Item) []map[string]any {
	out := make([]map[string]any, len(items))
	for i := range items {
		out[i] = items[i].Vars
	}
	return out
}
