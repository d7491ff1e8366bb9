package site

// TagKey identifies one tag page. Tags are scoped per category: the same
// tag in two categories yields two pages.
type TagKey struct {
	Category string
	Tag      string
}

// TagIndex accumulates items per (category, tag), preserving first-seen
// order of the keys across the whole build. Go maps do not keep order, so
// the index carries an explicit key list.
type TagIndex struct {
	order []TagKey
	items map[TagKey][]Item
}

func NewTagIndex() *TagIndex {
	return &TagIndex{items: make(map[TagKey][]Item)}
}

// Add appends items to the key's bucket, registering the key on first use.
func (ti *TagIndex) Add(key TagKey, items ...Item) {
	if _, ok := ti.items[key]; !ok {
		ti.order = append(ti.order, key)
	}
	ti.items[key] = append(ti.items[key], items...)
}

// Merge appends every bucket of other, preserving other's key order.
func (ti *TagIndex) Merge(other *TagIndex) {
	for _, key := range other.order {
		ti.Add(key, other.items[key]...)
	}
}

// Keys returns the tag keys in first-seen order.
func (ti *TagIndex) Keys() []TagKey { return ti.order }

// Items returns the bucket for key.
func (ti *TagIndex) Items(key TagKey) []Item { return ti.items[key] }

// Len returns the number of distinct (category, tag) buckets.
func (ti *TagIndex) Len() int { return len(ti.order) }
