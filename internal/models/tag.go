package models

// TagID identifies a tag. Ids are 1-based; 0 means "no tag".
type TagID int

// ScratchPadTagLabel is the hidden tag holding scratchpad windows that are
// currently not shown.
const ScratchPadTagLabel = "NSP"

// Tag is a label used to group windows independently of workspaces.
type Tag struct {
	ID     TagID  `json:"id"`
	Label  string `json:"label"`
	Hidden bool   `json:"hidden"`
}

// Tags holds the normal tags followed by any hidden tags.
type Tags struct {
	normal []Tag
	hidden []Tag
}

// NewTags builds the normal tag list from labels, assigning ids 1..n.
func NewTags(labels []string) *Tags {
	t := &Tags{}
	for i, label := range labels {
		t.normal = append(t.normal, Tag{ID: TagID(i + 1), Label: label})
	}
	return t
}

// Normal returns a copy of the visible tags in id order.
func (t *Tags) Normal() []Tag {
	out := make([]Tag, len(t.normal))
	copy(out, t.normal)
	return out
}

// All returns normal tags followed by hidden tags.
func (t *Tags) All() []Tag {
	out := make([]Tag, 0, len(t.normal)+len(t.hidden))
	out = append(out, t.normal...)
	return append(out, t.hidden...)
}

// LenNormal returns the number of visible tags.
func (t *Tags) LenNormal() int {
	return len(t.normal)
}

// Get looks up a tag by id, including hidden tags.
func (t *Tags) Get(id TagID) (Tag, bool) {
	for _, tag := range t.normal {
		if tag.ID == id {
			return tag, true
		}
	}
	for _, tag := range t.hidden {
		if tag.ID == id {
			return tag, true
		}
	}
	return Tag{}, false
}

// ByLabel looks up a tag by label, including hidden tags.
func (t *Tags) ByLabel(label string) (Tag, bool) {
	for _, tag := range t.All() {
		if tag.Label == label {
			return tag, true
		}
	}
	return Tag{}, false
}

// Label returns the label for id, or "" if unknown.
func (t *Tags) Label(id TagID) string {
	tag, _ := t.Get(id)
	return tag.Label
}

// AddHidden registers a hidden tag and returns its id. Adding an existing
// label returns the existing id.
func (t *Tags) AddHidden(label string) TagID {
	if tag, ok := t.ByLabel(label); ok {
		return tag.ID
	}
	id := TagID(len(t.normal) + len(t.hidden) + 1)
	t.hidden = append(t.hidden, Tag{ID: id, Label: label, Hidden: true})
	return id
}

// IsNormal reports whether id names a visible tag.
func (t *Tags) IsNormal(id TagID) bool {
	return id >= 1 && int(id) <= len(t.normal)
}
