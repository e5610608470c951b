package entity

import "strings"

// Tag classifies a lead. Only the enrichment process writes it.
type Tag string

const (
	TagPricing    Tag = "pricing"
	TagDemo       Tag = "demo"
	TagSupport    Tag = "support"
	TagEnterprise Tag = "enterprise"
	TagGeneral    Tag = "general"
)

func Tags() []Tag {
	return []Tag{TagPricing, TagDemo, TagSupport, TagEnterprise, TagGeneral}
}

func (t Tag) Valid() bool {
	for _, v := range Tags() {
		if t == v {
			return true
		}
	}
	return false
}

// ParseTag maps free text to a tag, falling back to general.
func ParseTag(raw string) Tag {
	t := Tag(strings.Trim(strings.ToLower(strings.TrimSpace(raw)), `".`))
	if t.Valid() {
		return t
	}
	return TagGeneral
}
