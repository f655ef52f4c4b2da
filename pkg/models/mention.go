package models

// MentionKind is the entity kind of an annotated span
type MentionKind string

const (
	MentionPerson       MentionKind = "person"
	MentionPlace        MentionKind = "place"
	MentionOrganization MentionKind = "organization"
	MentionDate         MentionKind = "date"
	MentionEvent        MentionKind = "event"
	MentionRole         MentionKind = "role"
)

// IsEntity reports whether k is one of the kinds the pipeline resolves
func (k MentionKind) IsEntity() bool {
	switch k {
	case MentionPerson, MentionPlace, MentionOrganization, MentionDate, MentionEvent, MentionRole:
		return true
	}
	return false
}

// Mention is a raw annotated span within one transcript line
type Mention struct {
	Kind       MentionKind       `json:"kind"`
	Text       string            `json:"text"`
	Offset     int               `json:"offset"`
	Length     int               `json:"length"`
	Line       int               `json:"line"`
	LineText   string            `json:"line_text"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Attr returns an annotation attribute or ""
func (m Mention) Attr(key string) string {
	if m.Attributes == nil {
		return ""
	}
	return m.Attributes[key]
}

// End is the rune offset just past the span
func (m Mention) End() int {
	return m.Offset + m.Length
}
