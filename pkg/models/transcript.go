package models

// Line is one transcript line with its raw annotation string
type Line struct {
	Text   string `json:"text"`
	Custom string `json:"custom"`
}

// Transcript is the raw input for one document
type Transcript struct {
	ID             string            `json:"id" validate:"required"`
	Attributes     map[string]string `json:"attributes"`
	Lines          []Line            `json:"lines" validate:"required,min=1"`
	Prior          *Document         `json:"prior,omitempty"`
	DocumentType   string            `json:"document_type"`
	DocumentFormat string            `json:"document_format"`
	ContentTags    []string          `json:"content_tags"`
}

// Texts returns the plain text of every line
func (t Transcript) Texts() []string {
	out := make([]string, len(t.Lines))
	for i, l := range t.Lines {
		out[i] = l.Text
	}
	return out
}
