package models

// ObjectTypeDocument is the object_type of every enriched record
const ObjectTypeDocument = "Document"

// Document is the enriched per-document record
type Document struct {
	ObjectType             string            `json:"object_type"`
	Attributes             map[string]string `json:"attributes"`
	Authors                []Person          `json:"authors"`
	Recipients             []Person          `json:"recipients"`
	MentionedPersons       []Person          `json:"mentioned_persons"`
	MentionedOrganizations []Organization    `json:"mentioned_organizations"`
	MentionedEvents        []Event           `json:"mentioned_events"`
	CreationDate           string            `json:"creation_date"`
	CreationPlace          string            `json:"creation_place"`
	MentionedDates         []DateRecord      `json:"mentioned_dates"`
	MentionedPlaces        []Place           `json:"mentioned_places"`
	ContentTagsInGerman    []string          `json:"content_tags_in_german"`
	ContentTranscription   string            `json:"content_transcription"`
	DocumentType           string            `json:"document_type"`
	DocumentFormat         string            `json:"document_format"`
}

// NewDocument returns a document whose collections serialize as empty arrays
func NewDocument() *Document {
	return &Document{
		ObjectType:             ObjectTypeDocument,
		Attributes:             map[string]string{},
		Authors:                []Person{},
		Recipients:             []Person{},
		MentionedPersons:       []Person{},
		MentionedOrganizations: []Organization{},
		MentionedEvents:        []Event{},
		MentionedDates:         []DateRecord{},
		MentionedPlaces:        []Place{},
		ContentTagsInGerman:    []string{},
	}
}
