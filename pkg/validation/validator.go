// Package validation checks the cross-field invariants of an enriched document
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Gobusters/ectolinq"

	"github.com/Ramsey-B/sorrel/pkg/dates"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

// DocumentTypes is the controlled vocabulary of document types
var DocumentTypes = []string{"letter", "postcard", "minutes", "circular", "invitation", "programme", "report", "clipping", "other"}

// DocumentFormats is the controlled vocabulary of document formats
var DocumentFormats = []string{"handwritten", "typed", "printed", "mixed"}

// recipientTypes require at least one named recipient
var recipientTypes = []string{"letter", "postcard"}

// fillerNames are tokens that never name a person
var fillerNames = map[string]bool{
	"the": true, "mr": true, "mrs": true, "herr": true, "herrn": true, "frau": true,
	"fräulein": true, "der": true, "die": true, "das": true, "und": true,
	"unknown": true, "unbekannt": true, "nn": true, "n n": true,
}

var creationDateRe = regexp.MustCompile(`^\d{4}(\.\d{2}(\.\d{2})?)?$`)

// Errors maps a field name to its human-readable problems. Empty means valid.
type Errors map[string][]string

// Add records a problem with field
func (e Errors) Add(field, format string, args ...any) {
	e[field] = append(e[field], fmt.Sprintf(format, args...))
}

// Valid reports whether no problem was recorded
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Validate checks doc and returns every problem found. doc is not modified.
func Validate(doc *models.Document) Errors {
	errs := Errors{}
	if doc == nil {
		errs.Add("document", "document is missing")
		return errs
	}

	validateCreationDate(doc.CreationDate, errs)

	if strings.TrimSpace(doc.CreationPlace) == "" {
		errs.Add("creation_place", "creation place is empty")
	}

	docType := strings.ToLower(strings.TrimSpace(doc.DocumentType))
	switch {
	case docType == "":
		errs.Add("document_type", "document type is not set")
	case !ectolinq.Contains(DocumentTypes, docType):
		errs.Add("document_type", "unknown document type %q", doc.DocumentType)
	}

	if format := strings.ToLower(strings.TrimSpace(doc.DocumentFormat)); format != "" && !ectolinq.Contains(DocumentFormats, format) {
		errs.Add("document_format", "unknown document format %q", doc.DocumentFormat)
	}

	if ectolinq.Contains(recipientTypes, docType) {
		named := ectolinq.Filter(doc.Recipients, func(p models.Person) bool {
			return p.HasName() && !IsFillerName(p)
		})
		if len(named) == 0 {
			errs.Add("recipients", "a %s needs at least one recipient with a name", docType)
		}
	}

	for i, p := range doc.MentionedPlaces {
		if p.GeonamesID == "" && p.WikidataID == "" {
			errs.Add("mentioned_places", "place %d (%s) has no geographic identifier", i, p.Name)
		}
		if p.RegistryID == "" {
			errs.Add("mentioned_places", "place %d (%s) has no registry identifier", i, p.Name)
		}
	}

	for i, p := range doc.MentionedPersons {
		if IsFillerName(p) {
			errs.Add("mentioned_persons", "person %d name %q is a filler token", i, p.FullName())
		}
	}

	return errs
}

// IsFillerName reports whether the person's name is a filler token
func IsFillerName(p models.Person) bool {
	key := strings.Join(strings.Fields(normalizers.Lowercase(normalizers.RemovePunctuation(p.FullName()))), " ")
	return fillerNames[key]
}

func validateCreationDate(value string, errs Errors) {
	if value == "" {
		return
	}
	if !creationDateRe.MatchString(value) {
		errs.Add("creation_date", "creation date %q is not in YYYY.MM.DD, YYYY.MM or YYYY form", value)
		return
	}

	parts := strings.Split(value, ".")
	year, _ := strconv.Atoi(parts[0])
	if len(parts) > 1 {
		month, _ := strconv.Atoi(parts[1])
		if month < 1 || month > 12 {
			errs.Add("creation_date", "creation date %q has an invalid month", value)
			return
		}
		if len(parts) > 2 {
			day, _ := strconv.Atoi(parts[2])
			if !dates.ValidDay(year, month, day) {
				errs.Add("creation_date", "creation date %q is not a calendar date", value)
			}
		}
	}
}
