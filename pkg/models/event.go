package models

// Event is a contiguous block of annotated lines describing one occurrence
type Event struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Date          string         `json:"date"`
	Persons       []Person       `json:"persons"`
	Places        []Place        `json:"places"`
	Organizations []Organization `json:"organizations"`
	StartLine     int            `json:"start_line"`
	EndLine       int            `json:"end_line"`
}

// DateRecord is a normalized date occurring in a document. Date and To use
// the canonical YYYY.MM.DD form, partial dates drop the trailing parts.
type DateRecord struct {
	Date         string `json:"date"`
	DayMonthYear string `json:"day_month_year"`
	To           string `json:"to"`
	Count        int    `json:"count"`
}

// Key identifies a date record for deduplication
func (d DateRecord) Key() string {
	if d.To == "" {
		return d.Date
	}
	return d.Date + "/" + d.To
}
