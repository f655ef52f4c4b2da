package dates

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// headingLimit is the number of leading lines searched for a dated heading
const headingLimit = 8

// months maps German (and a few period or abbreviated) month names to numbers
var months = map[string]int{
	"januar": 1, "jänner": 1, "jan": 1,
	"februar": 2, "feber": 2, "feb": 2, "febr": 2,
	"märz": 3, "maerz": 3, "mär": 3, "mrz": 3,
	"april": 4, "apr": 4,
	"mai": 5,
	"juni": 6, "jun": 6,
	"juli": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sept": 9, "sep": 9,
	"oktober": 10, "october": 10, "okt": 10,
	"november": 11, "nov": 11,
	"dezember": 12, "december": 12, "dez": 12,
}

var (
	// "Stuttgart, den 28. Mai 1942" or "Esslingen a.N., 3.5.1942"
	headingRe = regexp.MustCompile(`^(\p{Lu}[\p{L}.\- ]*?)\s*,\s*(?:(?:den|am)\s+)?(\d{1,2})\.\s*(\p{L}+\.?|\d{1,2}\.)\s*(\d{4})`)
	// "28. Mai" or "28.5." inside running text
	dayMonthRe = regexp.MustCompile(`\b(\d{1,2})\.\s*(\p{L}+|\d{1,2}\.)`)
)

// Heading is the creation date and place of a letter
type Heading struct {
	Place string
	Date  models.DateRecord
	Line  int
}

// HeadingDate finds a "Place, den D. Month YYYY" heading among the first lines
func HeadingDate(lines []string) (Heading, bool) {
	for i := 0; i < len(lines) && i < headingLimit; i++ {
		m := headingRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		month, ok := monthNumber(m[3])
		if !ok {
			continue
		}
		rec, err := build(m[4], strconv.Itoa(month), m[2])
		if err != nil {
			continue
		}
		return Heading{Place: strings.TrimSpace(m[1]), Date: rec, Line: i}, true
	}
	return Heading{}, false
}

// InlineDayMonth finds the first "D. Month" or "D.M." token in text. When
// year is known the full canonical date is returned, otherwise the zero
// padded "DD.MM." form.
func InlineDayMonth(text, year string) (string, bool) {
	for _, m := range dayMonthRe.FindAllStringSubmatch(text, -1) {
		month, ok := monthNumber(m[2])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		if year != "" {
			if rec, err := build(year, strconv.Itoa(month), m[1]); err == nil {
				return rec.Date, true
			}
			continue
		}
		if ValidDay(2000, month, day) {
			return pad(m[1]) + "." + pad(strconv.Itoa(month)) + ".", true
		}
	}
	return "", false
}

func monthNumber(token string) (int, bool) {
	t := strings.ToLower(strings.TrimSuffix(token, "."))
	if n, err := strconv.Atoi(t); err == nil {
		return n, n >= 1 && n <= 12
	}
	n, ok := months[t]
	return n, ok
}
