// Package dates parses and normalizes the dates of a document and groups
// annotated lines into events
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

var (
	dayMonthYearRe = regexp.MustCompile(`^(\d{1,2})\.\s*(\d{1,2})\.\s*(\d{4})$`)
	rangeRe        = regexp.MustCompile(`^(\d{1,2})\s*/\s*(\d{1,2})\.\s*(\d{1,2})\.\s*(\d{4})$`)
	isoRe          = regexp.MustCompile(`^(\d{4})-(\d{1,2})(?:-(\d{1,2}))?$`)
	canonicalRe    = regexp.MustCompile(`^(\d{4})(?:\.(\d{1,2})(?:\.(\d{1,2}))?)?$`)
	monthYearRe    = regexp.MustCompile(`^(\d{1,2})\.\s*(\d{4})$`)
)

// ParseWhen normalizes one encoded date. Accepted forms are D.M.YYYY,
// DD.MM.YYYY, YYYY-MM-DD, YYYY-MM, MM.YYYY, YYYY, the canonical YYYY.MM.DD
// and the range DD/DD.MM.YYYY. Impossible calendar dates are rejected.
func ParseWhen(value string) (models.DateRecord, error) {
	v := strings.TrimSpace(value)

	if m := rangeRe.FindStringSubmatch(v); m != nil {
		from, err := build(m[4], m[3], m[1])
		if err != nil {
			return models.DateRecord{}, err
		}
		to, err := build(m[4], m[3], m[2])
		if err != nil {
			return models.DateRecord{}, err
		}
		if to.Date < from.Date {
			return models.DateRecord{}, fmt.Errorf("date range %q ends before it starts", value)
		}
		from.To = to.Date
		from.DayMonthYear = pad(m[1]) + "/" + to.DayMonthYear
		return from, nil
	}
	if m := dayMonthYearRe.FindStringSubmatch(v); m != nil {
		return build(m[3], m[2], m[1])
	}
	if m := isoRe.FindStringSubmatch(v); m != nil {
		return build(m[1], m[2], m[3])
	}
	if m := monthYearRe.FindStringSubmatch(v); m != nil {
		return build(m[2], m[1], "")
	}
	if m := canonicalRe.FindStringSubmatch(v); m != nil {
		return build(m[1], m[2], m[3])
	}
	return models.DateRecord{}, fmt.Errorf("unrecognized date %q", value)
}

// build assembles a record from its parts; month and day may be empty
func build(year, month, day string) (models.DateRecord, error) {
	y, _ := strconv.Atoi(year)
	if month == "" {
		return models.DateRecord{Date: year, DayMonthYear: year, Count: 1}, nil
	}

	mo, _ := strconv.Atoi(month)
	if mo < 1 || mo > 12 {
		return models.DateRecord{}, fmt.Errorf("month %d out of range", mo)
	}
	if day == "" {
		return models.DateRecord{
			Date:         year + "." + pad(month),
			DayMonthYear: pad(month) + "." + year,
			Count:        1,
		}, nil
	}

	d, _ := strconv.Atoi(day)
	if !ValidDay(y, mo, d) {
		return models.DateRecord{}, fmt.Errorf("day %d is not valid in %04d-%02d", d, y, mo)
	}
	return models.DateRecord{
		Date:         fmt.Sprintf("%04d.%02d.%02d", y, mo, d),
		DayMonthYear: fmt.Sprintf("%02d.%02d.%04d", d, mo, y),
		Count:        1,
	}, nil
}

// ValidDay reports whether day exists in the given month
func ValidDay(year, month, day int) bool {
	if day < 1 || month < 1 || month > 12 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}

func pad(n string) string {
	if len(n) == 1 {
		return "0" + n
	}
	return n
}
