// Package letter derives the author and recipients of a letter from its
// header, salutation and closing conventions
package letter

import (
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

// closings are the epistolary closing phrases, longest first so that the
// most specific phrase matches
var closings = []string{
	"mit freundlichen grüßen",
	"mit herzlichen grüßen",
	"mit den besten grüßen",
	"mit besten grüßen",
	"mit deutschem sängergruß",
	"mit treudeutschem sängergruß",
	"mit sängergruß",
	"mit sangesgruß",
	"mit vorzüglicher hochachtung",
	"mit aller hochachtung",
	"ihr sehr ergebener",
	"ihr ergebener",
	"ihre ergebene",
	"herzliche grüße",
	"viele grüße",
	"beste grüße",
	"es grüßt",
	"mit gruß",
	"hochachtungsvoll",
	"hochachtend",
	"ergebenst",
	"dein",
	"deine",
	"ihr",
	"ihre",
	"euer",
	"eure",
}

// closingForms holds every OCR variant of every closing phrase
var closingForms = func() [][]string {
	forms := make([][]string, len(closings))
	for i, c := range closings {
		forms[i] = normalizers.Variants(c)
	}
	return forms
}()

// IsClosing reports whether line is, or starts with, a closing phrase.
// Single-word closings such as "Ihr" only match a line of their own.
func IsClosing(line string) bool {
	norm := normalizers.NormalizeRole(line)
	if norm == "" {
		return false
	}
	for i, forms := range closingForms {
		single := !strings.Contains(closings[i], " ")
		for _, f := range forms {
			if norm == f || (!single && strings.HasPrefix(norm, f+" ")) {
				return true
			}
		}
	}
	return false
}

// LastClosing returns the index of the last closing line, or -1
func LastClosing(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if IsClosing(lines[i]) {
			return i
		}
	}
	return -1
}
