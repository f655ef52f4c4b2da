// Package annotation parses inline transcript markup of the form
// `kind {key:value; key:value;}` and turns entity spans into mentions.
package annotation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tag is one annotation group
type Tag struct {
	Kind       string
	Attributes map[string]string
}

// Attr returns an attribute value or ""
func (t Tag) Attr(key string) string {
	return t.Attributes[key]
}

// ParseCustom parses every annotation group of one line. Several groups may
// follow each other; the trailing semicolon inside a group is optional.
func ParseCustom(s string) ([]Tag, error) {
	var tags []Tag
	rest := strings.TrimSpace(s)

	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return tags, fmt.Errorf("annotation %q has no opening brace", rest)
		}
		kind := strings.TrimSpace(rest[:open])
		if kind == "" || strings.ContainsFunc(kind, unicode.IsSpace) {
			return tags, fmt.Errorf("invalid annotation kind %q", kind)
		}

		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return tags, fmt.Errorf("annotation %q is not closed", kind)
		}
		body := rest[open+1 : open+end]

		attrs, err := parseBody(body)
		if err != nil {
			return tags, fmt.Errorf("annotation %q: %w", kind, err)
		}
		tags = append(tags, Tag{Kind: kind, Attributes: attrs})
		rest = strings.TrimSpace(rest[open+end+1:])
	}

	return tags, nil
}

func parseBody(body string) (map[string]string, error) {
	attrs := make(map[string]string)
	for _, pair := range strings.Split(body, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("attribute %q has no value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("attribute %q has no key", pair)
		}
		attrs[key] = unescape(strings.TrimSpace(value))
	}
	return attrs, nil
}

// unescape decodes \uXXXX sequences; anything unparsable is kept verbatim
func unescape(s string) string {
	if !strings.Contains(s, `\u`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if i+6 <= len(s) && s[i] == '\\' && s[i+1] == 'u' {
			if code, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil && utf8.ValidRune(rune(code)) {
				b.WriteRune(rune(code))
				i += 6
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
