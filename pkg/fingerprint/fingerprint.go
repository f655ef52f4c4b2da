// Package fingerprint computes stable content hashes for registry snapshots
// and enriched documents
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Of fingerprints any JSON-serializable value. Map keys are sorted so the
// result does not depend on field or map order.
func Of(v any, excludeFields ...string) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal value for fingerprint: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("failed to decode value for fingerprint: %w", err)
	}

	exclude := make(map[string]bool, len(excludeFields))
	for _, f := range excludeFields {
		exclude[f] = true
	}

	var b strings.Builder
	canonicalize(&b, generic, exclude, "")
	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:]), nil
}

// HasChanged compares two fingerprints to detect changes
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}

// canonicalize writes a deterministic representation of data.
// currentPath tracks the dot-notation path for nested field exclusion.
func canonicalize(b *strings.Builder, data any, exclude map[string]bool, currentPath string) {
	switch v := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('{')
		first := true
		for _, k := range keys {
			fieldPath := k
			if currentPath != "" {
				fieldPath = currentPath + "." + k
			}
			if excluded(fieldPath, exclude) {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			keyJSON, _ := json.Marshal(k)
			b.Write(keyJSON)
			b.WriteByte(':')
			canonicalize(b, v[k], exclude, fieldPath)
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			// array elements share their parent's path
			canonicalize(b, item, exclude, currentPath)
		}
		b.WriteByte(']')
	default:
		raw, _ := json.Marshal(v)
		b.Write(raw)
	}
}

func excluded(fieldPath string, exclude map[string]bool) bool {
	if len(exclude) == 0 {
		return false
	}
	if exclude[fieldPath] {
		return true
	}
	for e := range exclude {
		if strings.HasPrefix(fieldPath, e+".") {
			return true
		}
	}
	return false
}
