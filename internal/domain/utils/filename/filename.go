package filename

import (
	"fmt"
	"strings"
	"unicode"
)

// Fallback returns the index-based base name used when the payload cannot name the file.
func Fallback(index int) string {
	return fmt.Sprintf("qr_code_%d", index)
}

// Sanitize keeps letters, numbers, space, '-', '_' and '.', then drops trailing periods.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), ".")
}

// Synthesize returns a filesystem-safe base name without extension.
// Identical inputs yield identical names; uniqueness is the caller's concern.
func Synthesize(payload, prefix, suffix string, usePayloadAsBase bool, index int) string {
	base := Fallback(index)
	if usePayloadAsBase {
		if safe := Sanitize(payload); safe != "" {
			base = safe
		}
	}

	parts := make([]string, 0, 3)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, base)
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, "_")
}
