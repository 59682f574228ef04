// Package sanitize neutralizes HTML-special characters in request input
// before it reaches business logic. Sanitization is idempotent: running it
// over already-encoded text leaves the text unchanged.
package sanitize

import (
	"strings"
)

// knownEntities are the encodings produced by String. An ampersand that
// already starts one of these is left alone so repeated passes are no-ops.
var knownEntities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#39;"}

func startsKnownEntity(s string) bool {
	for _, e := range knownEntities {
		if strings.HasPrefix(s, e) {
			return true
		}
	}
	return false
}

// String trims surrounding whitespace and replaces < > " ' with HTML
// entities. Ampersands are encoded only when they do not already begin
// an entity produced by a previous pass.
func String(s string) string {
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		case '&':
			if startsKnownEntity(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Strings sanitizes every element of a slice in place and returns it.
func Strings(in []string) []string {
	for i, s := range in {
		in[i] = String(s)
	}
	return in
}

// Map sanitizes every string value of a map, recursing into nested maps
// and slices. Keys and non-string values pass through unchanged.
func Map(in map[string]any) map[string]any {
	for k, v := range in {
		in[k] = Value(v)
	}
	return in
}

// Value sanitizes an arbitrary decoded JSON value: strings are encoded,
// slices and maps are walked element-wise, everything else passes through.
func Value(v any) any {
	switch t := v.(type) {
	case string:
		return String(t)
	case []any:
		for i, e := range t {
			t[i] = Value(e)
		}
		return t
	case []string:
		return Strings(t)
	case map[string]any:
		return Map(t)
	default:
		return v
	}
}
