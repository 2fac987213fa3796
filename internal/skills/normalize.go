// Package skills implements text normalization, skill extraction, and the
// tiered skill matcher used by the scoring engine and the gap analyzer.
package skills

import "strings"

// Normalize lowercases text, collapses runs of whitespace, and strips any
// character outside letters, digits, and ` .,;:#+-`. The kept punctuation
// preserves tokens like "c++", "c#", and "node.js".
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9',
			r == '.', r == ',', r == ';', r == ':', r == '#', r == '+', r == '-':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits normalized text into whitespace-separated tokens with
// trailing sentence punctuation removed.
func Tokens(normalized string) []string {
	fields := strings.Fields(normalized)
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,;:")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
