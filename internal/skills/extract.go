package skills

import (
	"strings"
	"unicode"
)

// Extractor pulls skill tokens out of free text using the configured skill
// lexicon, a proper-noun fallback, and synonym expansion.
type Extractor struct {
	lexicon  []string
	synonyms *SynonymTable
}

// NewExtractor builds an Extractor over the given lexicon of known skill
// names and synonym table. Lexicon entries are normalized once up front.
func NewExtractor(lexicon []string, synonyms *SynonymTable) *Extractor {
	normalized := make([]string, 0, len(lexicon))
	seen := make(map[string]struct{}, len(lexicon))
	for _, s := range lexicon {
		n := Normalize(s)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	return &Extractor{lexicon: normalized, synonyms: synonyms}
}

// Extract returns the de-duplicated skills found in text: lexicon hits
// first, then proper-noun-like fallback tokens, each expanded through the
// synonym table. Output order is deterministic (lexicon order, then token
// order of first appearance).
func (e *Extractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	normalized := Normalize(text)

	var out []string
	seen := make(map[string]struct{})
	add := func(skill string) {
		if _, dup := seen[skill]; dup {
			return
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
		for _, alias := range e.synonyms.Aliases(skill) {
			if _, dup := seen[alias]; !dup {
				seen[alias] = struct{}{}
				out = append(out, alias)
			}
		}
	}

	for _, skill := range e.lexicon {
		if containsSkill(normalized, skill) {
			add(skill)
		}
	}
	for _, tok := range properNounTokens(text) {
		add(tok)
	}
	return out
}

// containsSkill reports whether the normalized text contains the skill with
// word-ish boundaries, so "java" does not fire inside "javascript".
func containsSkill(normalized, skill string) bool {
	for start := 0; ; {
		i := strings.Index(normalized[start:], skill)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(skill)
		leftOK := i == 0 || !isWordChar(rune(normalized[i-1]))
		rightOK := end == len(normalized) || !isWordChar(rune(normalized[end]))
		if leftOK && rightOK {
			return true
		}
		start = i + 1
	}
}

func isWordChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
}

// properNounTokens captures capitalized tokens from the raw text as a
// generic fallback for skills missing from the lexicon: length > 2, not
// purely numeric, lowercased on output.
func properNounTokens(text string) []string {
	var out []string
	for _, field := range strings.Fields(text) {
		word := strings.Trim(field, ".,;:()[]{}\"'!?")
		runes := []rune(word)
		if len(runes) <= 2 {
			continue
		}
		if !unicode.IsUpper(runes[0]) {
			continue
		}
		numeric := true
		for _, r := range runes[1:] {
			if !unicode.IsDigit(r) {
				numeric = false
				break
			}
		}
		if numeric {
			continue
		}
		out = append(out, strings.ToLower(word))
	}
	return out
}
