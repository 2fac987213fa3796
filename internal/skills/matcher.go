package skills

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/fairyhunter13/job-match-engine/internal/domain"
)

// Confidence assigned to each match tier. The fuzzy tier carries the raw
// similarity ratio instead and is only accepted at or above fuzzyThreshold.
const (
	confidenceExact   = 1.0
	confidenceSynonym = 0.95
	confidencePartial = 0.8
	fuzzyThreshold    = 0.70
)

// criticalWindow is the number of characters around a skill mention that is
// searched for an emphasis marker.
const criticalWindow = 60

// Matcher finds the best match for a target skill within a candidate set
// using a tiered confidence model: exact, synonym, substring, fuzzy.
type Matcher struct {
	synonyms *SynonymTable
	emphasis []string
}

// NewMatcher builds a Matcher over the given synonym table and emphasis
// marker vocabulary (used by Critical).
func NewMatcher(synonyms *SynonymTable, emphasisMarkers []string) *Matcher {
	markers := make([]string, 0, len(emphasisMarkers))
	for _, m := range emphasisMarkers {
		if n := Normalize(m); n != "" {
			markers = append(markers, n)
		}
	}
	return &Matcher{synonyms: synonyms, emphasis: markers}
}

// Match returns the highest-confidence match for target across candidates,
// or false when no candidate reaches the fuzzy acceptance threshold.
// Candidates tied on confidence resolve to the earliest one.
func (m *Matcher) Match(target string, candidates []string) (domain.MatchRecord, bool) {
	t := Normalize(target)
	if t == "" {
		return domain.MatchRecord{}, false
	}

	best := domain.MatchRecord{}
	found := false
	for _, raw := range candidates {
		c := Normalize(raw)
		if c == "" {
			continue
		}
		rec, ok := m.matchOne(t, c, raw)
		if !ok {
			continue
		}
		if !found || rec.Confidence > best.Confidence {
			best = rec
			found = true
		}
	}
	return best, found
}

func (m *Matcher) matchOne(target, candidate, original string) (domain.MatchRecord, bool) {
	if target == candidate {
		return domain.MatchRecord{Skill: original, Confidence: confidenceExact, Tier: domain.TierExact}, true
	}
	if m.synonyms.SameGroup(target, candidate) {
		return domain.MatchRecord{Skill: original, Confidence: confidenceSynonym, Tier: domain.TierSynonym}, true
	}
	if strings.Contains(target, candidate) || strings.Contains(candidate, target) {
		return domain.MatchRecord{Skill: original, Confidence: confidencePartial, Tier: domain.TierPartial}, true
	}
	if ratio := similarityRatio(target, candidate); ratio >= fuzzyThreshold {
		return domain.MatchRecord{Skill: original, Confidence: ratio, Tier: domain.TierFuzzy}, true
	}
	return domain.MatchRecord{}, false
}

// similarityRatio converts edit distance into a [0,1] similarity over the
// longer string.
func similarityRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// Critical reports whether the skill co-occurs with any emphasis marker
// ("required", "must have", ...) within a fixed character window of one of
// its mentions in the text.
func (m *Matcher) Critical(text, skill string) bool {
	normalized := Normalize(text)
	s := Normalize(skill)
	if normalized == "" || s == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(normalized[start:], s)
		if i < 0 {
			return false
		}
		i += start
		lo := i - criticalWindow
		if lo < 0 {
			lo = 0
		}
		hi := i + len(s) + criticalWindow
		if hi > len(normalized) {
			hi = len(normalized)
		}
		window := normalized[lo:hi]
		for _, marker := range m.emphasis {
			if strings.Contains(window, marker) {
				return true
			}
		}
		start = i + 1
	}
}
