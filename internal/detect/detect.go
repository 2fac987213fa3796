// Package detect heuristically classifies free text into an industry
// category and a seniority level from configurable keyword lexicons.
package detect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fairyhunter13/job-match-engine/internal/skills"
)

// DefaultIndustry is returned on keyword ties and when nothing matches.
const DefaultIndustry = "default"

// Seniority levels recognized by DetectRoleLevel.
const (
	LevelEntry     = "entry"
	LevelMid       = "mid"
	LevelSenior    = "senior"
	LevelExecutive = "executive"
)

// Detector scores fixed keyword bags per industry category. The bags come
// from the lexicon configuration so they can be extended without a rebuild.
type Detector struct {
	industries map[string][]string
	order      []string
}

// NewDetector builds a Detector. Industry iteration order is sorted so that
// equal-hit ties resolve deterministically (and then fall to "default").
func NewDetector(industries map[string][]string) *Detector {
	d := &Detector{industries: make(map[string][]string, len(industries))}
	for name, bag := range industries {
		normalized := make([]string, 0, len(bag))
		for _, kw := range bag {
			if n := skills.Normalize(kw); n != "" {
				normalized = append(normalized, n)
			}
		}
		d.industries[name] = normalized
		d.order = append(d.order, name)
	}
	sort.Strings(d.order)
	return d
}

// DetectIndustry picks the category with the highest keyword hit count over
// the text. Zero hits everywhere, or a tie for the top count, resolves to
// DefaultIndustry.
func (d *Detector) DetectIndustry(text string) string {
	normalized := skills.Normalize(text)
	if normalized == "" {
		return DefaultIndustry
	}

	best, bestHits, tied := DefaultIndustry, 0, false
	for _, name := range d.order {
		hits := 0
		for _, kw := range d.industries[name] {
			if strings.Contains(normalized, kw) {
				hits++
			}
		}
		switch {
		case hits > bestHits:
			best, bestHits, tied = name, hits, false
		case hits == bestHits && hits > 0:
			tied = true
		}
	}
	if bestHits == 0 || tied {
		return DefaultIndustry
	}
	return best
}

// roleLexicon is evaluated in order; the first level with a keyword hit
// wins. Executive outranks senior so "vp of engineering" is not read as mid.
var roleLexicon = []struct {
	level    string
	keywords []string
}{
	{LevelExecutive, []string{"chief", "cto", "ceo", "cio", "vp ", "vice president", "director", "head of", "executive"}},
	{LevelSenior, []string{"senior", "sr.", "sr ", "staff", "principal", "lead", "architect"}},
	{LevelEntry, []string{"junior", "jr.", "jr ", "intern", "graduate", "entry", "trainee", "associate"}},
	{LevelMid, []string{"mid-level", "mid level", "intermediate"}},
}

// levelNumeral matches numeric/roman level suffixes like "engineer iii" or
// "developer 2".
var levelNumeral = regexp.MustCompile(`\b(i{1,3}|iv|v|\d)\b\s*$`)

// DetectRoleLevel classifies a title into entry/mid/senior/executive.
// Unmatched titles fall back to a trailing numeral heuristic and finally
// default to "mid".
func DetectRoleLevel(title string) string {
	normalized := skills.Normalize(title)
	if normalized == "" {
		return LevelMid
	}
	padded := normalized + " "
	for _, entry := range roleLexicon {
		for _, kw := range entry.keywords {
			if strings.Contains(padded, kw) {
				return entry.level
			}
		}
	}
	if m := levelNumeral.FindString(normalized); m != "" {
		switch strings.TrimSpace(m) {
		case "1", "i":
			return LevelEntry
		case "2", "ii":
			return LevelMid
		default:
			return LevelSenior
		}
	}
	return LevelMid
}
