// Package gap aggregates missing-skill frequency across historical job
// comparisons into prioritized, actionable skill-gap entries.
package gap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fairyhunter13/job-match-engine/internal/detect"
	"github.com/fairyhunter13/job-match-engine/internal/domain"
	"github.com/fairyhunter13/job-match-engine/internal/skills"
)

// Priority tier thresholds over the missing-frequency ratio. Boundaries are
// strict: a skill missing from exactly 70% of comparisons is "high".
const (
	criticalRatio = 0.70
	highRatio     = 0.40
	mediumRatio   = 0.20
)

// Defaults applied when a skill is absent from the learning lexicon.
const (
	defaultDemand        = 0.5
	defaultLearningWeeks = 4
)

// defaultResources is the generic resource-list fallback.
var defaultResources = []string{
	"official documentation",
	"hands-on side project",
	"online course platforms",
}

// LearningEntry holds the lexicon's learning-time estimate and curated
// resources for one skill.
type LearningEntry struct {
	Weeks     int      `yaml:"weeks"`
	Resources []string `yaml:"resources"`
}

// Analyzer computes skill-gap reports. Demand and learning tables come from
// the lexicon configuration; synonyms merge alias counts; the detector widens
// industry filters beyond literal keyword hits.
type Analyzer struct {
	synonyms *skills.SynonymTable
	detector *detect.Detector
	demand   map[string]float64
	learning map[string]LearningEntry
}

// NewAnalyzer builds an Analyzer over the given tables. Table keys are
// normalized so lookups are case-insensitive. detector may be nil, in which
// case industry filters fall back to plain substring matching.
func NewAnalyzer(synonyms *skills.SynonymTable, detector *detect.Detector, demand map[string]float64, learning map[string]LearningEntry) *Analyzer {
	a := &Analyzer{
		synonyms: synonyms,
		detector: detector,
		demand:   make(map[string]float64, len(demand)),
		learning: make(map[string]LearningEntry, len(learning)),
	}
	for k, v := range demand {
		a.demand[skills.Normalize(k)] = v
	}
	for k, v := range learning {
		a.learning[skills.Normalize(k)] = v
	}
	return a
}

// Options narrows the analyzed comparison set.
type Options struct {
	// Industry, when non-empty, keeps only comparisons whose job text or
	// company mentions the keyword (case-insensitive).
	Industry string
}

// Analyze aggregates missing-skill frequency over the comparison batch and
// returns entries sorted by descending frequency (ties on skill name).
// An empty batch is reported as insufficient data, never as a panic or an
// empty success.
func (a *Analyzer) Analyze(comparisons []domain.Comparison, opts Options) ([]domain.SkillGapEntry, error) {
	filtered := a.filterByIndustry(comparisons, opts.Industry)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no comparisons to analyze", domain.ErrInsufficientData)
	}

	type agg struct {
		count      int
		scoreSum   float64
		scoreCount int
	}
	counts := make(map[string]*agg)
	for _, c := range filtered {
		seen := make(map[string]struct{}, len(c.MissingSkills))
		for _, raw := range c.MissingSkills {
			skill := a.synonyms.Canonical(skills.Normalize(raw))
			if skill == "" {
				continue
			}
			// A skill missing twice from one comparison still counts once.
			if _, dup := seen[skill]; dup {
				continue
			}
			seen[skill] = struct{}{}
			entry := counts[skill]
			if entry == nil {
				entry = &agg{}
				counts[skill] = entry
			}
			entry.count++
			entry.scoreSum += c.MatchScore
			entry.scoreCount++
		}
	}

	total := len(filtered)
	out := make([]domain.SkillGapEntry, 0, len(counts))
	for skill, entry := range counts {
		ratio := float64(entry.count) / float64(total)
		avgScore := entry.scoreSum / float64(entry.scoreCount)
		demand := a.demandFor(skill)
		learning := a.learningFor(skill)
		out = append(out, domain.SkillGapEntry{
			Skill:                skill,
			Frequency:            entry.count,
			FrequencyRatio:       ratio,
			Priority:             priorityFor(ratio),
			IndustryDemand:       demand,
			LearningWeeks:        learning.Weeks,
			Resources:            learning.Resources,
			ImprovementPotential: improvementPotential(entry.count, avgScore, demand),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Skill < out[j].Skill
	})
	return out, nil
}

func (a *Analyzer) filterByIndustry(comparisons []domain.Comparison, industry string) []domain.Comparison {
	kw := strings.ToLower(strings.TrimSpace(industry))
	if kw == "" {
		return comparisons
	}
	kept := make([]domain.Comparison, 0, len(comparisons))
	for _, c := range comparisons {
		haystack := strings.ToLower(c.JobTitle + " " + c.Company + " " + c.JobText)
		if strings.Contains(haystack, kw) {
			kept = append(kept, c)
			continue
		}
		// The detector catches comparisons that belong to the industry
		// without naming it, e.g. "bank teller" under "finance".
		if a.detector != nil && a.detector.DetectIndustry(haystack) == kw {
			kept = append(kept, c)
		}
	}
	return kept
}

func (a *Analyzer) demandFor(skill string) float64 {
	if d, ok := a.demand[skill]; ok {
		return d
	}
	return defaultDemand
}

func (a *Analyzer) learningFor(skill string) LearningEntry {
	if e, ok := a.learning[skill]; ok {
		if e.Weeks <= 0 {
			e.Weeks = defaultLearningWeeks
		}
		if len(e.Resources) == 0 {
			e.Resources = defaultResources
		}
		return e
	}
	return LearningEntry{Weeks: defaultLearningWeeks, Resources: defaultResources}
}

// priorityFor maps a frequency ratio to its tier. Thresholds are strict
// greater-than comparisons.
func priorityFor(ratio float64) domain.GapPriority {
	switch {
	case ratio > criticalRatio:
		return domain.PriorityCritical
	case ratio > highRatio:
		return domain.PriorityHigh
	case ratio > mediumRatio:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// improvementPotential estimates the score gain from closing one gap:
// capped occurrence weight, scaled by how poorly the affected comparisons
// matched and by industry demand.
func improvementPotential(occurrences int, avgMatchScore, demand float64) float64 {
	base := float64(occurrences) * 0.02
	if base > 0.15 {
		base = 0.15
	}
	return base * (1 - avgMatchScore) * demand
}
