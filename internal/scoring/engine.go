package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fairyhunter13/job-match-engine/internal/detect"
	"github.com/fairyhunter13/job-match-engine/internal/domain"
	"github.com/fairyhunter13/job-match-engine/internal/skills"
)

// Weights holds the six base factor weights (must sum to exactly 1.0) and
// the separately weighted, additive embedding bonus.
type Weights struct {
	Title          float64
	Skills         float64
	Location       float64
	Salary         float64
	Recency        float64
	Company        float64
	EmbeddingBonus float64
}

// DefaultWeights returns the documented factor weights.
func DefaultWeights() Weights {
	return Weights{
		Title:          0.40,
		Skills:         0.25,
		Location:       0.10,
		Salary:         0.10,
		Recency:        0.10,
		Company:        0.05,
		EmbeddingBonus: 0.15,
	}
}

// Validate checks that the six base weights sum to 1.0.
func (w Weights) Validate() error {
	sum := w.Title + w.Skills + w.Location + w.Salary + w.Recency + w.Company
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: base factor weights sum to %.4f, want 1.0", domain.ErrInvalidArgument, sum)
	}
	return nil
}

// maxReasons caps the explanation list; the source-attribution tail entry is
// always kept.
const maxReasons = 5

// reasonSource is the fixed attribution entry that ends every reason list.
const reasonSource = "based on live data from aggregated job feeds"

// Notable thresholds for reason generation.
const (
	notableTitle     = 0.7
	notableSkills    = 0.6
	notableRecency   = 0.8
	notableEmbedding = 0.8
)

// Engine computes the weighted multi-factor score and explanation list for
// one posting. Scoring is a pure function of (profile, posting, refs, now):
// no shared state is touched, so postings can be scored concurrently.
type Engine struct {
	weights Weights
	matcher *skills.Matcher
}

// NewEngine builds an Engine. Invalid weights are rejected so a
// misconfigured deployment fails at startup, not at request time.
func NewEngine(weights Weights, matcher *skills.Matcher) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: weights, matcher: matcher}, nil
}

// Score computes the MatchResult for one posting. The total is the weighted
// sum of the six base factors plus the additive embedding bonus; it is left
// unclamped and used purely as a ranking key.
func (e *Engine) Score(profile domain.CandidateProfile, posting domain.JobPosting, refs [][]float32, now time.Time) domain.MatchResult {
	factors := domain.FactorScores{
		TitleMatch:  e.titleMatch(profile.TargetTitles, posting.Title),
		LocationFit: locationFit(profile, posting),
		SalaryFit:   salaryFit(profile, posting),
		Recency:     recency(posting.PostedAt, now),
		CompanyPref: companyPref(profile, posting.Company),
		Embedding:   MaxSimilarity(posting.Embedding, refs),
	}
	var matched []string
	factors.SkillOverlap, matched = e.skillOverlap(profile.Skills, posting.Tags)

	w := e.weights
	total := factors.TitleMatch*w.Title +
		factors.SkillOverlap*w.Skills +
		factors.LocationFit*w.Location +
		factors.SalaryFit*w.Salary +
		factors.Recency*w.Recency +
		factors.CompanyPref*w.Company +
		factors.Embedding*w.EmbeddingBonus

	return domain.MatchResult{
		PostingID: posting.ExternalID,
		Score:     total,
		Factors:   factors,
		Reasons:   reasons(factors, matched, profile, posting, now),
	}
}

// titleMatch: exact equality 1.0, substring containment either direction
// 0.8, otherwise the best token-overlap (Jaccard) ratio scaled by 0.6.
// With no target titles supplied the factor is neutral at 0.5.
func (e *Engine) titleMatch(targets []string, title string) float64 {
	if len(targets) == 0 {
		return 0.5
	}
	t := skills.Normalize(title)
	best := 0.0
	for _, target := range targets {
		g := skills.Normalize(target)
		if g == "" {
			continue
		}
		switch {
		case g == t:
			return 1.0
		case strings.Contains(t, g) || strings.Contains(g, t):
			if best < 0.8 {
				best = 0.8
			}
		default:
			if s := tokenOverlap(g, t) * 0.6; s > best {
				best = s
			}
		}
	}
	return best
}

// tokenOverlap is the Jaccard ratio of the two token sets.
func tokenOverlap(a, b string) float64 {
	ta, tb := skills.Tokens(a), skills.Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(ta))
	for _, tok := range ta {
		set[tok] = struct{}{}
	}
	inter := 0
	seen := make(map[string]struct{}, len(tb))
	for _, tok := range tb {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := set[tok]; ok {
			inter++
		}
	}
	union := len(set) + len(seen) - inter
	return float64(inter) / float64(union)
}

// skillOverlap is |intersection| / |candidate skills|, with an exact or
// synonym tier match counting as membership. Empty intersection scores 0.2;
// no skills on either side scores the neutral 0.3.
func (e *Engine) skillOverlap(candidateSkills, tags []string) (float64, []string) {
	if len(candidateSkills) == 0 || len(tags) == 0 {
		return 0.3, nil
	}
	var matched []string
	for _, skill := range candidateSkills {
		rec, ok := e.matcher.Match(skill, tags)
		if ok && rec.Confidence >= 0.95 {
			matched = append(matched, skill)
		}
	}
	if len(matched) == 0 {
		return 0.2, nil
	}
	return float64(len(matched)) / float64(len(candidateSkills)), matched
}

func locationFit(profile domain.CandidateProfile, p domain.JobPosting) float64 {
	if p.Remote && profile.RemoteOK {
		return 1.0
	}
	pref := strings.TrimSpace(profile.LocationPreference)
	if pref == "" {
		if p.Remote {
			return 0.7
		}
		return 0.5
	}
	if p.Location == "" {
		return 0.5
	}
	if locationMatches(pref, p.Location) {
		return 1.0
	}
	return 0.3
}

func salaryFit(profile domain.CandidateProfile, p domain.JobPosting) float64 {
	if profile.SalaryMin == nil {
		return 0.7
	}
	best, known := bestSalary(p)
	if !known {
		return 0.5
	}
	floor := *profile.SalaryMin
	switch {
	case best >= floor*1.2:
		return 1.0
	case best >= floor:
		return 0.8
	default:
		return 0.2
	}
}

func recency(postedAt *time.Time, now time.Time) float64 {
	if postedAt == nil {
		return 0.3
	}
	age := now.Sub(*postedAt)
	switch {
	case age <= 24*time.Hour:
		return 1.0
	case age <= 3*24*time.Hour:
		return 0.9
	case age <= 7*24*time.Hour:
		return 0.7
	case age <= 14*24*time.Hour:
		return 0.5
	default:
		return 0.3
	}
}

// companyPref: the blocked branch is defensive; blocked companies should
// already have been filtered out.
func companyPref(profile domain.CandidateProfile, company string) float64 {
	switch {
	case companyListed(company, profile.PreferredCompanies):
		return 1.0
	case companyListed(company, profile.BlockedCompanies):
		return 0.0
	default:
		return 0.7
	}
}

// reasons walks the factors in evaluation order and appends a human-readable
// entry for each notable one, ending with the fixed source attribution. The
// list is truncated to maxReasons entries, attribution always kept.
func reasons(f domain.FactorScores, matched []string, profile domain.CandidateProfile, p domain.JobPosting, now time.Time) []string {
	var out []string
	if f.TitleMatch > notableTitle {
		out = append(out, "strong title match")
	}
	if f.SkillOverlap > notableSkills && len(matched) > 0 {
		names := matched
		if len(names) > 3 {
			names = names[:3]
		}
		out = append(out, "matches your skills: "+strings.Join(names, ", "))
	}
	if p.Remote {
		out = append(out, "remote work available")
	}
	if f.Recency > notableRecency && p.PostedAt != nil {
		days := int(now.Sub(*p.PostedAt).Hours() / 24)
		out = append(out, fmt.Sprintf("recently posted %d days ago", days))
	}
	if f.Embedding > notableEmbedding {
		out = append(out, "high similarity to your profile")
	}
	if level := seniorityAligned(profile.TargetTitles, p.Title); level != "" {
		out = append(out, level+" role matches your target seniority")
	}
	if len(out) >= maxReasons {
		out = out[:maxReasons-1]
	}
	return append(out, reasonSource)
}

// seniorityAligned reports the shared role level when the posting title and
// at least one target title carry the same explicit seniority marker. The
// "mid" default is not a marker, so untagged titles never align.
func seniorityAligned(targets []string, title string) string {
	level := detect.DetectRoleLevel(title)
	if level == detect.LevelMid {
		return ""
	}
	for _, t := range targets {
		if detect.DetectRoleLevel(t) == level {
			return level
		}
	}
	return ""
}
