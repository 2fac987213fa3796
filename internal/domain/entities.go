// Package domain defines the core entities, error taxonomy, and ports of the
// job-candidate matching engine. It depends on nothing outside the standard
// library so that the scoring core stays pure and collaborator-agnostic.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrRateLimited      = errors.New("rate limited")
	ErrInsufficientData = errors.New("insufficient data")
	ErrInternal         = errors.New("internal error")
)

// CandidateProfile holds a candidate's stored search preferences.
// A missing profile is never an error: DefaultProfile synthesizes one.
type CandidateProfile struct {
	UserID             string   `json:"user_id"`
	Skills             []string `json:"skills,omitempty"`
	TargetTitles       []string `json:"target_titles,omitempty"`
	LocationPreference string   `json:"location_preference,omitempty"`
	RemoteOK           bool     `json:"remote_ok"`
	SalaryMin          *float64 `json:"salary_min,omitempty"`
	BlockedCompanies   []string `json:"blocked_companies,omitempty"`
	PreferredCompanies []string `json:"preferred_companies,omitempty"`
}

// DefaultProfile returns the synthesized profile used when no stored
// preferences exist: empty skill set, remote work acceptable.
func DefaultProfile(userID string) CandidateProfile {
	return CandidateProfile{UserID: userID, RemoteOK: true}
}

// JobPosting is one externally sourced job opening. Embedding is populated
// asynchronously by the ingestion feed and may be nil at scoring time.
type JobPosting struct {
	ExternalID string     `json:"external_id"`
	Title      string     `json:"title"`
	Company    string     `json:"company"`
	Location   string     `json:"location,omitempty"`
	Remote     bool       `json:"remote"`
	SalaryMin  *float64   `json:"salary_min,omitempty"`
	SalaryMax  *float64   `json:"salary_max,omitempty"`
	Currency   string     `json:"currency,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Snippet    string     `json:"snippet,omitempty"`
	URL        string     `json:"url"`
	PostedAt   *time.Time `json:"posted_at,omitempty"`
	Embedding  []float32  `json:"embedding,omitempty"`
}

// FactorScores are the six named per-factor subscores, each in [0,1], plus
// the additive embedding bonus contribution.
type FactorScores struct {
	TitleMatch   float64 `json:"title_match"`
	SkillOverlap float64 `json:"skill_overlap"`
	LocationFit  float64 `json:"location_fit"`
	SalaryFit    float64 `json:"salary_fit"`
	Recency      float64 `json:"recency"`
	CompanyPref  float64 `json:"company_pref"`
	Embedding    float64 `json:"embedding"`
}

// MatchResult is one scored, explained posting. It is generated fresh per
// request and never persisted; callers may cache it with a short TTL.
// Score is a pure ranking key and is not clamped to [0,1]: the embedding
// bonus is added on top of a base sum whose weights already total 1.0.
type MatchResult struct {
	PostingID string       `json:"posting_id"`
	Score     float64      `json:"score"`
	Factors   FactorScores `json:"factors"`
	Reasons   []string     `json:"reasons"`
}

// MatchTier classifies how a skill match was established.
type MatchTier string

// Match tiers in decreasing confidence order.
const (
	TierExact   MatchTier = "exact"
	TierSynonym MatchTier = "synonym"
	TierPartial MatchTier = "partial"
	TierFuzzy   MatchTier = "fuzzy"
)

// MatchRecord is the outcome of matching one target skill against a
// candidate set.
type MatchRecord struct {
	Skill      string    `json:"skill"`
	Confidence float64   `json:"confidence"`
	Tier       MatchTier `json:"tier"`
}

// GapPriority tiers are strictly ordered by missing-frequency ratio.
type GapPriority string

// Gap priorities from most to least urgent.
const (
	PriorityCritical GapPriority = "critical"
	PriorityHigh     GapPriority = "high"
	PriorityMedium   GapPriority = "medium"
	PriorityLow      GapPriority = "low"
)

// SkillGapEntry is one prioritized, actionable missing skill aggregated
// over a batch of historical comparisons.
type SkillGapEntry struct {
	Skill                string      `json:"skill"`
	Frequency            int         `json:"frequency"`
	FrequencyRatio       float64     `json:"frequency_ratio"`
	Priority             GapPriority `json:"priority"`
	IndustryDemand       float64     `json:"industry_demand"`
	LearningWeeks        int         `json:"learning_weeks"`
	Resources            []string    `json:"resources"`
	ImprovementPotential float64     `json:"improvement_potential"`
}

// Comparison is one historical job comparison as supplied by the
// collaborator that persists past scoring runs.
type Comparison struct {
	JobTitle      string    `json:"job_title"`
	Company       string    `json:"company"`
	JobText       string    `json:"job_text,omitempty"`
	MissingSkills []string  `json:"missing_skills"`
	MatchScore    float64   `json:"match_score"`
	Timestamp     time.Time `json:"timestamp"`
}

// Repositories (ports). All upstream retrieval is blocking I/O performed by
// collaborators before the core runs; the core itself performs no I/O.

// ProfileRepository fetches stored candidate preferences.
// Implementations return ErrNotFound for absent records; callers substitute
// DefaultProfile rather than failing.
type ProfileRepository interface {
	FetchProfile(ctx context.Context, userID string) (CandidateProfile, error)
}

// JobPoolRepository fetches postings no older than the freshness window,
// excluding the given external IDs.
type JobPoolRepository interface {
	FetchPool(ctx context.Context, window time.Duration, excludeIDs []string) ([]JobPosting, error)
}

// EmbeddingHistoryRepository fetches up to k reference embeddings drawn from
// the user's prior high-confidence (similarity > 0.7) comparisons.
type EmbeddingHistoryRepository interface {
	FetchEmbeddings(ctx context.Context, userID string, k int) ([][]float32, error)
}

// ComparisonRepository fetches historical comparisons within the window,
// optionally narrowed by an industry keyword.
type ComparisonRepository interface {
	FetchComparisons(ctx context.Context, userID string, window time.Duration, industry string) ([]Comparison, error)
}

// SeenRepository reports which postings the user has already acted on.
type SeenRepository interface {
	SeenPostingIDs(ctx context.Context, userID string) ([]string, error)
}

// ResultCache caches rendered recommendation lists with a short TTL.
// It is an explicitly injected dependency, never a module-level singleton.
type ResultCache interface {
	GetResults(ctx context.Context, key string) ([]MatchResult, bool, error)
	SetResults(ctx context.Context, key string, results []MatchResult, ttl time.Duration) error
}

// Limiter throttles recommendation requests per user. Injected alongside the
// cache for the same reason.
type Limiter interface {
	Allow(userID string) bool
}

// Clock abstracts time.Now so scoring is a deterministic function of its
// inputs under test.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a func() time.Time to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the production Clock.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })
