// Package usecase wires the pure matching core to its collaborator ports
// and exposes the engine's public operations.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/job-match-engine/internal/domain"
	"github.com/fairyhunter13/job-match-engine/internal/observability"
	"github.com/fairyhunter13/job-match-engine/internal/scoring"
	"github.com/fairyhunter13/job-match-engine/internal/skills"
)

// Defaults applied by NewRecommendationService when options are zero.
const (
	DefaultLimit         = 20
	DefaultScoreWorkers  = 8
	DefaultEmbeddingRefs = 5
	DefaultCacheTTL      = 5 * time.Minute
)

// RecommendationRequest is one caller request. Validation fails fast on
// malformed requests; everything data-shaped degrades instead.
type RecommendationRequest struct {
	UserID      string `validate:"required"`
	Limit       int    `validate:"gte=0"`
	ExcludeSeen bool
}

// RecommendationDeps carries the collaborators and core components of a
// RecommendationService. Profiles, Pool, and Engine are required. Cache,
// Limiter, Embeddings, and Seen are optional: the service degrades to
// uncached, unthrottled, bonus-free behavior when they are absent.
type RecommendationDeps struct {
	Profiles   domain.ProfileRepository
	Pool       domain.JobPoolRepository
	Embeddings domain.EmbeddingHistoryRepository
	Seen       domain.SeenRepository
	Cache      domain.ResultCache
	Limiter    domain.Limiter
	Clock      domain.Clock

	Engine *scoring.Engine
	Filter scoring.Filter

	// EmbeddingRefs is K, the reference embedding count per request.
	EmbeddingRefs int
	// ScoreWorkers bounds the scoring fan-out.
	ScoreWorkers int
	// CacheTTL bounds how long rendered lists stay cached.
	CacheTTL time.Duration
}

// RecommendationService produces ranked, explainable posting
// recommendations for a candidate.
type RecommendationService struct {
	deps     RecommendationDeps
	validate *validator.Validate
	tracer   trace.Tracer
}

// NewRecommendationService constructs the service, filling defaulted deps.
func NewRecommendationService(deps RecommendationDeps) (*RecommendationService, error) {
	if deps.Profiles == nil || deps.Pool == nil || deps.Engine == nil {
		return nil, fmt.Errorf("%w: profiles, pool, and engine are required", domain.ErrInvalidArgument)
	}
	if deps.Clock == nil {
		deps.Clock = domain.SystemClock
	}
	if deps.Filter == (scoring.Filter{}) {
		deps.Filter = scoring.NewFilter()
	}
	if deps.EmbeddingRefs <= 0 {
		deps.EmbeddingRefs = DefaultEmbeddingRefs
	}
	if deps.ScoreWorkers <= 0 {
		deps.ScoreWorkers = DefaultScoreWorkers
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = DefaultCacheTTL
	}
	return &RecommendationService{
		deps:     deps,
		validate: validator.New(),
		tracer:   otel.Tracer("job-match-engine/usecase"),
	}, nil
}

// GetRecommendations returns up to req.Limit ranked MatchResults for the
// user, scores rounded to 3 decimals. An empty pool yields an empty list,
// not an error. The request is all-or-nothing: when the context deadline
// elapses mid-scoring, partial results are discarded.
func (s *RecommendationService) GetRecommendations(ctx context.Context, req RecommendationRequest) ([]domain.MatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "recommendations.get")
	defer span.End()
	start := time.Now()

	if err := s.validate.Struct(req); err != nil {
		observability.RecommendationRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	if req.Limit == 0 {
		req.Limit = DefaultLimit
	}
	if s.deps.Limiter != nil && !s.deps.Limiter.Allow(req.UserID) {
		observability.RecommendationRequestsTotal.WithLabelValues("rate_limited").Inc()
		return nil, fmt.Errorf("%w: user %s", domain.ErrRateLimited, req.UserID)
	}

	lg := observability.LoggerFromContext(ctx).With(
		slog.String("user_id", req.UserID),
		slog.String("request_id", s.requestID(ctx)),
	)

	cacheKey := fmt.Sprintf("recs:%s:limit=%d:seen=%t", req.UserID, req.Limit, req.ExcludeSeen)
	if cached, ok := s.cachedResults(ctx, lg, cacheKey); ok {
		observability.RecommendationRequestsTotal.WithLabelValues("cached").Inc()
		return cached, nil
	}

	profile, err := s.fetchProfile(ctx, lg, req.UserID)
	if err != nil {
		observability.RecommendationRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	seen, err := s.seenIDs(ctx, req)
	if err != nil {
		observability.RecommendationRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	pool, err := s.deps.Pool.FetchPool(ctx, s.deps.Filter.FreshnessWindow, seenSlice(seen))
	if err != nil {
		observability.RecommendationRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("op=recommend.FetchPool: %w", err)
	}
	if len(pool) == 0 {
		lg.Info("job pool empty, returning no recommendations")
		observability.RecommendationRequestsTotal.WithLabelValues("ok").Inc()
		return []domain.MatchResult{}, nil
	}

	refs := s.referenceEmbeddings(ctx, lg, req.UserID)

	now := s.deps.Clock.Now()
	kept, stats := s.deps.Filter.Apply(profile, pool, seen, now)
	recordFilterStats(stats)
	lg.Info("pool filtered",
		slog.Int("pool", len(pool)),
		slog.Int("kept", len(kept)),
		slog.Int("blocked_company", stats.BlockedCompany),
		slog.Int("seen", stats.Seen),
	)

	results, err := s.scoreAll(ctx, lg, profile, kept, refs, now)
	if err != nil {
		observability.RecommendationRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	results = scoring.Rank(results, req.Limit)
	for i := range results {
		results[i].Score = round3(results[i].Score)
		observability.MatchScoreHistogram.Observe(results[i].Score)
	}

	s.storeResults(ctx, lg, cacheKey, results)
	observability.RecommendationRequestsTotal.WithLabelValues("ok").Inc()
	observability.RecommendationDuration.Observe(time.Since(start).Seconds())
	return results, nil
}

// scoreAll fans the bounded candidate set out across the worker budget and
// fans back in for ranking. Individual postings are independent, so no
// ordering is imposed; a context cancellation aborts the whole batch.
func (s *RecommendationService) scoreAll(ctx context.Context, lg *slog.Logger, profile domain.CandidateProfile, kept []domain.JobPosting, refs [][]float32, now time.Time) ([]domain.MatchResult, error) {
	scored := make([]domain.MatchResult, len(kept))
	ok := make([]bool, len(kept))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.deps.ScoreWorkers)
	for i, posting := range kept {
		i, posting := i, posting
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// One malformed record must never abort the batch.
			if posting.ExternalID == "" {
				lg.Warn("skipping malformed posting", slog.String("title", posting.Title))
				observability.PostingsSkippedTotal.Inc()
				return nil
			}
			scored[i] = s.deps.Engine.Score(profile, posting, refs, now)
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("op=recommend.score: %w", err)
	}

	results := scored[:0]
	for i := range scored {
		if ok[i] {
			results = append(results, scored[i])
		}
	}
	return results, nil
}

func (s *RecommendationService) fetchProfile(ctx context.Context, lg *slog.Logger, userID string) (domain.CandidateProfile, error) {
	profile, err := s.deps.Profiles.FetchProfile(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		// Absent preferences are synthesized, never an error.
		lg.Info("no stored profile, using defaults")
		return domain.DefaultProfile(userID), nil
	}
	if err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=recommend.FetchProfile: %w", err)
	}
	return profile, nil
}

func (s *RecommendationService) seenIDs(ctx context.Context, req RecommendationRequest) (map[string]struct{}, error) {
	if !req.ExcludeSeen || s.deps.Seen == nil {
		return nil, nil
	}
	ids, err := s.deps.Seen.SeenPostingIDs(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("op=recommend.SeenPostingIDs: %w", err)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen, nil
}

// referenceEmbeddings fetches the user's prior high-confidence embeddings.
// Any failure degrades to a zero embedding bonus.
func (s *RecommendationService) referenceEmbeddings(ctx context.Context, lg *slog.Logger, userID string) [][]float32 {
	if s.deps.Embeddings == nil {
		return nil
	}
	refs, err := s.deps.Embeddings.FetchEmbeddings(ctx, userID, s.deps.EmbeddingRefs)
	if err != nil {
		lg.Warn("embedding history unavailable, scoring without bonus", slog.Any("error", err))
		return nil
	}
	return refs
}

func (s *RecommendationService) cachedResults(ctx context.Context, lg *slog.Logger, key string) ([]domain.MatchResult, bool) {
	if s.deps.Cache == nil {
		return nil, false
	}
	results, hit, err := s.deps.Cache.GetResults(ctx, key)
	switch {
	case err != nil:
		lg.Warn("result cache lookup failed", slog.Any("error", err))
		observability.ResultCacheTotal.WithLabelValues("error").Inc()
		return nil, false
	case hit:
		observability.ResultCacheTotal.WithLabelValues("hit").Inc()
		return results, true
	default:
		observability.ResultCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
}

func (s *RecommendationService) storeResults(ctx context.Context, lg *slog.Logger, key string, results []domain.MatchResult) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.SetResults(ctx, key, results, s.deps.CacheTTL); err != nil {
		lg.Warn("result cache store failed", slog.Any("error", err))
	}
}

func (s *RecommendationService) requestID(ctx context.Context) string {
	if rid := observability.RequestIDFromContext(ctx); rid != "" {
		return rid
	}
	return observability.NewRequestID()
}

func recordFilterStats(stats scoring.FilterStats) {
	observability.PostingsFilteredTotal.WithLabelValues("stale").Add(float64(stats.Stale))
	observability.PostingsFilteredTotal.WithLabelValues("missing_fields").Add(float64(stats.MissingFields))
	observability.PostingsFilteredTotal.WithLabelValues("blocked_company").Add(float64(stats.BlockedCompany))
	observability.PostingsFilteredTotal.WithLabelValues("location").Add(float64(stats.Location))
	observability.PostingsFilteredTotal.WithLabelValues("salary").Add(float64(stats.Salary))
	observability.PostingsFilteredTotal.WithLabelValues("seen").Add(float64(stats.Seen))
	observability.PostingsFilteredTotal.WithLabelValues("capped").Add(float64(stats.Capped))
}

func seenSlice(seen map[string]struct{}) []string {
	if len(seen) == 0 {
		return nil
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// MatchSkill finds the best tiered match for target within candidates.
// Exposed for callers that need one-off matching outside a scoring run.
func MatchSkill(matcher *skills.Matcher, target string, candidates []string) (domain.MatchRecord, bool) {
	return matcher.Match(target, candidates)
}
