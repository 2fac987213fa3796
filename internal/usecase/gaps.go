package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairyhunter13/job-match-engine/internal/domain"
	"github.com/fairyhunter13/job-match-engine/internal/gap"
	"github.com/fairyhunter13/job-match-engine/internal/observability"
)

// DefaultComparisonWindow bounds how far back gap analysis looks when the
// request does not say.
const DefaultComparisonWindow = 90 * 24 * time.Hour

// GapRequest asks for a skill-gap report over the user's comparison
// history, optionally narrowed to an industry keyword.
type GapRequest struct {
	UserID   string `validate:"required"`
	Industry string
	Window   time.Duration `validate:"gte=0"`
}

// SkillGapService computes frequency-ranked skill-gap reports.
type SkillGapService struct {
	comparisons domain.ComparisonRepository
	analyzer    *gap.Analyzer
	validate    *validator.Validate
	tracer      trace.Tracer
}

// NewSkillGapService constructs the service. The comparison repository may
// be nil when only AnalyzeGaps over caller-supplied batches is needed.
func NewSkillGapService(comparisons domain.ComparisonRepository, analyzer *gap.Analyzer) (*SkillGapService, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("%w: analyzer is required", domain.ErrInvalidArgument)
	}
	return &SkillGapService{
		comparisons: comparisons,
		analyzer:    analyzer,
		validate:    validator.New(),
		tracer:      otel.Tracer("job-match-engine/usecase"),
	}, nil
}

// AnalyzeGapsForUser fetches the user's comparison history and aggregates
// it into a prioritized gap report. Zero history is reported as
// insufficient data, not an error panic and not an empty success.
func (s *SkillGapService) AnalyzeGapsForUser(ctx context.Context, req GapRequest) ([]domain.SkillGapEntry, error) {
	ctx, span := s.tracer.Start(ctx, "gaps.analyze_for_user")
	defer span.End()

	if err := s.validate.Struct(req); err != nil {
		observability.GapReportsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	if s.comparisons == nil {
		observability.GapReportsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: no comparison repository configured", domain.ErrInvalidArgument)
	}
	if req.Window == 0 {
		req.Window = DefaultComparisonWindow
	}

	comparisons, err := s.comparisons.FetchComparisons(ctx, req.UserID, req.Window, req.Industry)
	if err != nil {
		observability.GapReportsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("op=gaps.FetchComparisons: %w", err)
	}
	return s.analyze(comparisons, req.Industry)
}

// AnalyzeGaps aggregates a caller-supplied comparison batch directly.
func (s *SkillGapService) AnalyzeGaps(ctx context.Context, comparisons []domain.Comparison) ([]domain.SkillGapEntry, error) {
	_, span := s.tracer.Start(ctx, "gaps.analyze")
	defer span.End()
	return s.analyze(comparisons, "")
}

func (s *SkillGapService) analyze(comparisons []domain.Comparison, industry string) ([]domain.SkillGapEntry, error) {
	entries, err := s.analyzer.Analyze(comparisons, gap.Options{Industry: industry})
	if err != nil {
		observability.GapReportsTotal.WithLabelValues("insufficient_data").Inc()
		return nil, err
	}
	observability.GapReportsTotal.WithLabelValues("ok").Inc()
	return entries, nil
}
