// Package mocks provides testify-based mocks for the domain ports.
// Hand-maintained; keep method signatures in sync with domain.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fairyhunter13/job-match-engine/internal/domain"
)

// MockProfileRepository mocks domain.ProfileRepository.
type MockProfileRepository struct{ mock.Mock }

// FetchProfile implements domain.ProfileRepository.
func (m *MockProfileRepository) FetchProfile(ctx context.Context, userID string) (domain.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.CandidateProfile), args.Error(1)
}

// MockJobPoolRepository mocks domain.JobPoolRepository.
type MockJobPoolRepository struct{ mock.Mock }

// FetchPool implements domain.JobPoolRepository.
func (m *MockJobPoolRepository) FetchPool(ctx context.Context, window time.Duration, excludeIDs []string) ([]domain.JobPosting, error) {
	args := m.Called(ctx, window, excludeIDs)
	if v := args.Get(0); v != nil {
		return v.([]domain.JobPosting), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEmbeddingHistoryRepository mocks domain.EmbeddingHistoryRepository.
type MockEmbeddingHistoryRepository struct{ mock.Mock }

// FetchEmbeddings implements domain.EmbeddingHistoryRepository.
func (m *MockEmbeddingHistoryRepository) FetchEmbeddings(ctx context.Context, userID string, k int) ([][]float32, error) {
	args := m.Called(ctx, userID, k)
	if v := args.Get(0); v != nil {
		return v.([][]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockComparisonRepository mocks domain.ComparisonRepository.
type MockComparisonRepository struct{ mock.Mock }

// FetchComparisons implements domain.ComparisonRepository.
func (m *MockComparisonRepository) FetchComparisons(ctx context.Context, userID string, window time.Duration, industry string) ([]domain.Comparison, error) {
	args := m.Called(ctx, userID, window, industry)
	if v := args.Get(0); v != nil {
		return v.([]domain.Comparison), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSeenRepository mocks domain.SeenRepository.
type MockSeenRepository struct{ mock.Mock }

// SeenPostingIDs implements domain.SeenRepository.
func (m *MockSeenRepository) SeenPostingIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockResultCache mocks domain.ResultCache.
type MockResultCache struct{ mock.Mock }

// GetResults implements domain.ResultCache.
func (m *MockResultCache) GetResults(ctx context.Context, key string) ([]domain.MatchResult, bool, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.([]domain.MatchResult), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

// SetResults implements domain.ResultCache.
func (m *MockResultCache) SetResults(ctx context.Context, key string, results []domain.MatchResult, ttl time.Duration) error {
	args := m.Called(ctx, key, results, ttl)
	return args.Error(0)
}

// MockLimiter mocks domain.Limiter.
type MockLimiter struct{ mock.Mock }

// Allow implements domain.Limiter.
func (m *MockLimiter) Allow(userID string) bool {
	args := m.Called(userID)
	return args.Bool(0)
}
