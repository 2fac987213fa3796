// Package memory provides map-backed implementations of the collaborator
// ports. The demo CLI loads fixtures into it, and tests use it as the
// "clean, validated records" upstream the core is specified against.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fairyhunter13/job-match-engine/internal/domain"
)

// Store implements every fetch port over in-memory data. Safe for
// concurrent use.
type Store struct {
	mu          sync.RWMutex
	profiles    map[string]domain.CandidateProfile
	postings    []domain.JobPosting
	embeddings  map[string][][]float32
	comparisons map[string][]domain.Comparison
	seen        map[string][]string
	clock       domain.Clock
}

// NewStore returns an empty Store using the given clock for window math.
func NewStore(clock domain.Clock) *Store {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &Store{
		profiles:    make(map[string]domain.CandidateProfile),
		embeddings:  make(map[string][][]float32),
		comparisons: make(map[string][]domain.Comparison),
		seen:        make(map[string][]string),
		clock:       clock,
	}
}

// PutProfile stores or replaces a candidate profile.
func (s *Store) PutProfile(p domain.CandidateProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

// AddPostings appends postings to the pool.
func (s *Store) AddPostings(postings ...domain.JobPosting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postings = append(s.postings, postings...)
}

// PutEmbeddings stores a user's reference embedding history.
func (s *Store) PutEmbeddings(userID string, refs [][]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings[userID] = refs
}

// AddComparisons appends to a user's comparison history.
func (s *Store) AddComparisons(userID string, comparisons ...domain.Comparison) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comparisons[userID] = append(s.comparisons[userID], comparisons...)
}

// MarkSeen records postings the user has already acted on.
func (s *Store) MarkSeen(userID string, postingIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[userID] = append(s.seen[userID], postingIDs...)
}

// FetchProfile implements domain.ProfileRepository.
func (s *Store) FetchProfile(_ context.Context, userID string) (domain.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return domain.CandidateProfile{}, fmt.Errorf("%w: profile %s", domain.ErrNotFound, userID)
	}
	return p, nil
}

// FetchPool implements domain.JobPoolRepository: postings within the
// freshness window (unknown dates included), minus the excluded IDs.
func (s *Store) FetchPool(_ context.Context, window time.Duration, excludeIDs []string) ([]domain.JobPosting, error) {
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	cutoff := s.clock.Now().Add(-window)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.JobPosting, 0, len(s.postings))
	for _, p := range s.postings {
		if _, skip := excluded[p.ExternalID]; skip {
			continue
		}
		if window > 0 && p.PostedAt != nil && p.PostedAt.Before(cutoff) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// FetchEmbeddings implements domain.EmbeddingHistoryRepository.
func (s *Store) FetchEmbeddings(_ context.Context, userID string, k int) ([][]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := s.embeddings[userID]
	if k > 0 && len(refs) > k {
		refs = refs[:k]
	}
	out := make([][]float32, len(refs))
	copy(out, refs)
	return out, nil
}

// FetchComparisons implements domain.ComparisonRepository. The industry
// argument is ignored here; the analyzer applies its own keyword filter.
func (s *Store) FetchComparisons(_ context.Context, userID string, window time.Duration, _ string) ([]domain.Comparison, error) {
	cutoff := s.clock.Now().Add(-window)

	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.comparisons[userID]
	out := make([]domain.Comparison, 0, len(history))
	for _, c := range history {
		if window > 0 && !c.Timestamp.IsZero() && c.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// SeenPostingIDs implements domain.SeenRepository.
func (s *Store) SeenPostingIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.seen[userID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}
