package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/job-match-engine/internal/scoring"
)

func TestCosine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"scaled copies", []float32{1, 1}, []float32{3, 3}, 1.0},
		{"empty a", nil, []float32{1}, 0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero norm", []float32{0, 0}, []float32{1, 2}, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, scoring.Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMaxSimilarity(t *testing.T) {
	t.Parallel()

	emb := []float32{1, 0}
	refs := [][]float32{
		{0, 1},   // orthogonal, 0
		{1, 1},   // ~0.707
		{1, 0.2}, // ~0.98
		{-1, 0},  // -1, must not drag the floor below 0
	}

	assert.InDelta(t, 0.98058, scoring.MaxSimilarity(emb, refs), 1e-4)
	assert.Zero(t, scoring.MaxSimilarity(nil, refs))
	assert.Zero(t, scoring.MaxSimilarity(emb, nil))

	// Every reference anti-correlated: the bonus floors at 0.
	assert.Zero(t, scoring.MaxSimilarity(emb, [][]float32{{-1, 0}}))
}
