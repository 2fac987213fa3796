package scoring

import "math"

// Cosine returns the cosine similarity of two vectors, or 0 when either is
// empty, dimensions differ, or a norm is zero.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MaxSimilarity returns the highest cosine similarity between the posting
// embedding and the reference set, floored at 0 so an anti-correlated
// reference never penalizes the additive bonus. Absent inputs yield 0.
func MaxSimilarity(embedding []float32, refs [][]float32) float64 {
	if len(embedding) == 0 || len(refs) == 0 {
		return 0
	}
	best := 0.0
	for _, ref := range refs {
		if sim := Cosine(embedding, ref); sim > best {
			best = sim
		}
	}
	return best
}
