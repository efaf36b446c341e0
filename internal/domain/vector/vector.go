// Package vector provides pure similarity math over embedding vectors.
package vector

import (
	"fmt"
	"math"

	"github.com/askora-ai/askora/internal/domain"
)

// Cosine computes the cosine similarity between two equal-length vectors.
// The result is in [-1, 1]. A zero-magnitude vector yields 0 rather than a
// division by zero. A length mismatch returns domain.ErrVectorDimMismatch.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrVectorDimMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
