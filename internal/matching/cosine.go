package matching

import (
	"fmt"
	"math"
)

// CosineSimilarity returns the cosine of the angle between two vectors, in [-1,1].
// A zero vector is orthogonal to everything.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions differ: %d != %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// float rounding can push identical vectors slightly past 1
	return math.Max(-1, math.Min(1, cos)), nil
}
