package similarity

import "math"

// Cosine computes the cosine similarity between two embedding vectors: the dot
// product divided by the product of their L2 norms. Returns 0 when either
// vector has zero norm. For unit-normalized sentence embeddings the result is
// effectively the dot product.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
