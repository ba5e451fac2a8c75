// Package local provides an offline embedding provider that needs no network or model files.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// DefaultDimensions is the vector size used when none is configured.
const DefaultDimensions = 512

var termRe = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}+#.\-]*`)

// Embedder maps text to an L2-normalised hashed term-frequency vector of unigrams
// and bigrams. Equal texts always produce equal vectors, so cosine similarity
// reflects shared vocabulary.
type Embedder struct {
	dims int
}

// NewEmbedder creates an embedder. Non-positive dims fall back to DefaultDimensions.
func NewEmbedder(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{dims: dims}
}

// Dimensions returns the vector size.
func (e *Embedder) Dimensions() int {
	return e.dims
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, e.dims)
	terms := Terms(text)
	for i, term := range terms {
		e.add(vec, term, 1)
		if i > 0 {
			e.add(vec, terms[i-1]+" "+term, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}

	out := make([]float32, e.dims)
	if norm == 0 {
		return out, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

// add uses the top hash bit as a sign so collisions cancel out on average.
func (e *Embedder) add(vec []float64, term string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(term))
	sum := h.Sum64()

	idx := int(sum % uint64(e.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Terms lowercases text and splits it into word terms. Trailing punctuation is dropped.
func Terms(text string) []string {
	raw := termRe.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimRight(t, ".-")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
