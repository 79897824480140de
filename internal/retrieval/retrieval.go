// Package retrieval implements the read path of the RAG pattern: scoring
// one path's corpus chunks against a query and returning the best matches.
// It never mutates the index and never calls the generation backend.
package retrieval

import (
	"fmt"
	"math"
	"sort"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/index"
)

// MinSimilarity is the relevance floor; chunks scoring below it are not
// worth grounding a reply on.
const MinSimilarity = 0.1

// Retrieve returns up to k chunks of the given path, ordered by
// non-increasing similarity to the query, ties broken by corpus order. An
// ungrounded path or a query with no sufficiently similar chunk yields an
// empty result, not an error; callers answer without extra grounding.
func Retrieve(idx *index.Index, pathID, query string, k int) ([]index.Chunk, error) {
	if k <= 0 || idx.Ungrounded(pathID) {
		return nil, nil
	}

	queryVec, err := idx.Vectorize(query)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize query: %w", err)
	}

	type scored struct {
		chunk      index.Chunk
		similarity float64
	}
	var candidates []scored
	for _, chunk := range idx.Chunks(pathID) {
		similarity := cosine(queryVec, chunk.Vector)
		if similarity >= MinSimilarity {
			candidates = append(candidates, scored{chunk: chunk, similarity: similarity})
		}
	}

	// Stable sort keeps corpus order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	chunks := make([]index.Chunk, len(candidates))
	for i, c := range candidates {
		chunks[i] = c.chunk
	}
	return chunks, nil
}

// cosine returns the cosine similarity of two vectors, or 0 when either
// is empty, zero, or of mismatched dimension.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
