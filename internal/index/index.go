// Package index builds the searchable representation of each path's
// reference corpus. The index is constructed once at startup and is
// read-only afterwards, so concurrent reads need no locking.
package index

import (
	"fmt"
	"log"
	"strings"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/catalog"
)

// DefaultMaxChunkChars bounds chunk size so retrieved context stays within
// the generation backend's token budget.
const DefaultMaxChunkChars = 600

// Chunk is the unit of retrieval: a bounded slice of one path's corpus
// with its precomputed relevance vector.
type Chunk struct {
	PathID string
	ID     int // ordinal within the path's corpus, stable across builds
	Text   string
	Vector []float32
}

// Index holds the per-path chunk pools. Chunks from different paths are
// never mixed into one pool.
type Index struct {
	vectorizer Vectorizer
	pools      map[string][]Chunk
}

// Build chunks every path's corpus and computes relevance vectors. If
// vectorizer is nil, a term-frequency vectorizer over the whole corpus is
// used. maxChunkChars <= 0 falls back to DefaultMaxChunkChars.
func Build(cat *catalog.Catalog, vectorizer Vectorizer, maxChunkChars int) (*Index, error) {
	if maxChunkChars <= 0 {
		maxChunkChars = DefaultMaxChunkChars
	}

	texts := make(map[string][]string, len(cat.Paths))
	var all []string
	for _, p := range cat.Paths {
		var chunks []string
		for _, passage := range p.Corpus {
			chunks = append(chunks, splitPassage(passage, maxChunkChars)...)
		}
		texts[p.ID] = chunks
		all = append(all, chunks...)
	}

	if vectorizer == nil {
		vectorizer = NewTermFrequency(all)
	}

	idx := &Index{
		vectorizer: vectorizer,
		pools:      make(map[string][]Chunk, len(cat.Paths)),
	}
	for _, p := range cat.Paths {
		chunks := make([]Chunk, 0, len(texts[p.ID]))
		for i, text := range texts[p.ID] {
			vec, err := vectorizer.Vectorize(text)
			if err != nil {
				return nil, fmt.Errorf("failed to vectorize chunk %d of path %s: %w", i, p.ID, err)
			}
			chunks = append(chunks, Chunk{PathID: p.ID, ID: i, Text: text, Vector: vec})
		}
		if len(chunks) == 0 {
			log.Printf("Path %s has an empty corpus, retrieval against it will return no grounding", p.ID)
		}
		idx.pools[p.ID] = chunks
	}
	return idx, nil
}

// Chunks returns the candidate pool for a path, in corpus order. The
// returned slice must not be modified.
func (idx *Index) Chunks(pathID string) []Chunk {
	return idx.pools[pathID]
}

// Ungrounded reports whether a path has no corpus chunks to retrieve from.
func (idx *Index) Ungrounded(pathID string) bool {
	return len(idx.pools[pathID]) == 0
}

// Vectorize computes a query's relevance vector with the same scheme used
// at build time.
func (idx *Index) Vectorize(query string) ([]float32, error) {
	return idx.vectorizer.Vectorize(query)
}

// splitPassage breaks a passage into paragraph chunks, further splitting
// any paragraph that exceeds the size bound on word boundaries.
func splitPassage(passage string, maxChars int) []string {
	var chunks []string
	for _, para := range strings.Split(passage, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= maxChars {
			chunks = append(chunks, para)
			continue
		}
		var b strings.Builder
		for _, word := range strings.Fields(para) {
			if b.Len() > 0 && b.Len()+1+len(word) > maxChars {
				chunks = append(chunks, b.String())
				b.Reset()
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
		}
		if b.Len() > 0 {
			chunks = append(chunks, b.String())
		}
	}
	return chunks
}
