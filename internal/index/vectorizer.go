package index

import (
	"strings"
	"unicode"
)

// Vectorizer turns text into the relevance representation used for
// similarity scoring. The same vectorizer must be used for corpus chunks
// at build time and for queries at retrieval time.
type Vectorizer interface {
	Vectorize(text string) ([]float32, error)
}

// VectorizerFunc adapts a plain function (such as an embedding client's
// embed call) to the Vectorizer interface.
type VectorizerFunc func(text string) ([]float32, error)

func (f VectorizerFunc) Vectorize(text string) ([]float32, error) {
	return f(text)
}

// TermFrequency is the default bag-of-words vectorizer. Its vocabulary is
// fixed when constructed from the corpus; query terms outside the
// vocabulary are ignored.
type TermFrequency struct {
	vocab map[string]int
}

// NewTermFrequency builds a vectorizer whose vocabulary is the union of
// terms in the given documents.
func NewTermFrequency(docs []string) *TermFrequency {
	vocab := make(map[string]int)
	for _, doc := range docs {
		for _, term := range tokenize(doc) {
			if _, ok := vocab[term]; !ok {
				vocab[term] = len(vocab)
			}
		}
	}
	return &TermFrequency{vocab: vocab}
}

func (t *TermFrequency) Vectorize(text string) ([]float32, error) {
	vec := make([]float32, len(t.vocab))
	for _, term := range tokenize(text) {
		if i, ok := t.vocab[term]; ok {
			vec[i]++
		}
	}
	return vec, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
