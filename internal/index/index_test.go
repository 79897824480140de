package index

import (
	"strings"
	"testing"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.Question{
			{
				ID: "q1", Prompt: "one",
				Options: []catalog.Option{
					{ID: "a", Text: "a", Weights: map[string]int{"grounded": 1}},
				},
			},
		},
		[]catalog.Path{
			{
				ID: "grounded", Name: "Grounded",
				Corpus: []string{
					"First passage about meditation.\n\nSecond paragraph about compassion.",
					"Another passage about rebirth.",
				},
			},
			{ID: "empty", Name: "Empty"},
		},
	)
	if err != nil {
		t.Fatalf("fixture catalog invalid: %v", err)
	}
	return cat
}

func TestBuild_SplitsParagraphsPerPath(t *testing.T) {
	idx, err := Build(testCatalog(t), nil, 0)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	chunks := idx.Chunks("grounded")
	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.PathID != "grounded" {
			t.Errorf("chunk %d has path %s", i, chunk.PathID)
		}
		if chunk.ID != i {
			t.Errorf("chunk %d has ordinal %d", i, chunk.ID)
		}
		if len(chunk.Vector) == 0 {
			t.Errorf("chunk %d has no vector", i)
		}
	}
}

func TestBuild_EmptyCorpusIsUngrounded(t *testing.T) {
	idx, err := Build(testCatalog(t), nil, 0)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !idx.Ungrounded("empty") {
		t.Error("empty path should be ungrounded")
	}
	if idx.Ungrounded("grounded") {
		t.Error("grounded path should not be ungrounded")
	}
	if got := idx.Chunks("empty"); len(got) != 0 {
		t.Errorf("empty path has %d chunks", len(got))
	}
}

func TestBuild_BoundsChunkLength(t *testing.T) {
	words := strings.Repeat("meditation practice ", 100)
	cat, err := catalog.New(
		[]catalog.Question{
			{ID: "q1", Prompt: "one", Options: []catalog.Option{
				{ID: "a", Text: "a", Weights: map[string]int{"p": 1}},
			}},
		},
		[]catalog.Path{{ID: "p", Name: "P", Corpus: []string{words}}},
	)
	if err != nil {
		t.Fatalf("fixture catalog invalid: %v", err)
	}

	const maxChars = 120
	idx, err := Build(cat, nil, maxChars)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	chunks := idx.Chunks("p")
	if len(chunks) < 2 {
		t.Fatalf("oversized paragraph was not split, got %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Text) > maxChars {
			t.Errorf("chunk %d length %d exceeds bound %d", i, len(chunk.Text), maxChars)
		}
	}
}

func TestTermFrequency_CountsKnownTerms(t *testing.T) {
	tf := NewTermFrequency([]string{"the path of compassion", "the wheel turns"})

	vec, err := tf.Vectorize("compassion, compassion and the unknownterm!")
	if err != nil {
		t.Fatalf("vectorize failed: %v", err)
	}

	var total float32
	for _, v := range vec {
		total += v
	}
	// "compassion" twice, "the" once, "and"/"unknownterm" not in vocab.
	if total != 3 {
		t.Errorf("term mass = %v, want 3", total)
	}
}

func TestVectorizerFunc_Adapts(t *testing.T) {
	called := ""
	v := VectorizerFunc(func(text string) ([]float32, error) {
		called = text
		return []float32{1}, nil
	})
	vec, err := v.Vectorize("hello")
	if err != nil || len(vec) != 1 || called != "hello" {
		t.Errorf("adapter misbehaved: vec=%v err=%v called=%q", vec, err, called)
	}
}
