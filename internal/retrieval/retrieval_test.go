package retrieval

import (
	"testing"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/catalog"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/index"
)

func buildIndex(t *testing.T) *index.Index {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.Question{
			{ID: "q1", Prompt: "one", Options: []catalog.Option{
				{ID: "a", Text: "a", Weights: map[string]int{"buddhism": 1}},
			}},
		},
		[]catalog.Path{
			{
				ID: "buddhism", Name: "Buddhism",
				Corpus: []string{
					"Meditation and mindfulness are central practices.",
					"Rebirth continues until enlightenment ends the cycle of suffering.",
					"The afterlife in Buddhism is rebirth shaped by karma.",
				},
			},
			{
				ID: "taoism", Name: "Taoism",
				Corpus: []string{"Wu wei means effortless action in harmony with the Tao."},
			},
			{ID: "empty", Name: "Empty"},
		},
	)
	if err != nil {
		t.Fatalf("fixture catalog invalid: %v", err)
	}
	idx, err := index.Build(cat, nil, 0)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return idx
}

func TestRetrieve_OnlyRequestedPath(t *testing.T) {
	idx := buildIndex(t)
	chunks, err := Retrieve(idx, "buddhism", "what happens after death, rebirth or afterlife?", 5)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	for _, chunk := range chunks {
		if chunk.PathID != "buddhism" {
			t.Errorf("chunk from path %s leaked into buddhism pool", chunk.PathID)
		}
	}
}

func TestRetrieve_RespectsK(t *testing.T) {
	idx := buildIndex(t)
	chunks, err := Retrieve(idx, "buddhism", "rebirth enlightenment suffering meditation", 1)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(chunks) > 1 {
		t.Errorf("got %d chunks, want at most 1", len(chunks))
	}
}

func TestRetrieve_SortedByDescendingSimilarity(t *testing.T) {
	idx := buildIndex(t)
	query := "rebirth and the cycle of suffering until enlightenment"
	chunks, err := Retrieve(idx, "buddhism", query, 3)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Skipf("only %d chunks cleared the floor", len(chunks))
	}

	queryVec, err := idx.Vectorize(query)
	if err != nil {
		t.Fatal(err)
	}
	prev := 2.0
	for i, chunk := range chunks {
		sim := cosine(queryVec, chunk.Vector)
		if sim > prev {
			t.Errorf("chunk %d similarity %f above previous %f", i, sim, prev)
		}
		prev = sim
	}
}

func TestRetrieve_EmptyCorpusReturnsEmpty(t *testing.T) {
	idx := buildIndex(t)
	chunks, err := Retrieve(idx, "empty", "anything at all", 3)
	if err != nil {
		t.Fatalf("ungrounded retrieval must not error, got %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("got %d chunks from an empty corpus", len(chunks))
	}
}

func TestRetrieve_NoMatchBelowFloor(t *testing.T) {
	idx := buildIndex(t)
	chunks, err := Retrieve(idx, "buddhism", "xylophone quantum zebra", 3)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("irrelevant query retrieved %d chunks", len(chunks))
	}
}

func TestCosine_Degenerate(t *testing.T) {
	if got := cosine(nil, nil); got != 0 {
		t.Errorf("cosine(nil, nil) = %f", got)
	}
	if got := cosine([]float32{1, 0}, []float32{1}); got != 0 {
		t.Errorf("mismatched dims = %f", got)
	}
	if got := cosine([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero vector = %f", got)
	}
	if got := cosine([]float32{1, 2}, []float32{1, 2}); got < 0.999 {
		t.Errorf("identical vectors = %f, want ~1", got)
	}
}
