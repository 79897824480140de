// Package scoring converts a completed answer set into a ranked list of
// spiritual paths with normalized alignment percentages.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/catalog"
)

// TopRecommendations is how many paths are surfaced to the user.
const TopRecommendations = 3

// AnswerSet maps question id -> selected option id. It must contain
// exactly one entry per catalog question to be scoreable.
type AnswerSet map[string]string

// PathScore is one path's position in a ranking.
type PathScore struct {
	PathID     string `json:"path_id"`
	RawScore   int    `json:"raw_score"`
	Percentage int    `json:"percentage"` // 0..100, against the path's own ceiling
}

// RankedResult is the full ranking, sorted by descending percentage with
// ties broken by catalog priority order. Immutable once returned.
type RankedResult []PathScore

// Top returns the first n entries of the ranking.
func (r RankedResult) Top(n int) RankedResult {
	if n > len(r) {
		n = len(r)
	}
	return r[:n]
}

// IncompleteAssessmentError reports the questions left unanswered.
type IncompleteAssessmentError struct {
	Missing []string
}

func (e *IncompleteAssessmentError) Error() string {
	return fmt.Sprintf("assessment is incomplete, unanswered questions: %s", strings.Join(e.Missing, ", "))
}

// InvalidAnswerError reports an answer referencing an unknown question or
// an unknown option of a known question.
type InvalidAnswerError struct {
	QuestionID string
	OptionID   string
}

func (e *InvalidAnswerError) Error() string {
	if e.OptionID == "" {
		return fmt.Sprintf("answer references unknown question %q", e.QuestionID)
	}
	return fmt.Sprintf("answer for question %q references unknown option %q", e.QuestionID, e.OptionID)
}

// Score computes the full ranking for a complete answer set. It is a pure
// function of its inputs: no state, no randomness, identical inputs always
// yield an identical ranking.
func Score(cat *catalog.Catalog, answers AnswerSet) (RankedResult, error) {
	var missing []string
	for _, q := range cat.Questions {
		if _, ok := answers[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &IncompleteAssessmentError{Missing: missing}
	}

	raw := make(map[string]int, len(cat.Paths))
	for questionID, optionID := range answers {
		q := cat.Question(questionID)
		if q == nil {
			return nil, &InvalidAnswerError{QuestionID: questionID}
		}
		opt := q.Option(optionID)
		if opt == nil {
			return nil, &InvalidAnswerError{QuestionID: questionID, OptionID: optionID}
		}
		for pathID, w := range opt.Weights {
			raw[pathID] += w
		}
	}

	result := make(RankedResult, 0, len(cat.Paths))
	for _, p := range cat.Paths {
		score := PathScore{PathID: p.ID, RawScore: raw[p.ID]}
		if ceiling := cat.MaxRawScore(p.ID); ceiling > 0 {
			score.Percentage = int(math.Round(100 * float64(score.RawScore) / float64(ceiling)))
		}
		result = append(result, score)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Percentage != result[j].Percentage {
			return result[i].Percentage > result[j].Percentage
		}
		return cat.Priority(result[i].PathID) < cat.Priority(result[j].PathID)
	})
	return result, nil
}
