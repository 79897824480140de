package core

import (
	"encoding/json"
	"fmt"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/catalog"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/scoring"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/store"
)

// Recommendation is a top-ranked path joined with its catalog details for
// presentation.
type Recommendation struct {
	PathID      string `json:"path_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Practices   string `json:"practices"`
	CoreBeliefs string `json:"core_beliefs"`
	Score       int    `json:"score"`
	Percentage  int    `json:"percentage"`
}

// AssessmentService scores submissions and persists the outcome.
type AssessmentService struct {
	dbStore *store.SQLiteStore
	cat     *catalog.Catalog
}

func NewAssessmentService(db *store.SQLiteStore, cat *catalog.Catalog) *AssessmentService {
	return &AssessmentService{dbStore: db, cat: cat}
}

// Submit scores a complete answer set, saves answers plus the full
// ranking, and returns the top recommendations. Scoring errors
// (IncompleteAssessmentError, InvalidAnswerError) pass through unwrapped.
func (s *AssessmentService) Submit(userID int64, answers scoring.AnswerSet) ([]Recommendation, error) {
	ranked, err := scoring.Score(s.cat, answers)
	if err != nil {
		return nil, err
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	resultsJSON, err := json.Marshal(ranked)
	if err != nil {
		return nil, fmt.Errorf("failed to encode results: %w", err)
	}
	if err := s.dbStore.SaveAssessment(userID, string(answersJSON), string(resultsJSON)); err != nil {
		return nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	return s.recommendations(ranked.Top(scoring.TopRecommendations)), nil
}

// Results returns the saved top recommendations, or nil if the user has
// not completed the assessment.
func (s *AssessmentService) Results(userID int64) ([]Recommendation, error) {
	saved, err := s.dbStore.GetAssessment(userID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, nil
	}
	var ranked scoring.RankedResult
	if err := json.Unmarshal([]byte(saved.ResultsJSON), &ranked); err != nil {
		return nil, fmt.Errorf("failed to decode saved results: %w", err)
	}
	return s.recommendations(ranked.Top(scoring.TopRecommendations)), nil
}

// Reset discards the user's saved answers and results.
func (s *AssessmentService) Reset(userID int64) error {
	return s.dbStore.DeleteAssessment(userID)
}

func (s *AssessmentService) recommendations(top scoring.RankedResult) []Recommendation {
	recs := make([]Recommendation, 0, len(top))
	for _, ps := range top {
		p := s.cat.Path(ps.PathID)
		if p == nil {
			continue
		}
		recs = append(recs, Recommendation{
			PathID:      p.ID,
			Name:        p.Name,
			Description: p.Description,
			Practices:   p.Practices,
			CoreBeliefs: p.CoreBeliefs,
			Score:       ps.RawScore,
			Percentage:  ps.Percentage,
		})
	}
	return recs
}
