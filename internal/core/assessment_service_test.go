package core

import (
	"errors"
	"testing"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/scoring"
)

func TestSubmit_ReturnsTopRecommendations(t *testing.T) {
	cat, db, _ := testFixture(t)
	user, err := db.CreateUser("seeker", "hashed")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAssessmentService(db, cat)

	recs, err := svc.Submit(user.ID, scoring.AnswerSet{"q1": "a", "q2": "a"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("recommendations = %d, want 2 (all paths, under the top-3 trim)", len(recs))
	}
	if recs[0].PathID != "buddhism" || recs[0].Percentage != 100 {
		t.Errorf("top recommendation = %+v, want buddhism at 100%%", recs[0])
	}
	if recs[0].Name != "Buddhism" || recs[0].Description == "" {
		t.Errorf("recommendation missing catalog details: %+v", recs[0])
	}

	// Saved results round-trip.
	saved, err := svc.Results(user.ID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if len(saved) != len(recs) || saved[0].PathID != recs[0].PathID {
		t.Errorf("saved results = %v, want %v", saved, recs)
	}
}

func TestSubmit_IncompletePassesThrough(t *testing.T) {
	cat, db, _ := testFixture(t)
	user, err := db.CreateUser("seeker", "hashed")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAssessmentService(db, cat)

	_, err = svc.Submit(user.ID, scoring.AnswerSet{"q1": "a"})
	var incomplete *scoring.IncompleteAssessmentError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteAssessmentError, got %v", err)
	}
}

func TestReset_ClearsSavedAssessment(t *testing.T) {
	cat, db, _ := testFixture(t)
	user, err := db.CreateUser("seeker", "hashed")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAssessmentService(db, cat)

	if _, err := svc.Submit(user.ID, scoring.AnswerSet{"q1": "a", "q2": "a"}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := svc.Reset(user.ID); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	saved, err := svc.Results(user.ID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if saved != nil {
		t.Errorf("results after reset = %v, want nil", saved)
	}
}
