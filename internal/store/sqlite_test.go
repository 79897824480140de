package store

import (
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUsers_CreateAndLookup(t *testing.T) {
	s := newTestStore(t)

	user, err := s.CreateUser("seeker", "hashed")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Username != "seeker" || user.ID == 0 {
		t.Errorf("unexpected user: %+v", user)
	}

	found, err := s.GetUserByUsername("seeker")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found == nil || found.ID != user.ID {
		t.Errorf("lookup returned %+v", found)
	}

	missing, err := s.GetUserByUsername("nobody")
	if err != nil || missing != nil {
		t.Errorf("unknown user: got %+v, %v", missing, err)
	}
}

func TestAssessments_UpsertRoundTrip(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("seeker", "hashed")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.SaveAssessment(user.ID, `{"q1":"a"}`, `[{"path_id":"buddhism"}]`); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SaveAssessment(user.ID, `{"q1":"b"}`, `[{"path_id":"taoism"}]`); err != nil {
		t.Fatalf("resave failed: %v", err)
	}

	saved, err := s.GetAssessment(user.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if saved == nil || saved.AnswersJSON != `{"q1":"b"}` {
		t.Errorf("saved assessment = %+v, want latest answers", saved)
	}

	if err := s.DeleteAssessment(user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	gone, err := s.GetAssessment(user.ID)
	if err != nil || gone != nil {
		t.Errorf("after delete: got %+v, %v", gone, err)
	}
}

func TestMessages_TranscriptPerUserAndPath(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("seeker", "hashed")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, m := range []Message{
		{UserID: user.ID, PathID: "buddhism", Role: "user", Content: "hello"},
		{UserID: user.ID, PathID: "buddhism", Role: "assistant", Content: "welcome"},
		{UserID: user.ID, PathID: "taoism", Role: "user", Content: "other path"},
	} {
		msg := m
		if err := s.CreateMessage(&msg); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if msg.ID == "" {
			t.Error("message id not assigned")
		}
	}

	transcript, err := s.GetMessages(user.ID, "buddhism")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	if transcript[0].Content != "hello" || transcript[1].Content != "welcome" {
		t.Errorf("transcript out of order: %+v", transcript)
	}

	if err := s.DeleteMessages(user.ID, "buddhism"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	remaining, err := s.GetMessages(user.ID, "taoism")
	if err != nil || len(remaining) != 1 {
		t.Errorf("other path transcript affected: %v, %v", remaining, err)
	}
}
