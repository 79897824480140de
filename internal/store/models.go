package store

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// Assessment is a user's saved questionnaire submission: the raw answers
// and the full ranking computed from them, both stored as JSON.
type Assessment struct {
	UserID      int64     `json:"user_id"`
	AnswersJSON string    `json:"-"`
	ResultsJSON string    `json:"-"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message is one turn of a (user, path) conversation transcript.
type Message struct {
	ID        string    `json:"id"` // UUID
	UserID    int64     `json:"user_id"`
	PathID    string    `json:"path_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
