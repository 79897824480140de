package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS assessments (
        user_id INTEGER PRIMARY KEY,
        answers_json TEXT NOT NULL,
        results_json TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        path_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        content TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE INDEX IF NOT EXISTS idx_messages_user_path ON messages (user_id, path_id, timestamp);
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) GetUserByUsername(username string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(username, passwordHash string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (username, password_hash) VALUES (?, ?)", username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, username, password_hash, created_at FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Assessment methods

func (s *SQLiteStore) SaveAssessment(userID int64, answersJSON, resultsJSON string) error {
	stmt, err := s.db.Prepare(`
        INSERT INTO assessments (user_id, answers_json, results_json, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            answers_json = excluded.answers_json,
            results_json = excluded.results_json,
            updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare assessment upsert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(userID, answersJSON, resultsJSON, time.Now()); err != nil {
		return fmt.Errorf("failed to execute assessment upsert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAssessment(userID int64) (*Assessment, error) {
	var a Assessment
	err := s.db.QueryRow("SELECT user_id, answers_json, results_json, updated_at FROM assessments WHERE user_id = ?", userID).
		Scan(&a.UserID, &a.AnswersJSON, &a.ResultsJSON, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No saved assessment
		}
		return nil, fmt.Errorf("failed to query assessment: %w", err)
	}
	return &a, nil
}

func (s *SQLiteStore) DeleteAssessment(userID int64) error {
	if _, err := s.db.Exec("DELETE FROM assessments WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	return nil
}

// Message methods

func (s *SQLiteStore) CreateMessage(msg *Message) error {
	msg.ID = uuid.NewString() // Ensure ID is set
	msg.Timestamp = time.Now()

	stmt, err := s.db.Prepare("INSERT INTO messages (id, user_id, path_id, role, content, timestamp) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(msg.ID, msg.UserID, msg.PathID, msg.Role, msg.Content, msg.Timestamp); err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMessages(userID int64, pathID string) ([]Message, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, path_id, role, content, timestamp FROM messages WHERE user_id = ? AND path_id = ? ORDER BY timestamp ASC",
		userID, pathID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.PathID, &msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *SQLiteStore) DeleteMessages(userID int64, pathID string) error {
	if _, err := s.db.Exec("DELETE FROM messages WHERE user_id = ? AND path_id = ?", userID, pathID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}
