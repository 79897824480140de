package core

import (
	"context"
	"fmt"
	"log"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/convo"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/store"
)

// Generator is the external text-generation backend: prompt in, text out.
type Generator interface {
	GetChatCompletion(ctx context.Context, prompt string) (string, error)
}

// ChatService orchestrates one chat turn: conversation manager for state
// and prompt assembly, the generation backend for the reply, and the
// store for the durable transcript.
type ChatService struct {
	dbStore *store.SQLiteStore
	convos  *convo.Manager
	llm     Generator
}

func NewChatService(db *store.SQLiteStore, convos *convo.Manager, llm Generator) *ChatService {
	return &ChatService{
		dbStore: db,
		convos:  convos,
		llm:     llm,
	}
}

// PostMessage runs a full turn for a (user, path) session and returns the
// stored assistant message. Errors from the conversation manager
// (SessionBusyError in particular) pass through unwrapped so handlers can
// map them to status codes.
func (s *ChatService) PostMessage(ctx context.Context, userID int64, pathID, content string) (*store.Message, error) {
	key := convo.Key{UserID: userID, PathID: pathID}

	if err := s.restoreSession(key); err != nil {
		log.Printf("Failed to restore transcript for user %d path %s: %v", userID, pathID, err)
	}

	prompt, err := s.convos.HandleMessage(key, content)
	if err != nil {
		return nil, err
	}

	userMsg := store.Message{UserID: userID, PathID: pathID, Role: convo.RoleUser, Content: content}
	if err := s.dbStore.CreateMessage(&userMsg); err != nil {
		log.Printf("Failed to persist user message for user %d path %s: %v", userID, pathID, err)
	}

	reply, err := s.llm.GetChatCompletion(ctx, prompt)
	if err != nil {
		// Release the session so the next message can proceed cleanly.
		s.convos.Abort(key)
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	if err := s.convos.AppendReply(key, reply); err != nil {
		return nil, fmt.Errorf("failed to record reply: %w", err)
	}

	assistantMsg := store.Message{UserID: userID, PathID: pathID, Role: convo.RoleAssistant, Content: reply}
	if err := s.dbStore.CreateMessage(&assistantMsg); err != nil {
		log.Printf("Failed to persist assistant message for user %d path %s: %v", userID, pathID, err)
	}
	return &assistantMsg, nil
}

// restoreSession seeds the in-memory session from the persisted transcript
// after a restart. The manager ignores the seed if the session already has
// state.
func (s *ChatService) restoreSession(key convo.Key) error {
	if len(s.convos.History(key)) > 0 {
		return nil
	}
	stored, err := s.dbStore.GetMessages(key.UserID, key.PathID)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		return nil
	}
	history := make([]convo.Message, len(stored))
	for i, msg := range stored {
		history[i] = convo.Message{Role: msg.Role, Content: msg.Content}
	}
	s.convos.Seed(key, history)
	return nil
}

// GetTranscript returns the persisted conversation for a (user, path).
func (s *ChatService) GetTranscript(userID int64, pathID string) ([]store.Message, error) {
	return s.dbStore.GetMessages(userID, pathID)
}

// ResetConversation discards both the live session and the stored
// transcript.
func (s *ChatService) ResetConversation(userID int64, pathID string) error {
	key := convo.Key{UserID: userID, PathID: pathID}
	s.convos.Reset(key)
	return s.dbStore.DeleteMessages(userID, pathID)
}
