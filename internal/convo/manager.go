// Package convo owns per-(user, path) conversation state: the append-only
// message history, the one-request-at-a-time busy flag, and the assembly
// of the grounded prompt handed to the generation backend.
package convo

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/catalog"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/index"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/retrieval"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// DefaultHistoryWindow bounds how many prior messages are replayed
	// into the prompt; older turns are dropped first.
	DefaultHistoryWindow = 5
)

// Key identifies one conversation session.
type Key struct {
	UserID int64
	PathID string
}

// Message is a single turn in a session's history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionBusyError is returned when a message arrives for a session that
// is still awaiting the reply to a previous message.
type SessionBusyError struct {
	Key Key
}

func (e *SessionBusyError) Error() string {
	return fmt.Sprintf("session (user %d, path %s) is awaiting a reply", e.Key.UserID, e.Key.PathID)
}

// NoPendingRequestError is returned when a reply is appended to a session
// with no outstanding request.
type NoPendingRequestError struct {
	Key Key
}

func (e *NoPendingRequestError) Error() string {
	return fmt.Sprintf("session (user %d, path %s) has no pending request", e.Key.UserID, e.Key.PathID)
}

type session struct {
	mu      sync.Mutex
	busy    bool
	history []Message
}

// Manager serializes access per session while letting distinct sessions
// proceed independently. The catalog and index it reads are immutable.
type Manager struct {
	mu       sync.Mutex
	sessions map[Key]*session

	cat    *catalog.Catalog
	idx    *index.Index
	topK   int
	window int
}

func NewManager(cat *catalog.Catalog, idx *index.Index, topK, historyWindow int) *Manager {
	if topK <= 0 {
		topK = 3
	}
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Manager{
		sessions: make(map[Key]*session),
		cat:      cat,
		idx:      idx,
		topK:     topK,
		window:   historyWindow,
	}
}

func (m *Manager) session(key Key) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		s = &session{}
		m.sessions[key] = s
	}
	return s
}

// HandleMessage accepts a user message, appends it to the session history,
// and returns the assembled grounded prompt. The session transitions to
// awaiting-reply; a second message before AppendReply (or Abort) fails
// fast with SessionBusyError rather than queueing.
func (m *Manager) HandleMessage(key Key, text string) (string, error) {
	path := m.cat.Path(key.PathID)
	if path == nil {
		return "", fmt.Errorf("unknown path %q", key.PathID)
	}

	s := m.session(key)
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return "", &SessionBusyError{Key: key}
	}
	s.busy = true
	s.history = append(s.history, Message{Role: RoleUser, Content: text})
	prior := s.history[:len(s.history)-1]
	if len(prior) > m.window {
		prior = prior[len(prior)-m.window:]
	}
	window := make([]Message, len(prior))
	copy(window, prior)
	s.mu.Unlock()

	// Retrieval failure degrades to an ungrounded prompt; the backend can
	// still answer from the preamble and history.
	chunks, err := retrieval.Retrieve(m.idx, key.PathID, text, m.topK)
	if err != nil {
		log.Printf("Failed to retrieve grounding for path %s, proceeding without it: %v", key.PathID, err)
		chunks = nil
	}

	return assemblePrompt(path, chunks, window, text), nil
}

// AppendReply records the assistant's reply and returns the session to
// idle. Calling it with no outstanding request is a protocol error.
func (m *Manager) AppendReply(key Key, text string) error {
	s := m.session(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.busy {
		return &NoPendingRequestError{Key: key}
	}
	s.history = append(s.history, Message{Role: RoleAssistant, Content: text})
	s.busy = false
	return nil
}

// Abort releases the busy state after a failed or timed-out generation
// call so the session never stays stuck awaiting a reply. The user
// message stays in history; history is append-only.
func (m *Manager) Abort(key Key) {
	s := m.session(key)
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// History returns a copy of the session's messages.
func (m *Manager) History(key Key) []Message {
	s := m.session(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Seed preloads a persisted transcript into an empty idle session, e.g.
// after a restart. It is a no-op if the session already has state.
func (m *Manager) Seed(key Key, history []Message) {
	s := m.session(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy || len(s.history) > 0 {
		return
	}
	s.history = append(s.history, history...)
}

// Reset discards a session entirely.
func (m *Manager) Reset(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

func assemblePrompt(path *catalog.Path, chunks []index.Chunk, window []Message, userText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a spiritual guide for %s.\n", path.Name)
	fmt.Fprintf(&b, "Info: %s | Practices: %s | Beliefs: %s\n", path.Description, path.Practices, path.CoreBeliefs)
	b.WriteString(`Rules: Keep 30-50 words, be respectful, use * for bullet points (format: "Text: * item * item"), answer directly.`)
	b.WriteString("\n")

	if len(chunks) > 0 {
		b.WriteString("\n--- CONTEXT START ---\n")
		for _, chunk := range chunks {
			b.WriteString(chunk.Text)
			b.WriteString("\n\n")
		}
		b.WriteString("--- CONTEXT END ---\n")
	}

	if len(window) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, msg := range window {
			label := "User"
			if msg.Role == RoleAssistant {
				label = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", label, msg.Content)
		}
	}

	fmt.Fprintf(&b, "\nUser: %s\nAssistant:", userText)
	return b.String()
}
