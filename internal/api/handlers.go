package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/auth"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/catalog"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/convo"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/core"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/format"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/scoring"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/store"
	"github.com/go-chi/chi/v5"
)

type APIHandler struct {
	dbStore     *store.SQLiteStore
	cat         *catalog.Catalog
	assessments *core.AssessmentService
	chats       *core.ChatService
}

func NewAPIHandler(db *store.SQLiteStore, cat *catalog.Catalog, as *core.AssessmentService, cs *core.ChatService) *APIHandler {
	return &APIHandler{dbStore: db, cat: cat, assessments: as, chats: cs}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		username, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.dbStore.GetUserByUsername(username)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %s: %v", username, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}

		if user == nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	existing, err := h.dbStore.GetUserByUsername(req.Username)
	if err != nil {
		log.Printf("Error checking user %s: %v", req.Username, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Username already exists", http.StatusConflict)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.Username, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	user, err := h.dbStore.CreateUser(req.Username, hashedPassword)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.Username, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.dbStore.GetUserByUsername(req.Username)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.Username, err)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(req.Username)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.Username, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// Question/path listing. Option weights are server-side configuration and
// are not exposed to clients.

type questionView struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"prompt"`
	Options []optionView `json:"options"`
}

type optionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (h *APIHandler) ListQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	views := make([]questionView, 0, len(h.cat.Questions))
	for _, q := range h.cat.Questions {
		qv := questionView{ID: q.ID, Prompt: q.Prompt}
		for _, opt := range q.Options {
			qv.Options = append(qv.Options, optionView{ID: opt.ID, Text: opt.Text})
		}
		views = append(views, qv)
	}
	json.NewEncoder(w).Encode(views)
}

type pathView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Practices   string `json:"practices"`
	CoreBeliefs string `json:"core_beliefs"`
}

func (h *APIHandler) ListPathsHandler(w http.ResponseWriter, r *http.Request) {
	views := make([]pathView, 0, len(h.cat.Paths))
	for _, p := range h.cat.Paths {
		views = append(views, pathView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Practices:   p.Practices,
			CoreBeliefs: p.CoreBeliefs,
		})
	}
	json.NewEncoder(w).Encode(views)
}

// Assessment endpoints

type SubmitAssessmentRequest struct {
	Answers []struct {
		QuestionID string `json:"question_id"`
		OptionID   string `json:"option_id"`
	} `json:"answers"`
}

func (h *APIHandler) SubmitAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req SubmitAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	answers := make(scoring.AnswerSet, len(req.Answers))
	for _, a := range req.Answers {
		if _, dup := answers[a.QuestionID]; dup {
			http.Error(w, "Duplicate answer for question "+a.QuestionID, http.StatusBadRequest)
			return
		}
		answers[a.QuestionID] = a.OptionID
	}

	recs, err := h.assessments.Submit(userID, answers)
	if err != nil {
		var incomplete *scoring.IncompleteAssessmentError
		var invalid *scoring.InvalidAnswerError
		switch {
		case errors.As(err, &incomplete):
			http.Error(w, "Please answer all questions! Missing: "+strings.Join(incomplete.Missing, ", "), http.StatusBadRequest)
		case errors.As(err, &invalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error scoring assessment for user %d: %v", userID, err)
			http.Error(w, "Failed to process assessment", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(map[string]any{"results": recs})
}

func (h *APIHandler) GetAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	recs, err := h.assessments.Results(userID)
	if err != nil {
		log.Printf("Error loading assessment for user %d: %v", userID, err)
		http.Error(w, "Failed to load assessment", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		http.Error(w, "No assessment on record", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"results": recs})
}

func (h *APIHandler) ResetAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	if err := h.assessments.Reset(userID); err != nil {
		log.Printf("Error resetting assessment for user %d: %v", userID, err)
		http.Error(w, "Failed to reset assessment", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Chat endpoints

type PostMessageRequest struct {
	Content string `json:"content"`
}

type PostMessageResponse struct {
	*store.Message
	Rendered []string `json:"rendered"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	pathID := chi.URLParam(r, "pathID")

	if h.cat.Path(pathID) == nil {
		http.Error(w, "Path not found", http.StatusNotFound)
		return
	}

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		http.Error(w, "Message content cannot be empty", http.StatusBadRequest)
		return
	}

	msg, err := h.chats.PostMessage(r.Context(), userID, pathID, req.Content)
	if err != nil {
		var busy *convo.SessionBusyError
		if errors.As(err, &busy) {
			http.Error(w, "A reply is still being generated for this conversation, try again shortly", http.StatusConflict)
			return
		}
		log.Printf("Error posting message for user %d, path %s: %v", userID, pathID, err)
		http.Error(w, "Failed to generate a reply, please retry", http.StatusBadGateway)
		return
	}

	json.NewEncoder(w).Encode(PostMessageResponse{Message: msg, Rendered: format.Render(msg.Content)})
}

func (h *APIHandler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	pathID := chi.URLParam(r, "pathID")

	if h.cat.Path(pathID) == nil {
		http.Error(w, "Path not found", http.StatusNotFound)
		return
	}

	messages, err := h.chats.GetTranscript(userID, pathID)
	if err != nil {
		log.Printf("Error loading transcript for user %d, path %s: %v", userID, pathID, err)
		http.Error(w, "Failed to load messages", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(messages)
}

func (h *APIHandler) ResetConversationHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	pathID := chi.URLParam(r, "pathID")

	if h.cat.Path(pathID) == nil {
		http.Error(w, "Path not found", http.StatusNotFound)
		return
	}

	if err := h.chats.ResetConversation(userID, pathID); err != nil {
		log.Printf("Error resetting conversation for user %d, path %s: %v", userID, pathID, err)
		http.Error(w, "Failed to reset conversation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
