package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Catalog routes
			r.Get("/questions", apiHandler.ListQuestionsHandler)
			r.Get("/paths", apiHandler.ListPathsHandler)

			// Assessment routes
			r.Post("/assessment", apiHandler.SubmitAssessmentHandler)
			r.Get("/assessment", apiHandler.GetAssessmentHandler)
			r.Post("/assessment/reset", apiHandler.ResetAssessmentHandler)

			// Per-path conversation routes
			r.Post("/paths/{pathID}/messages", apiHandler.PostMessageHandler)
			r.Get("/paths/{pathID}/messages", apiHandler.GetMessagesHandler)
			r.Post("/paths/{pathID}/reset", apiHandler.ResetConversationHandler)
		})
	})

	return r
}
