package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"flashdeck-backend/internal/handlers"
	"flashdeck-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	flashcardHandler *handlers.FlashcardHandler,
	documentHandler *handlers.DocumentHandler,
	aiHandler *handlers.AIHandler,
	studySessionHandler *handlers.StudySessionHandler,
	dashboardHandler *handlers.DashboardHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/token", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// These require auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
				r.Put("/update-profile", authHandler.UpdateProfile)
				r.Put("/change-password", authHandler.ChangePassword)
			})
		})

		// ──── Flashcard Routes ────
		r.Route("/flashcards/sets", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", flashcardHandler.CreateSet)
			r.Get("/", flashcardHandler.ListSets)
			r.Get("/{id}", flashcardHandler.GetSet)
			r.Put("/{id}", flashcardHandler.UpdateSet)
			r.Delete("/{id}", flashcardHandler.DeleteSet)

			r.Post("/{id}/cards", flashcardHandler.CreateCard)
			r.Get("/{id}/cards", flashcardHandler.ListCards)
			r.Put("/{id}/cards/{cardID}", flashcardHandler.UpdateCard)
			r.Delete("/{id}/cards/{cardID}", flashcardHandler.DeleteCard)
		})

		// ──── Document Routes ────
		r.Route("/documents", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/upload", documentHandler.Upload)
			r.Get("/", documentHandler.List)
			r.Get("/text/{name}", documentHandler.GetText)
			r.Delete("/{name}", documentHandler.Delete)
		})

		// ──── AI Generation Routes ────
		r.Route("/ai", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/generate-flashcards", aiHandler.GenerateFromText)
			r.Post("/generate-from-document", aiHandler.GenerateFromDocument)
		})

		// ──── Study Session Routes ────
		r.Route("/study", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/sessions/start", studySessionHandler.Start)
			r.Get("/sessions", studySessionHandler.List)
			r.Get("/sessions/{id}", studySessionHandler.Get)
			r.Put("/sessions/{id}/end", studySessionHandler.End)
			r.Post("/sessions/{id}/progress", studySessionHandler.RecordProgress)

			r.Get("/progress/flashcard/{id}", studySessionHandler.CardProgress)
			r.Get("/progress/set/{id}", studySessionHandler.SetProgress)
			r.Get("/stats/set/{id}", studySessionHandler.SetStats)
		})

		// ──── Dashboard Routes ────
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/summary", dashboardHandler.Summary)
			r.Get("/activity", dashboardHandler.Activity)
			r.Get("/sets/stats", dashboardHandler.SetsStats)
			r.Get("/study-time", dashboardHandler.StudyTime)
		})
	})

	return r
}
