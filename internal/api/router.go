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

	// All API routes live under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Post("/login", apiHandler.LoginHandler)
		r.Post("/register", apiHandler.RegisterHandler)

		r.Route("/crash-course", func(r chi.Router) {
			r.Post("/", apiHandler.CreateCrashCourseHandler)
			r.Get("/user/{userID}", apiHandler.ListCrashCoursesHandler)
			r.Delete("/user/{userID}/{courseID}", apiHandler.DeleteCrashCourseHandler)
		})

		r.Route("/summary", func(r chi.Router) {
			r.Post("/", apiHandler.CreateSummaryHandler)
			r.Post("/token-count", apiHandler.TokenCountHandler)
			r.Get("/user/{userID}", apiHandler.ListSummariesHandler)
			r.Delete("/user/{userID}/{summaryID}", apiHandler.DeleteSummaryHandler)
		})
	})

	return r
}
