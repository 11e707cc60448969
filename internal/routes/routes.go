package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/learnlog/learnlog-backend/internal/handlers"
)

// SetupRoutes wires the auth and entry endpoints onto the router.
func SetupRoutes(r *chi.Mux, auth *handlers.AuthHandler, entries *handlers.EntryHandler) {
	// Auth routes
	r.Post("/api/auth/signup", auth.Signup)
	r.Post("/api/auth/signin", auth.Signin)
	r.Post("/api/auth/signout", auth.Signout)
	r.Get("/api/auth/me", auth.GetMe)

	// Learning-log entry routes (all require an authenticated session)
	r.Post("/api/entries", entries.CreateEntry)
	r.Get("/api/entries", entries.GetEntries)
	r.Get("/api/entries/{entryID}", entries.GetEntry)
	r.Put("/api/entries/{entryID}", entries.UpdateEntry)
	r.Delete("/api/entries/{entryID}", entries.DeleteEntry)
}
