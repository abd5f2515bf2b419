package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the PalmLink API. Register
// and login are public; everything else sits behind bearer-token auth.
//
// Routes:
//
//	POST /api/v1/register            → AuthHandler.Register
//	POST /api/v1/login               → AuthHandler.Login
//	GET  /api/v1/profile             → ProfileHandler.Get
//	POST /api/v1/profile/edit        → ProfileHandler.Edit
//	GET  /api/v1/contact_info        → ContactHandler.List
//	POST /api/v1/contact_info/add    → ContactHandler.Add
//	PUT  /api/v1/contact_info/edit   → ContactHandler.Edit
//	DELETE /api/v1/contact_info/delete → ContactHandler.Delete
//	POST /api/v1/recognize_palm      → ScanHandler.Recognize
//	GET  /api/v1/history             → ScanHandler.Feed
func NewRouter(
	auth *AuthHandler,
	profile *ProfileHandler,
	contacts *ContactHandler,
	scans *ScanHandler,
	validator middleware.TokenValidator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(validator))

			r.Get("/profile", profile.Get)
			r.Post("/profile/edit", profile.Edit)

			r.Get("/contact_info", contacts.List)
			r.Post("/contact_info/add", contacts.Add)
			r.Put("/contact_info/edit", contacts.Edit)
			r.Delete("/contact_info/delete", contacts.Delete)

			r.Post("/recognize_palm", scans.Recognize)
			r.Get("/history", scans.Feed)
		})
	})

	return r
}
