package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marden/tetrion/internal/guideservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *guideservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Pages.
	r.Get("/pages", h.ListPages)
	r.Get("/pages/*", h.GetPage)
	r.Put("/pages/*", h.SavePage)

	// Boards.
	r.Put("/boards/*", h.SaveBoard)

	// Sidebar navigation.
	r.Get("/sidebar", h.Sidebar)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
