package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blognest/internal/handler"
	"blognest/internal/httputil"
	"blognest/internal/repository"
	"blognest/internal/service"
	authmw "blognest/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler    *handler.UserHandler
	AuthHandler    *handler.AuthHandler
	BlogHandler    *handler.BlogHandler
	CommentHandler *handler.CommentHandler
	TokenService   *service.TokenService
	BlogRepo       repository.BlogRepository
	Errors         *httputil.Classifier
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Identity resolution runs on every request; it attaches the current
	// user when the cookie holds a valid token and stays silent otherwise.
	r.Use(authmw.Resolve(cfg.TokenService))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/user", func(r chi.Router) {
		r.Post("/", cfg.UserHandler.Signup)
		r.Post("/login", cfg.UserHandler.Login)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/google", cfg.AuthHandler.Login("google"))
		r.Get("/google/callback", cfg.AuthHandler.Callback("google"))
		r.Get("/github", cfg.AuthHandler.Login("github"))
		r.Get("/github/callback", cfg.AuthHandler.Callback("github"))
		r.Get("/logout", cfg.AuthHandler.Logout)
		r.Get("/me", cfg.AuthHandler.Me)
	})

	r.Route("/blog", func(r chi.Router) {
		// Public reads; like status and counters render for anyone.
		r.Get("/read", cfg.BlogHandler.List)
		r.Get("/read/{id}", cfg.BlogHandler.GetByID)
		r.Get("/{id}/stats", cfg.BlogHandler.Stats)
		r.Post("/{id}/share", cfg.BlogHandler.Share)

		// Writes require a signed-in user.
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth)

			r.Get("/mine", cfg.BlogHandler.Mine)
			r.Post("/create", cfg.BlogHandler.Create)
			r.Post("/{id}/like", cfg.BlogHandler.ToggleLike)
			r.Post("/{id}/comment", cfg.CommentHandler.Add)
			r.Delete("/{id}/comment/{commentId}", cfg.CommentHandler.Delete)

			// Author-only mutations; the middleware loads the blog and
			// verifies ownership before the handler runs.
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireOwner(cfg.BlogRepo, cfg.Errors))

				r.Put("/update/{id}", cfg.BlogHandler.Update)
				r.Delete("/delete/{id}", cfg.BlogHandler.Delete)
			})
		})
	})

	return r
}
