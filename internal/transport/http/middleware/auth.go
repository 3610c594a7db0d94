package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"blognest/internal/httputil"
	"blognest/internal/model"
	"blognest/internal/repository"
	"blognest/internal/service"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	blogKey     contextKey = "blog"
)

// AuthCookieName is the HTTP-only cookie carrying the bearer token.
const AuthCookieName = "uid"

// Resolve extracts the token from the uid cookie (or an Authorization
// bearer header) and attaches the verified identity to the request
// context. It never blocks a request: a missing or invalid token just
// leaves the identity unset.
func Resolve(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw != "" {
				if identity := tokens.Verify(raw); identity != nil {
					ctx := context.WithValue(r.Context(), identityKey, identity)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// RequireAuth rejects requests that reached it without a resolved identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentity(r.Context()); !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOwner loads the blog named by the {id} route parameter and only
// lets the request through when the current identity authored it. The
// loaded blog is attached to the context so handlers don't re-fetch it.
func RequireOwner(blogs repository.BlogRepository, errs *httputil.Classifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			blogID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				httputil.WriteError(w, http.StatusBadRequest, "invalid blog id")
				return
			}

			blog, err := blogs.GetByID(r.Context(), blogID)
			if err != nil {
				errs.Write(w, r, err)
				return
			}

			if blog.AuthorID != identity.ID {
				errs.Write(w, r, model.ErrNotBlogAuthor)
				return
			}

			ctx := context.WithValue(r.Context(), blogKey, blog)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the authenticated identity attached by Resolve.
func GetIdentity(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*model.Identity)
	return identity, ok
}

// GetBlog returns the owner-verified blog attached by RequireOwner.
func GetBlog(ctx context.Context) (*model.Blog, bool) {
	blog, ok := ctx.Value(blogKey).(*model.Blog)
	return blog, ok
}
