package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blognest/internal/httputil"
	"blognest/internal/model"
	"blognest/internal/service"
)

type stubBlogRepo struct {
	blog *model.Blog
	err  error
}

func (s *stubBlogRepo) Create(ctx context.Context, blog *model.Blog) error { return nil }
func (s *stubBlogRepo) GetByID(ctx context.Context, blogID int64) (*model.Blog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.blog, nil
}
func (s *stubBlogRepo) List(ctx context.Context) ([]model.Blog, error) { return nil, nil }
func (s *stubBlogRepo) ListByAuthor(ctx context.Context, authorID int64) ([]model.Blog, error) {
	return nil, nil
}
func (s *stubBlogRepo) Update(ctx context.Context, blogID int64, update model.BlogUpdate) (*model.Blog, error) {
	return nil, nil
}
func (s *stubBlogRepo) Delete(ctx context.Context, blogID int64) error { return nil }
func (s *stubBlogRepo) ToggleLike(ctx context.Context, blogID, userID int64) (*model.LikeResult, error) {
	return nil, nil
}
func (s *stubBlogRepo) IsLiked(ctx context.Context, blogID, userID int64) (bool, error) {
	return false, nil
}
func (s *stubBlogRepo) GetCounts(ctx context.Context, blogID int64) (int, int, error) {
	return 0, 0, nil
}

func issueTestToken(t *testing.T, tokens *service.TokenService, userID int64) string {
	t.Helper()
	token, err := tokens.Issue(&model.User{ID: userID, Username: "ada", CreatedAt: time.Now()})
	require.NoError(t, err)
	return token
}

func TestResolve(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)

	var gotIdentity *model.Identity
	handler := Resolve(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, _ = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid cookie", func(t *testing.T) {
		gotIdentity = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: issueTestToken(t, tokens, 42)})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, gotIdentity)
		assert.Equal(t, int64(42), gotIdentity.ID)
	})

	t.Run("bearer header", func(t *testing.T) {
		gotIdentity = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, tokens, 7))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, gotIdentity)
		assert.Equal(t, int64(7), gotIdentity.ID)
	})

	t.Run("garbage token passes through unauthenticated", func(t *testing.T) {
		gotIdentity = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "not-a-token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Nil(t, gotIdentity)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no token passes through unauthenticated", func(t *testing.T) {
		gotIdentity = nil
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Nil(t, gotIdentity)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("rejects anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("passes authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), identityKey, &model.Identity{ID: 1})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireOwner(t *testing.T) {
	errs := httputil.NewClassifier(true)

	newRouter := func(repo *stubBlogRepo, identity *model.Identity) chi.Router {
		r := chi.NewRouter()
		if identity != nil {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					ctx := context.WithValue(req.Context(), identityKey, identity)
					next.ServeHTTP(w, req.WithContext(ctx))
				})
			})
		}
		r.With(RequireOwner(repo, errs)).Put("/blog/update/{id}", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		return r
	}

	t.Run("owner passes with blog attached", func(t *testing.T) {
		repo := &stubBlogRepo{blog: &model.Blog{ID: 5, AuthorID: 1}}

		var seen *model.Blog
		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), identityKey, &model.Identity{ID: 1})
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		r.With(RequireOwner(repo, errs)).Put("/blog/update/{id}", func(w http.ResponseWriter, req *http.Request) {
			seen, _ = GetBlog(req.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/blog/update/5", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, int64(5), seen.ID)
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		repo := &stubBlogRepo{blog: &model.Blog{ID: 5, AuthorID: 2}}
		r := newRouter(repo, &model.Identity{ID: 1})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/blog/update/5", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing blog gets 404", func(t *testing.T) {
		repo := &stubBlogRepo{err: model.ErrBlogNotFound}
		r := newRouter(repo, &model.Identity{ID: 1})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/blog/update/99", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("anonymous gets 401 before any lookup", func(t *testing.T) {
		repo := &stubBlogRepo{blog: &model.Blog{ID: 5, AuthorID: 1}}
		r := newRouter(repo, nil)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/blog/update/5", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad id gets 400", func(t *testing.T) {
		repo := &stubBlogRepo{blog: &model.Blog{ID: 5, AuthorID: 1}}
		r := newRouter(repo, &model.Identity{ID: 1})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/blog/update/abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
