package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"blognest/internal/config"
	"blognest/internal/httputil"
	"blognest/internal/oauth"
	"blognest/internal/service"
	"blognest/internal/transport/http/middleware"
)

const stateCookieName = "oauth_state"

// stateTTLSeconds bounds how long a pending OAuth redirect stays valid.
const stateTTLSeconds = 600

// AuthHandler runs the OAuth redirect dance and the session endpoints.
type AuthHandler struct {
	providers    map[string]oauth.Provider
	oauthService *service.OAuthService
	tokenService *service.TokenService
	cfg          *config.Config
	errs         *httputil.Classifier
}

func NewAuthHandler(providers map[string]oauth.Provider, oauthService *service.OAuthService, tokenService *service.TokenService, cfg *config.Config, errs *httputil.Classifier) *AuthHandler {
	return &AuthHandler{
		providers:    providers,
		oauthService: oauthService,
		tokenService: tokenService,
		cfg:          cfg,
		errs:         errs,
	}
}

// Login handles GET /auth/{provider}: set a CSRF state cookie and bounce
// the browser to the provider's consent screen.
func (h *AuthHandler) Login(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.providers[provider]
		if !ok {
			httputil.WriteError(w, http.StatusNotFound, "unknown provider")
			return
		}

		state := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/",
			MaxAge:   stateTTLSeconds,
			HttpOnly: true,
			Secure:   h.cfg.IsProduction(),
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, p.AuthURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback handles GET /auth/{provider}/callback. Every failure path lands
// the browser back on the frontend with login=failed; only the state check
// and code exchange distinguish them in the logs.
func (h *AuthHandler) Callback(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.providers[provider]
		if !ok {
			h.redirectFailed(w, r)
			return
		}

		stateCookie, err := r.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			slog.Warn("oauth state mismatch", "provider", provider)
			h.redirectFailed(w, r)
			return
		}
		// One shot per state.
		http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

		code := r.URL.Query().Get("code")
		if code == "" {
			h.redirectFailed(w, r)
			return
		}

		profile, err := p.Exchange(r.Context(), code)
		if err != nil {
			slog.Error("oauth exchange failed", "provider", provider, "error", err)
			h.redirectFailed(w, r)
			return
		}

		user, err := h.oauthService.Authenticate(r.Context(), profile)
		if err != nil {
			slog.Error("oauth authentication failed", "provider", provider, "error", err)
			h.redirectFailed(w, r)
			return
		}

		token, err := h.tokenService.Issue(user)
		if err != nil {
			slog.Error("failed to issue token", "provider", provider, "error", err)
			h.redirectFailed(w, r)
			return
		}

		setAuthCookie(w, h.cfg, token)
		http.Redirect(w, r, h.cfg.FrontendURL+"?login=success", http.StatusTemporaryRedirect)
	}
}

func (h *AuthHandler) redirectFailed(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.cfg.FrontendURL+"?login=failed", http.StatusTemporaryRedirect)
}

// Logout handles GET /auth/logout. Tokens are not revocable server-side;
// dropping the cookie ends the browser session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, h.cfg)
	httputil.WriteSuccess(w, http.StatusOK, "logged out", nil)
}

// Me handles GET /auth/me, echoing the identity snapshot from the token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{
		"user": identity,
	})
}
