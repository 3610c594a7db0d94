package handler

import (
	"net/http"

	"blognest/internal/config"
	"blognest/internal/transport/http/middleware"
)

// setAuthCookie installs the bearer token as an HTTP-only session cookie.
// Secure/strict attributes are production-only so local HTTP development
// and cross-port frontends keep working.
func setAuthCookie(w http.ResponseWriter, cfg *config.Config, token string) {
	sameSite := http.SameSiteLaxMode
	if cfg.IsProduction() {
		sameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: sameSite,
	})
}

// clearAuthCookie expires the session cookie immediately.
func clearAuthCookie(w http.ResponseWriter, cfg *config.Config) {
	sameSite := http.SameSiteLaxMode
	if cfg.IsProduction() {
		sameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: sameSite,
	})
}
