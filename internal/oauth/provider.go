// Package oauth holds the provider adapters for third-party login. Each
// adapter normalizes its provider's profile shape into Profile, so the
// link-or-create logic downstream stays provider-agnostic.
package oauth

import (
	"context"
	"strings"
)

// Profile is the canonical external identity handed to the auth bridge.
type Profile struct {
	Provider   string // "google" or "github"
	ProviderID string
	Email      string // empty when the provider withholds it
	Firstname  string
	Lastname   string
	Username   string // provider-local username, may be empty
	PhotoURL   string
}

// Provider runs the authorization-code flow for one identity provider.
type Provider interface {
	Name() string
	// AuthURL returns the provider's authorization endpoint with the given
	// CSRF state baked in.
	AuthURL(state string) string
	// Exchange trades the callback code for a normalized profile.
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// splitName breaks a display name into first/last on the first space.
// "Ada Lovelace King" becomes ("Ada", "Lovelace King"); a single word
// becomes the firstname with an empty lastname.
func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
