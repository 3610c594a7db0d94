package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"blognest/internal/model"
	"blognest/internal/oauth"
	"blognest/internal/repository"
)

// OAuthService maps verified external profiles onto local accounts: match
// by provider id, else link by email, else create. Persistence relies on
// the unique indexes, so concurrent duplicate callbacks racing on the same
// external profile converge on one account.
type OAuthService struct {
	repo repository.UserRepository
}

func NewOAuthService(repo repository.UserRepository) *OAuthService {
	return &OAuthService{repo: repo}
}

// Authenticate resolves a profile to a user, creating or linking as needed.
func (s *OAuthService) Authenticate(ctx context.Context, profile *oauth.Profile) (*model.User, error) {
	// 1. Already linked: this is a plain login.
	user, err := s.repo.GetByProviderID(ctx, profile.Provider, profile.ProviderID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup by provider id: %w", err)
	}

	email := profile.Email
	if email == "" {
		// Provider withheld the email (GitHub can). The .invalid TLD is
		// reserved and never routable, so the placeholder cannot collide
		// with a real address someone could sign up with later.
		email = syntheticEmail(profile)
	}

	// 2. An account with this email exists: link the provider to it.
	user, err = s.repo.GetByEmail(ctx, email)
	if err == nil {
		return s.link(ctx, user, profile)
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}

	// 3. No match anywhere: create a fresh account.
	return s.create(ctx, profile, email)
}

func (s *OAuthService) link(ctx context.Context, user *model.User, profile *oauth.Profile) (*model.User, error) {
	var photoURL *string
	if profile.PhotoURL != "" {
		photoURL = &profile.PhotoURL
	}

	err := s.repo.LinkProvider(ctx, user.ID, profile.Provider, profile.ProviderID, photoURL)
	if err != nil {
		if errors.Is(err, model.ErrProviderIDExists) {
			// Another callback linked this provider id first; read the
			// winner's row.
			return s.repo.GetByProviderID(ctx, profile.Provider, profile.ProviderID)
		}
		return nil, fmt.Errorf("link %s account: %w", profile.Provider, err)
	}

	slog.Info("linked oauth provider to existing account",
		"provider", profile.Provider, "user_id", user.ID)

	return s.repo.GetByID(ctx, user.ID)
}

func (s *OAuthService) create(ctx context.Context, profile *oauth.Profile, email string) (*model.User, error) {
	firstname := profile.Firstname
	if firstname == "" {
		firstname = profile.Username
	}

	user := &model.User{
		Firstname:    firstname,
		Lastname:     profile.Lastname,
		Username:     generateUsername(profile, email),
		Email:        email,
		AuthProvider: profile.Provider,
	}
	if profile.PhotoURL != "" {
		user.ProfilePicture = &profile.PhotoURL
	}
	switch profile.Provider {
	case model.ProviderGoogle:
		user.GoogleID = &profile.ProviderID
	case model.ProviderGitHub:
		user.GitHubID = &profile.ProviderID
	default:
		return nil, fmt.Errorf("unknown auth provider %q", profile.Provider)
	}

	err := s.repo.Create(ctx, user)
	if err == nil {
		slog.Info("created account from oauth profile",
			"provider", profile.Provider, "user_id", user.ID)
		return user, nil
	}

	// A concurrent callback may have created the account between our
	// lookups and this insert. The unique indexes decide the winner; fall
	// back to reading whichever row won.
	switch {
	case errors.Is(err, model.ErrProviderIDExists):
		return s.repo.GetByProviderID(ctx, profile.Provider, profile.ProviderID)
	case errors.Is(err, model.ErrEmailExists):
		existing, lookupErr := s.repo.GetByEmail(ctx, email)
		if lookupErr != nil {
			return nil, fmt.Errorf("create oauth account: %w", err)
		}
		return s.link(ctx, existing, profile)
	case errors.Is(err, model.ErrUsernameExists):
		// Timestamp suffix collided. The same millisecond can produce the
		// same suffix again, so the one retry switches to a random one.
		user.ID = 0
		user.Username = fmt.Sprintf("%s_%s", usernameBase(profile, email), uuid.NewString()[:8])
		if retryErr := s.repo.Create(ctx, user); retryErr != nil {
			return nil, fmt.Errorf("create oauth account: %w", retryErr)
		}
		return user, nil
	default:
		return nil, fmt.Errorf("create oauth account: %w", err)
	}
}

// syntheticEmail builds a provider-prefixed placeholder under the reserved
// .invalid TLD for profiles without an email.
func syntheticEmail(profile *oauth.Profile) string {
	local := profile.Username
	if local == "" {
		local = profile.ProviderID
	}
	return fmt.Sprintf("%s@%s.invalid", strings.ToLower(local), profile.Provider)
}

// usernameBase picks the stem for a generated username: the provider
// username, else the email local part.
func usernameBase(profile *oauth.Profile, email string) string {
	base := profile.Username
	if base == "" {
		base = email
		if idx := strings.Index(base, "@"); idx != -1 {
			base = base[:idx]
		}
	}
	return strings.ToLower(base)
}

// generateUsername derives a username from the base, suffixed with the
// current timestamp since providers don't guarantee collision-free names.
func generateUsername(profile *oauth.Profile, email string) string {
	return fmt.Sprintf("%s_%d", usernameBase(profile, email), time.Now().UnixMilli())
}
