package service

import (
	"context"
	"strings"
	"testing"

	"blognest/internal/model"
	"blognest/internal/oauth"
)

func githubProfile() *oauth.Profile {
	return &oauth.Profile{
		Provider:   model.ProviderGitHub,
		ProviderID: "4242",
		Email:      "ada@example.com",
		Firstname:  "Ada",
		Lastname:   "Lovelace",
		Username:   "AdaL",
		PhotoURL:   "https://avatars.example/ada.png",
	}
}

func TestOAuthService_Authenticate_ExistingLink(t *testing.T) {
	linked := &model.User{ID: 3, Email: "ada@example.com"}
	mockRepo := &mockUserRepository{
		getByProviderIDFn: func(ctx context.Context, provider, providerID string) (*model.User, error) {
			if provider == model.ProviderGitHub && providerID == "4242" {
				return linked, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
	svc := NewOAuthService(mockRepo)

	user, err := svc.Authenticate(context.Background(), githubProfile())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != linked.ID {
		t.Errorf("expected user %d, got %d", linked.ID, user.ID)
	}
	if len(mockRepo.createCalls) != 0 || mockRepo.linkCalls != 0 {
		t.Error("plain login must not create or link")
	}
}

func TestOAuthService_Authenticate_LinksByEmail(t *testing.T) {
	existing := &model.User{ID: 5, Email: "ada@example.com", AuthProvider: model.ProviderLocal}
	mockRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "ada@example.com" {
				return existing, nil
			}
			return nil, model.ErrUserNotFound
		},
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return existing, nil
		},
	}
	svc := NewOAuthService(mockRepo)

	user, err := svc.Authenticate(context.Background(), githubProfile())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != existing.ID {
		t.Errorf("expected linked user %d, got %d", existing.ID, user.ID)
	}
	if mockRepo.linkCalls != 1 {
		t.Errorf("expected one LinkProvider call, got %d", mockRepo.linkCalls)
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("matching email must link, not create")
	}
}

func TestOAuthService_Authenticate_CreatesAccount(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 9
			return nil
		},
	}
	svc := NewOAuthService(mockRepo)

	user, err := svc.Authenticate(context.Background(), githubProfile())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != 9 {
		t.Errorf("expected created user 9, got %d", user.ID)
	}
	if user.AuthProvider != model.ProviderGitHub {
		t.Errorf("expected provider github, got %q", user.AuthProvider)
	}
	if user.GitHubID == nil || *user.GitHubID != "4242" {
		t.Error("expected github id recorded on the new account")
	}
	if user.PasswordHashed != nil {
		t.Error("oauth accounts must not carry a password")
	}
	if !strings.HasPrefix(user.Username, "adal_") {
		t.Errorf("expected generated username with adal_ prefix, got %q", user.Username)
	}
}

func TestOAuthService_Authenticate_SyntheticEmail(t *testing.T) {
	profile := githubProfile()
	profile.Email = ""

	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 11
			return nil
		},
	}
	svc := NewOAuthService(mockRepo)

	user, err := svc.Authenticate(context.Background(), profile)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// The .invalid TLD is reserved, so the placeholder can never collide
	// with an address someone could actually register with.
	if user.Email != "adal@github.invalid" {
		t.Errorf("expected synthetic email adal@github.invalid, got %q", user.Email)
	}
}

func TestOAuthService_Authenticate_CreateRaceConverges(t *testing.T) {
	winner := &model.User{ID: 21, Email: "ada@example.com"}
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			// A concurrent callback inserted the same provider id first.
			return model.ErrProviderIDExists
		},
	}
	mockRepo.getByProviderIDFn = func(ctx context.Context, provider, providerID string) (*model.User, error) {
		// Not found on the initial lookup, found after the insert loses.
		if len(mockRepo.createCalls) > 0 {
			return winner, nil
		}
		return nil, model.ErrUserNotFound
	}
	svc := NewOAuthService(mockRepo)

	user, err := svc.Authenticate(context.Background(), githubProfile())
	if err != nil {
		t.Fatalf("expected convergence on the winner, got %v", err)
	}
	if user.ID != winner.ID {
		t.Errorf("expected winner %d, got %d", winner.ID, user.ID)
	}
}

func TestOAuthService_Authenticate_UsernameCollisionRetries(t *testing.T) {
	var attempted []string
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			attempted = append(attempted, user.Username)
			if len(attempted) == 1 {
				return model.ErrUsernameExists
			}
			user.ID = 30
			return nil
		},
	}
	svc := NewOAuthService(mockRepo)

	user, err := svc.Authenticate(context.Background(), githubProfile())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(attempted) != 2 {
		t.Fatalf("expected exactly one retry, got %d attempts", len(attempted))
	}
	// A timestamp suffix can repeat within the same millisecond; the retry
	// must not resubmit the name that just collided.
	if attempted[0] == attempted[1] {
		t.Errorf("retry reused the colliding username %q", attempted[0])
	}
	if !strings.HasPrefix(attempted[1], "adal_") {
		t.Errorf("retry username lost its base, got %q", attempted[1])
	}
	if user.ID != 30 {
		t.Errorf("expected created user 30, got %d", user.ID)
	}
}

func TestOAuthService_Authenticate_UnknownProvider(t *testing.T) {
	profile := githubProfile()
	profile.Provider = "gitlab"

	svc := NewOAuthService(&mockUserRepository{})

	if _, err := svc.Authenticate(context.Background(), profile); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
