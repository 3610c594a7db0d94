package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"blognest/internal/model"
)

// mockUserRepository implements repository.UserRepository with per-test
// behavior supplied through function fields. Tests only set the functions
// they care about; everything else defaults to "not found".
type mockUserRepository struct {
	createFn               func(ctx context.Context, user *model.User) error
	getByIDFn              func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn           func(ctx context.Context, email string) (*model.User, error)
	getByUsernameOrEmailFn func(ctx context.Context, usernameOrEmail string) (*model.User, error)
	getByProviderIDFn      func(ctx context.Context, provider, providerID string) (*model.User, error)
	linkProviderFn         func(ctx context.Context, userID int64, provider, providerID string, photoURL *string) error
	existsByUsernameFn     func(ctx context.Context, username string) (bool, error)

	createCalls []*model.User
	linkCalls   int
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	if m.getByUsernameOrEmailFn != nil {
		return m.getByUsernameOrEmailFn(ctx, usernameOrEmail)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByProviderID(ctx context.Context, provider, providerID string) (*model.User, error) {
	if m.getByProviderIDFn != nil {
		return m.getByProviderIDFn(ctx, provider, providerID)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) LinkProvider(ctx context.Context, userID int64, provider, providerID string, photoURL *string) error {
	m.linkCalls++
	if m.linkProviderFn != nil {
		return m.linkProviderFn(ctx, userID, provider, providerID, photoURL)
	}
	return nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func validSignup() *model.SignupRequest {
	return &model.SignupRequest{
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "securepw",
	}
}

func TestUserService_Signup_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo)

	user, err := svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != 1 {
		t.Errorf("expected ID 1, got %d", user.ID)
	}
	if user.AuthProvider != model.ProviderLocal {
		t.Errorf("expected provider local, got %q", user.AuthProvider)
	}
	if user.PasswordHashed == nil {
		t.Fatal("expected a stored password hash")
	}
	if *user.PasswordHashed == "securepw" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHashed), []byte("securepw")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Signup_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *model.SignupRequest)
	}{
		{"missing firstname", func(r *model.SignupRequest) { r.Firstname = "" }},
		{"missing lastname", func(r *model.SignupRequest) { r.Lastname = "  " }},
		{"missing username", func(r *model.SignupRequest) { r.Username = "" }},
		{"missing email", func(r *model.SignupRequest) { r.Email = "" }},
		{"malformed email", func(r *model.SignupRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *model.SignupRequest) { r.Password = "pw" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{}
			svc := NewUserService(mockRepo)

			req := validSignup()
			tt.mutate(req)

			_, err := svc.Signup(context.Background(), req)

			var validationErr *model.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(mockRepo.createCalls) != 0 {
				t.Error("repository should not be called for invalid input")
			}
		})
	}
}

func TestUserService_Signup_Duplicate(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.ErrEmailExists
		},
	}
	svc := NewUserService(mockRepo)

	_, err := svc.Signup(context.Background(), validSignup())
	if !errors.Is(err, model.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	hashedStr := string(hashed)

	existing := &model.User{
		ID:             7,
		Username:       "ada",
		Email:          "ada@example.com",
		PasswordHashed: &hashedStr,
		AuthProvider:   model.ProviderLocal,
	}

	tests := []struct {
		name    string
		req     *model.LoginRequest
		stored  *model.User
		wantErr bool
	}{
		{
			name:   "by username",
			req:    &model.LoginRequest{UsernameOrEmail: "ada", Password: "correct-password"},
			stored: existing,
		},
		{
			name:   "by email",
			req:    &model.LoginRequest{UsernameOrEmail: "ada@example.com", Password: "correct-password"},
			stored: existing,
		},
		{
			name:    "wrong password",
			req:     &model.LoginRequest{UsernameOrEmail: "ada", Password: "wrong"},
			stored:  existing,
			wantErr: true,
		},
		{
			name:    "unknown user",
			req:     &model.LoginRequest{UsernameOrEmail: "nobody", Password: "correct-password"},
			wantErr: true,
		},
		{
			name:    "empty password",
			req:     &model.LoginRequest{UsernameOrEmail: "ada", Password: ""},
			stored:  existing,
			wantErr: true,
		},
		{
			name: "oauth-only account",
			req:  &model.LoginRequest{UsernameOrEmail: "ada", Password: "correct-password"},
			stored: &model.User{
				ID:           8,
				Username:     "ada",
				AuthProvider: model.ProviderGoogle,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{
				getByUsernameOrEmailFn: func(ctx context.Context, usernameOrEmail string) (*model.User, error) {
					if tt.stored != nil && (usernameOrEmail == tt.stored.Username || usernameOrEmail == tt.stored.Email) {
						return tt.stored, nil
					}
					return nil, model.ErrUserNotFound
				},
			}
			svc := NewUserService(mockRepo)

			user, err := svc.Login(context.Background(), tt.req)
			if tt.wantErr {
				// Every failure collapses to the same error so responses
				// don't reveal whether the account exists.
				if !errors.Is(err, model.ErrInvalidCredentials) {
					t.Fatalf("expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.ID != tt.stored.ID {
				t.Errorf("expected user %d, got %d", tt.stored.ID, user.ID)
			}
		})
	}
}
