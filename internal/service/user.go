package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"blognest/internal/model"
	"blognest/internal/repository"
)

// UserService handles local signup and login.
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Signup creates a local account. The password requirement applies to local
// registration only; OAuth accounts are created without one.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	firstname := strings.TrimSpace(req.Firstname)
	lastname := strings.TrimSpace(req.Lastname)
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if firstname == "" || lastname == "" || username == "" || email == "" {
		return nil, model.Invalid("firstname, lastname, username and email are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.Invalid("invalid email address")
	}
	if len(req.Password) < model.MinPasswordLength {
		return nil, model.Invalid(fmt.Sprintf("password must be at least %d characters", model.MinPasswordLength))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHashed := string(hashed)

	user := &model.User{
		Firstname:      firstname,
		Lastname:       lastname,
		Username:       username,
		Email:          email,
		PasswordHashed: &passwordHashed,
		AuthProvider:   model.ProviderLocal,
	}

	// The unique indexes are authoritative: a concurrent duplicate signup
	// surfaces here as ErrUsernameExists/ErrEmailExists, not as a raw
	// driver error.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates against either username or email. Any mismatch maps
// to the same error so responses don't reveal whether the account exists.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	if req.UsernameOrEmail == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsernameOrEmail(ctx, req.UsernameOrEmail)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	// OAuth-only accounts have no password to compare.
	if user.PasswordHashed == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}
