package model

import (
	"errors"
	"time"
)

// Auth providers record how an account was first established. Linking a
// second provider later is allowed and updates AuthProvider.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// MinPasswordLength applies to local signup only; OAuth accounts carry no password.
const MinPasswordLength = 6

// User represents an account in the system.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Firstname      string    `db:"firstname" json:"firstname"`
	Lastname       string    `db:"lastname" json:"lastname"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed *string   `db:"password_hashed" json:"-"` // nil for OAuth-only accounts
	GoogleID       *string   `db:"google_id" json:"-"`
	GitHubID       *string   `db:"github_id" json:"-"`
	AuthProvider   string    `db:"auth_provider" json:"auth_provider"`
	ProfilePicture *string   `db:"profile_picture" json:"profile_picture"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Identity is the snapshot of a user embedded in a bearer token. It can go
// stale relative to later profile edits; the 24h expiry bounds the window.
type Identity struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthorSummary is the public subset of a user joined onto blogs and comments.
type AuthorSummary struct {
	ID             int64   `db:"id" json:"id"`
	Firstname      string  `db:"firstname" json:"firstname"`
	Lastname       string  `db:"lastname" json:"lastname"`
	Username       string  `db:"username" json:"username"`
	ProfilePicture *string `db:"profile_picture" json:"profile_picture"`
}

// SignupRequest is the body of POST /user/.
type SignupRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the body of POST /user/login.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when the username is already taken
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when the email is already registered
	ErrEmailExists = errors.New("email already exists")

	// ErrProviderIDExists is returned when an OAuth provider id is already
	// linked to another account, e.g. when concurrent callbacks race on the
	// same external profile.
	ErrProviderIDExists = errors.New("provider account already linked")

	// ErrInvalidCredentials is returned on any login mismatch. Callers must
	// not distinguish "no such user" from "wrong password".
	ErrInvalidCredentials = errors.New("invalid credentials")
)
