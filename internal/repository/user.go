package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blognest/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, firstname, lastname, username, email, password_hashed,
       google_id, github_id, auth_provider, profile_picture, created_at, updated_at`

// Create inserts a new user. Unique-constraint violations are translated to
// model sentinels so the check-then-insert race on concurrent signups or
// duplicate OAuth callbacks resolves to a stable error instead of a raw
// driver failure.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (firstname, lastname, username, email, password_hashed,
		                   google_id, github_id, auth_provider, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Firstname,
		u.Lastname,
		u.Username,
		u.Email,
		u.PasswordHashed,
		u.GoogleID,
		u.GitHubID,
		u.AuthProvider,
		u.ProfilePicture,
	)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if translated := translateUniqueViolation(err); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by their email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// GetByUsernameOrEmail resolves a login identifier against either column.
func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, usernameOrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username or email: %w", err)
	}

	return &u, nil
}

// GetByProviderID retrieves a user by a linked OAuth provider id.
func (r *userRepository) GetByProviderID(ctx context.Context, provider, providerID string) (*model.User, error) {
	column, err := providerColumn(provider)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	var u model.User
	err = r.db.GetContext(ctx, &u, query, providerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s id: %w", provider, err)
	}

	return &u, nil
}

// LinkProvider sets the provider id, switches auth_provider, and copies the
// profile picture when supplied. One UPDATE statement, so a failed link
// never leaves a half-linked account.
func (r *userRepository) LinkProvider(ctx context.Context, userID int64, provider, providerID string, photoURL *string) error {
	column, err := providerColumn(provider)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET ` + column + ` = $1,
		    auth_provider = $2,
		    profile_picture = COALESCE($3, profile_picture),
		    updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, providerID, provider, photoURL, userID)
	if err != nil {
		if translated := translateUniqueViolation(err); translated != nil {
			return translated
		}
		return fmt.Errorf("failed to link %s account: %w", provider, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

func providerColumn(provider string) (string, error) {
	switch provider {
	case model.ProviderGoogle:
		return "google_id", nil
	case model.ProviderGitHub:
		return "github_id", nil
	default:
		return "", fmt.Errorf("unknown auth provider %q", provider)
	}
}

// translateUniqueViolation maps a pq 23505 error onto the matching model
// sentinel, or returns nil for anything else.
func translateUniqueViolation(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return nil
	}
	switch {
	case strings.Contains(pqErr.Constraint, "username"):
		return model.ErrUsernameExists
	case strings.Contains(pqErr.Constraint, "email"):
		return model.ErrEmailExists
	default:
		// Provider-id collision: another callback won the insert race.
		return model.ErrProviderIDExists
	}
}
