package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"

	"blognest/internal/model"
)

// Classifier maps internal failures onto the stable error taxonomy and the
// uniform envelope. Handlers hand every failure here instead of building
// responses from raw framework or database errors.
type Classifier struct {
	development bool
}

// NewClassifier returns a classifier. In development mode unclassified
// errors echo their message; in production they collapse to a generic one.
func NewClassifier(development bool) *Classifier {
	return &Classifier{development: development}
}

// Write classifies err, logs the internal detail, and writes the envelope.
func (c *Classifier) Write(w http.ResponseWriter, r *http.Request, err error) {
	status, message := c.classify(err)

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	} else {
		slog.Debug("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}

	WriteError(w, status, message)
}

func (c *Classifier) classify(err error) (int, string) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	switch {
	// Validation
	case errors.Is(err, model.ErrTitleRequired),
		errors.Is(err, model.ErrBodyRequired),
		errors.Is(err, model.ErrCommentRequired),
		errors.Is(err, model.ErrCommentTooLong):
		return http.StatusBadRequest, err.Error()

	// Upload errors
	case errors.Is(err, model.ErrFileTooLarge):
		return http.StatusBadRequest, "file is too large, maximum size is 5MB"
	case errors.Is(err, model.ErrInvalidImageType):
		return http.StatusBadRequest, "only image files are allowed"

	// Unauthorized
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenMalformed):
		return http.StatusUnauthorized, "invalid or expired token"

	// Forbidden
	case errors.Is(err, model.ErrNotBlogAuthor),
		errors.Is(err, model.ErrNotCommentAuthor):
		return http.StatusForbidden, err.Error()

	// Not found
	case errors.Is(err, model.ErrBlogNotFound),
		errors.Is(err, model.ErrCommentNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound, err.Error()

	// Duplicates
	case errors.Is(err, model.ErrUsernameExists),
		errors.Is(err, model.ErrEmailExists),
		errors.Is(err, model.ErrProviderIDExists):
		return http.StatusBadRequest, err.Error()
	}

	// Database errors that escaped the repository translation.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return http.StatusBadRequest, "duplicate value"
		case "23503":
			// Foreign-key violation: the referenced resource is gone.
			return http.StatusNotFound, "resource not found"
		case "22P02":
			return http.StatusBadRequest, "invalid identifier"
		}
	}

	if c.development && err != nil {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusInternalServerError, "something went wrong"
}
