package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blognest/internal/model"
)

// TokenService issues and verifies stateless HS256 bearer tokens. The
// payload snapshots the identity fields at issuance; there is no server-side
// revocation, so logout is purely client-side cookie clearing.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService takes the signing key and validity window explicitly so
// tests can supply deterministic values.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// tokenClaims embeds the identity snapshot alongside the registered claims.
// The user id travels in the standard "sub" claim.
type tokenClaims struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Firstname     string `json:"firstname"`
	Lastname      string `json:"lastname"`
	UserCreatedAt int64  `json:"user_created_at"`
	jwt.RegisteredClaims
}

// Issue signs a token for the user, expiring ttl from now.
func (s *TokenService) Issue(user *model.User) (string, error) {
	now := time.Now()

	claims := tokenClaims{
		Username:      user.Username,
		Email:         user.Email,
		Firstname:     user.Firstname,
		Lastname:      user.Lastname,
		UserCreatedAt: user.CreatedAt.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the identity snapshot.
// It returns nil for a missing, malformed, tampered, or expired token —
// "unauthenticated" is a normal outcome for callers, never an error.
func (s *TokenService) Verify(tokenStr string) *model.Identity {
	if tokenStr == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil
	}

	return &model.Identity{
		ID:        userID,
		Username:  claims.Username,
		Email:     claims.Email,
		Firstname: claims.Firstname,
		Lastname:  claims.Lastname,
		CreatedAt: time.Unix(claims.UserCreatedAt, 0),
	}
}
