package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blognest/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:        42,
		Username:  "ada",
		Email:     "ada@example.com",
		Firstname: "Ada",
		Lastname:  "Lovelace",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity := svc.Verify(token)
	require.NotNil(t, identity)

	assert.Equal(t, int64(42), identity.ID)
	assert.Equal(t, "ada", identity.Username)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "Ada", identity.Firstname)
	assert.Equal(t, "Lovelace", identity.Lastname)
	assert.Equal(t, int64(1709294400), identity.CreatedAt.Unix())
}

func TestTokenService_Verify_WrongKey(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	assert.Nil(t, verifier.Verify(token))
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	assert.Nil(t, svc.Verify(token))
}

func TestTokenService_Verify_Garbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	assert.Nil(t, svc.Verify(""))
	assert.Nil(t, svc.Verify("not.a.token"))
	assert.Nil(t, svc.Verify("eyJhbGciOiJub25lIn0.eyJzdWIiOiI0MiJ9."))
}
