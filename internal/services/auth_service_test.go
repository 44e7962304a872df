// internal/services/auth_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaukho/zaukho-backend/internal/models"
)

func newAuthService(t *testing.T) (*AuthService, *memoryTokenStore) {
	t.Helper()
	store := newMemoryTokenStore()
	return NewAuthService(newTestDB(t), testConfig(), store), store
}

func validRegistration() *RegisterRequest {
	return &RegisterRequest{
		Username:        "moviefan",
		Email:           "fan@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
		FirstName:       "Movie",
		LastName:        "Fan",
	}
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(validRegistration())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, models.UserTypeMember, resp.User.UserType)
	assert.NotEmpty(t, resp.User.PasswordHash)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, _ := newAuthService(t)

	req := validRegistration()
	req.PasswordConfirm = "secret124"

	_, err := svc.Register(req)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "password", verrs[0].Field)

	// The failed attempt must not leave a user behind
	var count int64
	svc.db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	req := validRegistration()
	req.Password = "short"
	req.PasswordConfirm = "short"

	_, err := svc.Register(req)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	req := validRegistration()
	req.Username = "otherfan"
	req.Email = "FAN@example.com"

	_, err = svc.Register(req)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "email", verrs[0].Field)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	req := validRegistration()
	req.Email = "other@example.com"

	_, err = svc.Register(req)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "username", verrs[0].Field)
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	cases := []string{"moviefan", "MovieFan", "fan@example.com", "FAN@EXAMPLE.COM"}
	for _, identifier := range cases {
		resp, err := svc.Login(&LoginRequest{Identifier: identifier, Password: "secret123"})
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, "moviefan", resp.User.Username)
		assert.NotNil(t, resp.User.LastLoginAt)
	}
}

func TestLoginEmailFieldFallback(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	// Clients may send the identifier under the legacy "email" key
	resp, err := svc.Login(&LoginRequest{Email: "fan@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "moviefan", resp.User.Username)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Identifier: "moviefan", Password: "wrongpass1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Identifier: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginMissingIdentifier(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(&LoginRequest{Password: "secret123"})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "identifier", verrs[0].Field)
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(validRegistration())
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The consumed token is single-use
	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// The rotated one still works
	_, err = svc.RefreshToken(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(validRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.RefreshToken))

	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessToken(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(validRegistration())
	require.NoError(t, err)

	assert.NoError(t, svc.VerifyAccessToken(resp.AccessToken))
	assert.ErrorIs(t, svc.VerifyAccessToken("bogus"), ErrInvalidToken)
}
