package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/models"
	"github.com/riodino14/edupulse-backend/internal/repository"
)

func newAuthFixture(t *testing.T) (AuthService, repository.UserRepository) {
	t.Helper()
	db := newServiceTestDB(t)
	seedUser(t, db, models.User{Username: "7", Role: models.UserRoleStudent}, "start123")
	seedUser(t, db, models.User{Username: "admin", Role: models.UserRoleAdmin}, "admin-pass")

	users := repository.NewUserRepository(db)
	svc := NewAuthService(users, AuthConfig{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		Issuer:          "edupulse-test",
		DefaultPassword: "reset123",
	}, zerolog.Nop())
	return svc, users
}

func TestAuthServiceLoginIssuesSignedToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	token, err := svc.Login(context.Background(), dto.LoginRequest{Username: " 7 ", Password: "start123"})
	require.NoError(t, err)
	require.Equal(t, "bearer", token.TokenType)
	require.Equal(t, int64(3600), token.ExpiresIn)
	require.Equal(t, models.UserRoleStudent, token.Role)
	require.Equal(t, "7", token.UserID)

	parsed, err := jwt.Parse(token.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, "7", claims["sub"])
	require.Equal(t, models.UserRoleStudent, claims["role"])
	require.Equal(t, "edupulse-test", claims["iss"])
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "7", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "start123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceChangeAndResetPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "7", dto.ChangePasswordRequest{OldPassword: "nope", NewPassword: "brand-new"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, "7", dto.ChangePasswordRequest{OldPassword: "start123", NewPassword: "brand-new"}))
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "7", Password: "brand-new"})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "7"))
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "7", Password: "reset123"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.ResetPassword(ctx, "404"), ErrUserNotFound)
	require.ErrorIs(t, svc.ResetPassword(ctx, " "), ErrInvalidIdentifier)
}

func TestAuthServiceUpdateProfile(t *testing.T) {
	svc, users := newAuthFixture(t)

	profile, err := svc.UpdateProfile(context.Background(), "7", dto.UpdateProfileRequest{
		FullName:      "  Budi Santoso ",
		LearningStyle: "auditory",
	})
	require.NoError(t, err)
	require.Equal(t, "Budi Santoso", profile.FullName)
	require.Equal(t, "Auditory", profile.LearningStyle)
	require.Equal(t, models.DefaultInterest, profile.Interest)

	stored, err := users.GetByUsername(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, "Auditory", stored.LearningStyle)
}
