package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/models"
	"github.com/riodino14/edupulse-backend/internal/repository"
)

const tokenTypeBearer = "bearer"

// AuthConfig configures token issuance and password defaults.
type AuthConfig struct {
	Secret          string
	TokenTTL        time.Duration
	Issuer          string
	DefaultPassword string
}

// AuthService covers login and account self-service.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	ChangePassword(ctx context.Context, username string, req dto.ChangePasswordRequest) error
	ResetPassword(ctx context.Context, username string) error
	UpdateProfile(ctx context.Context, username string, req dto.UpdateProfileRequest) (dto.UserProfileResponse, error)
}

type authService struct {
	users  repository.UserRepository
	config AuthConfig
	logger zerolog.Logger
	now    func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, config AuthConfig, logger zerolog.Logger) AuthService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &authService{
		users:  users,
		config: config,
		logger: logger.With().Str("component", "auth_service").Logger(),
		now:    time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenResponse{}, ErrInvalidCredentials
		}
		return dto.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		s.logger.Info().Str("username", username).Msg("login rejected")
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return dto.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.config.TokenTTL.Seconds()),
		Role:        user.Role,
		UserID:      user.Username,
	}, nil
}

func (s *authService) issueToken(user models.User) (string, error) {
	issuedAt := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":  user.Username,
		"role": user.Role,
		"iat":  issuedAt.Unix(),
		"nbf":  issuedAt.Unix(),
		"exp":  issuedAt.Add(s.config.TokenTTL).Unix(),
	}
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *authService) ChangePassword(ctx context.Context, username string, req dto.ChangePasswordRequest) error {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hash
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.logger.Info().Str("username", user.Username).Msg("password changed")
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, username string) error {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return err
	}

	hash, err := HashPassword(s.config.DefaultPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hash
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.logger.Warn().Str("username", user.Username).Msg("password reset to default")
	return nil
}

func (s *authService) UpdateProfile(ctx context.Context, username string, req dto.UpdateProfileRequest) (dto.UserProfileResponse, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return dto.UserProfileResponse{}, err
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.LearningStyle = normalizeLearningStyle(req.LearningStyle)
	user.Interest = strings.TrimSpace(req.Interest)
	if user.Interest == "" {
		user.Interest = models.DefaultInterest
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserProfileResponse{}, err
	}

	return dto.UserProfileResponse{
		Username:      user.Username,
		Role:          user.Role,
		FullName:      user.FullName,
		LearningStyle: user.LearningStyle,
		Interest:      user.Interest,
	}, nil
}

func (s *authService) loadUser(ctx context.Context, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, ErrInvalidIdentifier
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// HashPassword hashes a password with the bcrypt default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
