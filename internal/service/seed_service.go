package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/riodino14/edupulse-backend/internal/models"
	"github.com/riodino14/edupulse-backend/internal/repository"
)

// ErrSeedDisabled indicates account seeding is disabled by configuration.
var ErrSeedDisabled = errors.New("seeding is disabled")

// SeedConfig holds the bootstrap credentials.
type SeedConfig struct {
	Enabled         bool
	AdminUsername   string
	AdminPassword   string
	StudentPassword string
}

// SeedService creates the admin account and one account per known student.
type SeedService interface {
	SeedUsers(ctx context.Context) (int64, error)
}

type seedService struct {
	users  repository.UserRepository
	data   repository.LearningDataRepository
	config SeedConfig
	logger zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(users repository.UserRepository, data repository.LearningDataRepository, config SeedConfig, logger zerolog.Logger) SeedService {
	if config.AdminUsername == "" {
		config.AdminUsername = models.UserRoleAdmin
	}
	return &seedService{
		users:  users,
		data:   data,
		config: config,
		logger: logger.With().Str("component", "seed_service").Logger(),
	}
}

// SeedUsers is idempotent: existing usernames keep their stored passwords.
func (s *seedService) SeedUsers(ctx context.Context) (int64, error) {
	if !s.config.Enabled {
		return 0, ErrSeedDisabled
	}

	adminHash, err := HashPassword(s.config.AdminPassword)
	if err != nil {
		return 0, err
	}
	accounts := []models.User{{
		Username:       s.config.AdminUsername,
		HashedPassword: adminHash,
		Role:           models.UserRoleAdmin,
		FullName:       "Administrator",
		LearningStyle:  models.DefaultLearningStyle,
		Interest:       models.DefaultInterest,
	}}

	snapshot, err := s.data.Current(ctx)
	switch {
	case errors.Is(err, repository.ErrDatasetUnavailable):
		s.logger.Warn().Msg("dataset not loaded, seeding admin account only")
	case err != nil:
		return 0, err
	default:
		studentHash, err := HashPassword(s.config.StudentPassword)
		if err != nil {
			return 0, err
		}
		for _, feature := range snapshot.Features() {
			accounts = append(accounts, models.User{
				Username:       strconv.FormatInt(feature.StudentID, 10),
				HashedPassword: studentHash,
				Role:           models.UserRoleStudent,
				FullName:       fmt.Sprintf(defaultStudentName, feature.StudentID),
				LearningStyle:  models.DefaultLearningStyle,
				Interest:       models.DefaultInterest,
			})
		}
	}

	created, err := s.users.CreateMissing(ctx, accounts)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("created", created).Int("candidates", len(accounts)).Msg("user accounts seeded")
	return created, nil
}
