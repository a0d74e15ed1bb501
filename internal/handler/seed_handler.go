package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/riodino14/edupulse-backend/internal/service"
	"github.com/riodino14/edupulse-backend/internal/utils"
)

// SeedHandler exposes account seeding to administrators.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/users", h.users)
}

func (h *SeedHandler) users(c *fiber.Ctx) error {
	created, err := h.service.SeedUsers(c.UserContext())
	if err != nil {
		if errors.Is(err, service.ErrSeedDisabled) {
			return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
		}
		return sendServiceError(c, h.logger, err, "seed users")
	}

	return utils.SendSuccess(c, "users seeded", fiber.Map{"created": created})
}
