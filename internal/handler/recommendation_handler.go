package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/middleware"
	"github.com/riodino14/edupulse-backend/internal/service"
	"github.com/riodino14/edupulse-backend/internal/utils"
)

// RecommendationHandler serves personalised study plans.
type RecommendationHandler struct {
	service   service.RecommendationService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRecommendationHandler constructs the handler.
func NewRecommendationHandler(service service.RecommendationService, validator *validator.Validate, logger zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "recommendation_handler").Logger(),
	}
}

// Register attaches the recommendation endpoint.
func (h *RecommendationHandler) Register(router fiber.Router) {
	router.Post("", middleware.WithAuth(h.recommend, middleware.AuthOptions{}))
}

func (h *RecommendationHandler) recommend(c *fiber.Ctx) error {
	var payload dto.RecommendationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return sendValidationError(c, err)
	}
	if !middleware.CanAccessStudent(c, payload.UserID) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only access their own data")
	}

	plan, err := h.service.Recommend(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "build recommendation")
	}

	return utils.SendSuccess(c, "recommendation generated", plan)
}
