package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/middleware"
	"github.com/riodino14/edupulse-backend/internal/service"
	"github.com/riodino14/edupulse-backend/internal/utils"
)

// AuthHandler covers login and password management.
type AuthHandler struct {
	service   service.AuthService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, validator *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the token endpoint, which needs no credentials.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/token", h.login)
}

// Register attaches the authenticated account endpoints.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Put("/change-password", middleware.WithAuth(h.changePassword, middleware.AuthOptions{}))
}

// RegisterAdmin attaches account administration under the admin group.
func (h *AuthHandler) RegisterAdmin(router fiber.Router) {
	router.Put("/reset-password/:id", h.resetPassword)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return sendValidationError(c, err)
	}

	token, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "login")
	}

	return c.Status(fiber.StatusOK).JSON(token)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return sendValidationError(c, err)
	}

	if err := h.service.ChangePassword(c.UserContext(), middleware.UserID(c), payload); err != nil {
		return sendServiceError(c, h.logger, err, "change password")
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("id"))
	if err := h.service.ResetPassword(c.UserContext(), username); err != nil {
		return sendServiceError(c, h.logger, err, "reset password")
	}

	requestLogger(h.logger, c).Info().Str("username", username).Str("admin", middleware.UserID(c)).Msg("password reset by admin")
	return utils.SendSuccess(c, "password reset to default", fiber.Map{"username": username})
}
