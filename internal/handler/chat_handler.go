package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/middleware"
	"github.com/riodino14/edupulse-backend/internal/service"
	"github.com/riodino14/edupulse-backend/internal/utils"
)

// ChatHandler wires the study assistant endpoints.
type ChatHandler struct {
	service   service.ChatService
	validator *validator.Validate
	limiter   fiber.Handler
	logger    zerolog.Logger
}

// NewChatHandler creates a chat handler instance. The limiter guards the
// reply endpoint only; a nil limiter disables throttling.
func NewChatHandler(service service.ChatService, validator *validator.Validate, limiter fiber.Handler, logger zerolog.Logger) *ChatHandler {
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &ChatHandler{
		service:   service,
		validator: validator,
		limiter:   limiter,
		logger:    logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register binds chat routes under the provided router group.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("", h.limiter, middleware.WithAuth(h.reply, middleware.AuthOptions{}))
	router.Get("/history", middleware.WithAuth(h.history, middleware.AuthOptions{StudentParam: "user_id"}))
}

func (h *ChatHandler) reply(c *fiber.Ctx) error {
	var payload dto.ChatRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return sendValidationError(c, err)
	}
	if !middleware.CanAccessStudent(c, payload.UserID) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only access their own data")
	}

	response, err := h.service.Reply(c.UserContext(), payload)
	if err != nil {
		if errors.Is(err, service.ErrEmptyChatMessage) {
			return utils.SendError(c, fiber.StatusBadRequest, "message is empty")
		}
		return sendServiceError(c, h.logger, err, "chat")
	}

	return utils.SendSuccess(c, "reply generated", response)
}

func (h *ChatHandler) history(c *fiber.Ctx) error {
	var query dto.ChatHistoryQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query")
	}
	if !middleware.CanAccessStudent(c, query.UserID) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only access their own data")
	}

	exchanges, err := h.service.History(c.UserContext(), query)
	if err != nil {
		return sendServiceError(c, h.logger, err, "load chat history")
	}

	return utils.OK(c, exchanges, "chat history retrieved", fiber.Map{"count": len(exchanges)})
}
