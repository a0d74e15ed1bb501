package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/riodino14/edupulse-backend/internal/service"
	"github.com/riodino14/edupulse-backend/internal/utils"
)

// DatasetHandler lets administrators inspect, reload and replace the learning data.
type DatasetHandler struct {
	service service.DatasetService
	logger  zerolog.Logger
}

// NewDatasetHandler constructs a dataset handler.
func NewDatasetHandler(service service.DatasetService, logger zerolog.Logger) *DatasetHandler {
	return &DatasetHandler{
		service: service,
		logger:  logger.With().Str("component", "dataset_handler").Logger(),
	}
}

// Register wires dataset routes.
func (h *DatasetHandler) Register(router fiber.Router) {
	router.Get("", h.status)
	router.Post("/reload", h.reload)
	router.Post("/grades", h.uploadGrades)
}

func (h *DatasetHandler) status(c *fiber.Ctx) error {
	status, err := h.service.Status(c.UserContext())
	if err != nil {
		return sendServiceError(c, h.logger, err, "load dataset status")
	}

	return utils.SendSuccess(c, "dataset status", status)
}

func (h *DatasetHandler) reload(c *fiber.Ctx) error {
	status, err := h.service.Reload(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("dataset reload failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "dataset reload failed, previous data is still served")
	}

	return utils.SendSuccess(c, "dataset reloaded", status)
}

func (h *DatasetHandler) uploadGrades(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	status, err := h.service.ReplaceGrades(c.UserContext(), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrUploadTypeNotAllowed), errors.Is(err, service.ErrUploadInvalid):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return sendServiceError(c, h.logger, err, "replace grades")
		}
	}

	return utils.SendSuccess(c, "grade table replaced", status)
}
