package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/riodino14/edupulse-backend/internal/service"
	"github.com/riodino14/edupulse-backend/internal/utils"
)

// AdminAnalyticsHandler exposes analytics endpoints for administrators.
type AdminAnalyticsHandler struct {
	service service.AdminAnalyticsService
	logger  zerolog.Logger
}

// NewAdminAnalyticsHandler constructs the handler.
func NewAdminAnalyticsHandler(service service.AdminAnalyticsService, logger zerolog.Logger) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_analytics_handler").Logger(),
	}
}

// Register attaches analytics routes to the admin group.
func (h *AdminAnalyticsHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
	router.Get("/classes", h.classes)
	router.Get("/students_by_class", h.studentsByClass)
	router.Get("/grade-anomalies", h.gradeAnomalies)
}

func (h *AdminAnalyticsHandler) summary(c *fiber.Ctx) error {
	summary, err := h.service.GetSummary(c.UserContext())
	if err != nil {
		return sendServiceError(c, h.logger, err, "load analytics summary")
	}

	return utils.SendSuccess(c, "analytics summary", summary)
}

func (h *AdminAnalyticsHandler) classes(c *fiber.Ctx) error {
	classes, err := h.service.ListClasses(c.UserContext())
	if err != nil {
		return sendServiceError(c, h.logger, err, "load classes")
	}

	return utils.OK(c, classes, "classes retrieved", fiber.Map{"count": len(classes)})
}

func (h *AdminAnalyticsHandler) studentsByClass(c *fiber.Ctx) error {
	roster, err := h.service.StudentsByClass(c.UserContext(), c.Query("class_id"))
	if err != nil {
		return sendServiceError(c, h.logger, err, "load class roster")
	}

	return utils.OK(c, roster, "class roster retrieved", fiber.Map{"count": len(roster)})
}

func (h *AdminAnalyticsHandler) gradeAnomalies(c *fiber.Ctx) error {
	report, err := h.service.GradeAnomalies(c.UserContext())
	if err != nil {
		return sendServiceError(c, h.logger, err, "load grade anomalies")
	}

	return utils.SendSuccess(c, "grade anomalies retrieved", report)
}
