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

// StudentDashboardHandler exposes the student dashboard, quiz chart and profile endpoints.
type StudentDashboardHandler struct {
	service   service.StudentDashboardService
	accounts  service.AuthService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentDashboardHandler creates a new handler instance.
func NewStudentDashboardHandler(service service.StudentDashboardService, accounts service.AuthService, validator *validator.Validate, logger zerolog.Logger) *StudentDashboardHandler {
	return &StudentDashboardHandler{
		service:   service,
		accounts:  accounts,
		validator: validator,
		logger:    logger.With().Str("component", "student_dashboard_handler").Logger(),
	}
}

// Register attaches the student endpoints. Static paths precede "/:id".
func (h *StudentDashboardHandler) Register(router fiber.Router) {
	router.Get("/quiz_detail", middleware.WithAuth(h.quizDetail, middleware.AuthOptions{StudentParam: "user_id"}))
	router.Put("/profile", middleware.WithAuth(h.updateProfile, middleware.AuthOptions{}))
	router.Get("/:id", middleware.WithAuth(h.profile, middleware.AuthOptions{StudentParam: "id"}))
}

func (h *StudentDashboardHandler) profile(c *fiber.Ctx) error {
	studentID, err := parseStudentParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	profile, err := h.service.GetProfile(c.UserContext(), studentID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "load dashboard")
	}

	return utils.OK(c, profile, "dashboard retrieved", fiber.Map{"dataset_version": profile.DatasetVersion})
}

func (h *StudentDashboardHandler) quizDetail(c *fiber.Ctx) error {
	var query dto.QuizDetailRequest
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "user_id and class_id are required")
	}
	if !middleware.CanAccessStudent(c, query.UserID) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only access their own data")
	}

	scores, err := h.service.GetQuizDetail(c.UserContext(), query)
	if err != nil {
		return sendServiceError(c, h.logger, err, "load quiz detail")
	}

	return utils.SendSuccess(c, "quiz detail retrieved", scores)
}

func (h *StudentDashboardHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.UpdateProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return sendValidationError(c, err)
	}

	profile, err := h.accounts.UpdateProfile(c.UserContext(), middleware.UserID(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "update profile")
	}

	return utils.SendSuccess(c, "profile updated", profile)
}
