package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acadex/gradebook-api/internal/service"
	"github.com/acadex/gradebook-api/internal/utils"
)

// EnrollmentHandler wires roster endpoints nested under a subject.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// RegisterSubjectRoutes attaches the roster routes to the subjects group.
func (h *EnrollmentHandler) RegisterSubjectRoutes(router fiber.Router) {
	router.Get("/:id/students", h.listStudents)
	router.Post("/:id/students/:studentId", h.enroll)
	router.Delete("/:id/students/:studentId", h.unenroll)
}

func (h *EnrollmentHandler) listStudents(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	students, err := h.service.ListStudents(c.Context(), subjectID)
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list enrolled students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list enrolled students")
	}

	return utils.SendSuccess(c, "enrolled students retrieved", students)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Enroll(c.Context(), subjectID, studentID, actorIDFromContext(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrAlreadyEnrolled):
			return utils.SendError(c, fiber.StatusConflict, "student already enrolled")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to enroll student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to enroll student")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student enrolled", fiber.Map{
		"subject_id": subjectID,
		"student_id": studentID,
	})
}

func (h *EnrollmentHandler) unenroll(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Unenroll(c.Context(), subjectID, studentID, actorIDFromContext(c)); err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "enrollment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to unenroll student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to unenroll student")
	}

	return utils.SendSuccess(c, "student unenrolled", fiber.Map{
		"subject_id": subjectID,
		"student_id": studentID,
	})
}
