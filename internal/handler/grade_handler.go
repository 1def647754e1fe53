package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/service"
	"github.com/acadex/gradebook-api/internal/utils"
)

// GradeHandler wires score-entry endpoints.
type GradeHandler struct {
	service service.GradeService
	logger  zerolog.Logger
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service service.GradeService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register attaches grade routes to the router group.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Put("/students/:studentId/evaluations/:evaluationId", h.set)
}

func (h *GradeHandler) set(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}
	evaluationID, err := parseUintParam(c, "evaluationId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.GradeSetRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	grade, err := h.service.Set(c.Context(), studentID, evaluationID, payload, actorIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrGradeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student is not enrolled in this evaluation's subject")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to record grade")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to record grade")
	}

	return utils.SendSuccess(c, "grade recorded", grade)
}
