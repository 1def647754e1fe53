package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/service"
	"github.com/acadex/gradebook-api/internal/utils"
)

// EvaluationHandler wires evaluation endpoints. List and create are nested
// under a subject; get, update and delete address evaluations directly.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// RegisterSubjectRoutes attaches the subject-scoped evaluation routes.
func (h *EvaluationHandler) RegisterSubjectRoutes(router fiber.Router) {
	router.Get("/:id/evaluations", h.listBySubject)
	router.Post("/:id/evaluations", h.create)
}

// Register attaches the evaluation-scoped routes.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *EvaluationHandler) listBySubject(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	evaluations, err := h.service.ListBySubject(c.Context(), subjectID)
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list evaluations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list evaluations")
	}

	return utils.SendSuccess(c, "evaluations retrieved", evaluations)
}

func (h *EvaluationHandler) create(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.EvaluationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	evaluation, err := h.service.Create(c.Context(), subjectID, payload, actorIDFromContext(c))
	if err != nil {
		if handled, sendErr := sendGradingError(c, err); handled {
			return sendErr
		}
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create evaluation")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create evaluation")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evaluation created", evaluation)
}

func (h *EvaluationHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.EvaluationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	evaluation, err := h.service.Update(c.Context(), id, payload, actorIDFromContext(c))
	if err != nil {
		if handled, sendErr := sendGradingError(c, err); handled {
			return sendErr
		}
		switch {
		case errors.Is(err, service.ErrEvaluationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "evaluation not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update evaluation")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update evaluation")
		}
	}

	return utils.SendSuccess(c, "evaluation updated", evaluation)
}

func (h *EvaluationHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), id, actorIDFromContext(c)); err != nil {
		if errors.Is(err, service.ErrEvaluationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "evaluation not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete evaluation")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete evaluation")
	}

	return utils.SendSuccess(c, "evaluation deleted", fiber.Map{"id": id})
}
