package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acadex/gradebook-api/internal/service"
	"github.com/acadex/gradebook-api/internal/utils"
)

// ReportHandler wires report, statistics and export endpoints nested under
// a subject.
type ReportHandler struct {
	reports service.ReportService
	exports service.ExportService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports service.ReportService, exports service.ExportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		exports: exports,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// RegisterSubjectRoutes attaches the report routes to the subjects group.
func (h *ReportHandler) RegisterSubjectRoutes(router fiber.Router) {
	router.Get("/:id/report", h.report)
	router.Get("/:id/report/stats", h.stats)
	router.Get("/:id/report/export.csv", h.exportCSV)
	router.Post("/:id/report/email", h.email)
}

func (h *ReportHandler) report(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	report, err := h.reports.SubjectReport(c.Context(), subjectID)
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build report")
	}

	return utils.SendSuccess(c, "report built", report)
}

func (h *ReportHandler) stats(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	stats, err := h.reports.SubjectStats(c.Context(), subjectID)
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute statistics")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute statistics")
	}

	return utils.SendSuccess(c, "statistics computed", stats)
}

func (h *ReportHandler) exportCSV(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	payload, err := h.exports.SubjectCSV(c.Context(), subjectID)
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to export csv")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export csv")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="subject-%d-grades.csv"`, subjectID))
	return c.Send(payload)
}

func (h *ReportHandler) email(c *fiber.Ctx) error {
	subjectID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	delivered, err := h.exports.EmailReports(c.Context(), subjectID, actorIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to email reports")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to email reports")
	}

	return utils.SendSuccess(c, "grade reports emailed", fiber.Map{"delivered": delivered})
}
