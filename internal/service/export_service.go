package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/grading"
)

// GradeReport is a composed per-student report ready for delivery.
type GradeReport struct {
	To       string
	Subject  string
	HTMLBody string
}

// ReportDelivery hands a composed report to a mail transport. The shipped
// implementation logs; a real SMTP transport plugs in behind the same
// interface.
type ReportDelivery interface {
	Deliver(ctx context.Context, report GradeReport) error
}

// LogReportDelivery is a delivery provider that logs composed reports.
type LogReportDelivery struct {
	logger zerolog.Logger
}

// NewLogReportDelivery constructs a logging delivery provider.
func NewLogReportDelivery(logger zerolog.Logger) *LogReportDelivery {
	return &LogReportDelivery{logger: logger.With().Str("component", "report_delivery").Logger()}
}

// Deliver logs the report and reports success.
func (l *LogReportDelivery) Deliver(ctx context.Context, report GradeReport) error {
	l.logger.Info().Str("to", report.To).Str("subject", report.Subject).Msg("grade report delivered")
	return nil
}

// ExportService renders subject reports as CSV and per-student emails. Both
// renderings consume the same assembled report, so exported numbers always
// match the table view.
type ExportService interface {
	SubjectCSV(ctx context.Context, subjectID uint) ([]byte, error)
	EmailReports(ctx context.Context, subjectID uint, actorID uint) (int, error)
}

type exportService struct {
	reports  ReportService
	delivery ReportDelivery
	activity ActivityRecorder
	policy   *bluemonday.Policy
	logger   zerolog.Logger
}

// NewExportService constructs the export service.
func NewExportService(reports ReportService, delivery ReportDelivery, activity ActivityRecorder, logger zerolog.Logger) ExportService {
	return &exportService{
		reports:  reports,
		delivery: delivery,
		activity: activity,
		policy:   bluemonday.StrictPolicy(),
		logger:   logger.With().Str("component", "export_service").Logger(),
	}
}

// SubjectCSV renders the gradebook as CSV: one row per student with every
// evaluation score, per-corte rollups and the final grade. Ungraded cells
// are left empty so they cannot be mistaken for a zero.
func (s *exportService) SubjectCSV(ctx context.Context, subjectID uint) ([]byte, error) {
	report, err := s.reports.SubjectReport(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"national_id", "name", "email"}
	for _, evaluation := range report.Evaluations {
		header = append(header, fmt.Sprintf("C%d %s (%s%%)", evaluation.Corte, evaluation.Name, formatNumber(evaluation.Percentage)))
	}
	for corte := grading.MinCorte; corte <= grading.MaxCorte; corte++ {
		header = append(header, fmt.Sprintf("corte %d", corte))
	}
	header = append(header, "final")
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, row := range report.Rows {
		record := []string{row.NationalID, row.Name, row.Email}
		for _, evaluation := range report.Evaluations {
			record = append(record, formatCell(findCell(row, evaluation.ID)))
		}
		for _, corte := range row.Cortes {
			record = append(record, formatNumber(corte.WeightedSum))
		}
		record = append(record, formatNumber(row.FinalGrade))
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("subject_id", subjectID).Int("rows", len(report.Rows)).Msg("csv export rendered")
	return buffer.Bytes(), nil
}

// EmailReports composes and delivers one report per enrolled student,
// returning how many were delivered. Students without an email address are
// skipped.
func (s *exportService) EmailReports(ctx context.Context, subjectID uint, actorID uint) (int, error) {
	report, err := s.reports.SubjectReport(ctx, subjectID)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, row := range report.Rows {
		if strings.TrimSpace(row.Email) == "" {
			continue
		}

		composed := GradeReport{
			To:       row.Email,
			Subject:  fmt.Sprintf("Grade report: %s (%s)", report.Subject.Name, report.Subject.AcademicPeriod),
			HTMLBody: s.composeHTMLBody(report, row),
		}
		if err := s.delivery.Deliver(ctx, composed); err != nil {
			s.logger.Warn().Err(err).Str("to", row.Email).Msg("report delivery failed")
			continue
		}
		delivered++
	}

	if s.activity != nil {
		s.activity.Record(ctx, ActivityEntry{
			ActorID:    actorID,
			Action:     "report.emailed",
			EntityType: "subject",
			EntityID:   &report.Subject.ID,
			Metadata: map[string]interface{}{
				"delivered": delivered,
				"students":  len(report.Rows),
			},
		})
	}

	s.logger.Info().Uint("subject_id", subjectID).Int("delivered", delivered).Msg("grade reports emailed")
	return delivered, nil
}

// composeHTMLBody renders one student's rollup. Names come from instructor
// input, so they pass through the sanitizer before touching markup.
func (s *exportService) composeHTMLBody(report dto.SubjectReportResponse, row dto.ReportRow) string {
	builder := &strings.Builder{}

	name := s.policy.Sanitize(row.Name)
	subjectName := s.policy.Sanitize(report.Subject.Name)

	fmt.Fprintf(builder, "<p>Hello %s,</p>", name)
	fmt.Fprintf(builder, "<p>Your current grades for <strong>%s</strong>:</p>", subjectName)
	builder.WriteString("<ul>")
	for _, corte := range row.Cortes {
		if corte.EvaluationCount == 0 {
			continue
		}
		fmt.Fprintf(builder, "<li>Corte %d: %s/20 (%s accumulated points)</li>",
			corte.Corte, formatNumber(corte.NormalizedGrade), formatNumber(corte.WeightedSum))
	}
	builder.WriteString("</ul>")
	fmt.Fprintf(builder, "<p>Final grade so far: <strong>%s/20</strong></p>", formatNumber(row.FinalGrade))

	return builder.String()
}

func findCell(row dto.ReportRow, evaluationID uint) dto.GradeCell {
	for _, corte := range row.Cortes {
		for _, cell := range corte.Cells {
			if cell.EvaluationID == evaluationID {
				return cell
			}
		}
	}
	return dto.GradeCell{EvaluationID: evaluationID}
}

// formatCell renders a score, or an empty string for an ungraded cell.
func formatCell(cell dto.GradeCell) string {
	if !cell.Graded || cell.Score == nil {
		return ""
	}
	return formatNumber(*cell.Score)
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(grading.Round2(value), 'f', -1, 64)
}
