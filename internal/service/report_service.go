package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/grading"
	"github.com/acadex/gradebook-api/internal/models"
	"github.com/acadex/gradebook-api/internal/repository"
)

// ReportService assembles the aggregated gradebook for a subject. Reports
// are recomputed from a fresh snapshot on every call; the cache is a pure
// read-through that mutations invalidate, so results always reflect the
// latest acknowledged write.
type ReportService interface {
	SubjectReport(ctx context.Context, subjectID uint) (dto.SubjectReportResponse, error)
	SubjectStats(ctx context.Context, subjectID uint) (dto.SubjectStatsResponse, error)
}

type reportService struct {
	subjects    repository.SubjectRepository
	evaluations repository.EvaluationRepository
	enrollments repository.EnrollmentRepository
	grades      repository.GradeRepository
	cache       *ReportCache
	logger      zerolog.Logger
}

// NewReportService constructs the report service.
func NewReportService(
	subjects repository.SubjectRepository,
	evaluations repository.EvaluationRepository,
	enrollments repository.EnrollmentRepository,
	grades repository.GradeRepository,
	cache *ReportCache,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		subjects:    subjects,
		evaluations: evaluations,
		enrollments: enrollments,
		grades:      grades,
		cache:       cache,
		logger:      logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) SubjectReport(ctx context.Context, subjectID uint) (dto.SubjectReportResponse, error) {
	tracer := otel.Tracer("github.com/acadex/gradebook-api/internal/service/report")
	ctx, span := tracer.Start(ctx, "report.build",
		trace.WithAttributes(attribute.Int64("report.subject_id", int64(subjectID))))
	defer span.End()

	if report, ok := s.cache.Get(ctx, subjectID); ok {
		report.CacheHit = true
		span.SetAttributes(attribute.Bool("report.cache_hit", true))
		return report, nil
	}

	snapshot, err := s.loadSnapshot(ctx, subjectID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot_load_failed")
		return dto.SubjectReportResponse{}, err
	}

	report := buildReport(snapshot)
	span.SetAttributes(
		attribute.Int("report.students", len(report.Rows)),
		attribute.Int("report.evaluations", len(report.Evaluations)),
	)

	s.cache.Set(ctx, subjectID, report)
	return report, nil
}

func (s *reportService) SubjectStats(ctx context.Context, subjectID uint) (dto.SubjectStatsResponse, error) {
	report, err := s.SubjectReport(ctx, subjectID)
	if err != nil {
		return dto.SubjectStatsResponse{}, err
	}

	entries := make([]grading.ScoredEntry, 0, len(report.Rows))
	for _, row := range report.Rows {
		entries = append(entries, grading.ScoredEntry{Label: row.Name, Score: row.FinalGrade})
	}

	return dto.NewSubjectStatsResponse(subjectID, grading.ComputeStatistics(entries)), nil
}

// subjectSnapshot is the full state the engine needs for one subject.
type subjectSnapshot struct {
	subject     models.Subject
	students    []models.Student
	evaluations []models.Evaluation
	weights     []grading.Evaluation
	scores      grading.ScoreBook
}

func (s *reportService) loadSnapshot(ctx context.Context, subjectID uint) (subjectSnapshot, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return subjectSnapshot{}, ErrSubjectNotFound
		}
		return subjectSnapshot{}, err
	}

	students, err := s.enrollments.ListStudentsBySubject(ctx, subjectID)
	if err != nil {
		return subjectSnapshot{}, err
	}
	evaluations, err := s.evaluations.ListBySubject(ctx, subjectID)
	if err != nil {
		return subjectSnapshot{}, err
	}
	grades, err := s.grades.ListBySubject(ctx, subjectID)
	if err != nil {
		return subjectSnapshot{}, err
	}

	return subjectSnapshot{
		subject:     subject,
		students:    students,
		evaluations: evaluations,
		weights:     evaluationWeights(evaluations),
		scores:      scoreBook(grades),
	}, nil
}

// scoreBook projects grade rows onto the engine's score index. Rows with a
// NULL score stay absent so they read back as ungraded.
func scoreBook(grades []models.Grade) grading.ScoreBook {
	book := make(grading.ScoreBook)
	for _, grade := range grades {
		if grade.Score == nil {
			continue
		}
		if book[grade.StudentID] == nil {
			book[grade.StudentID] = make(map[uint]grading.Score)
		}
		book[grade.StudentID][grade.EvaluationID] = grading.Score{Value: *grade.Score, Graded: true}
	}
	return book
}

func buildReport(snapshot subjectSnapshot) dto.SubjectReportResponse {
	report := dto.SubjectReportResponse{
		Subject:         dto.NewSubjectResponse(snapshot.subject),
		Evaluations:     dto.NewEvaluationResponseSlice(snapshot.evaluations),
		CorteSummaries:  []dto.CorteSummary{},
		TotalPercentage: grading.Round2(grading.TotalPercentage(snapshot.weights)),
		Rows:            make([]dto.ReportRow, 0, len(snapshot.students)),
	}

	// Empty cortes are excluded from the percentage summary.
	for corte := grading.MinCorte; corte <= grading.MaxCorte; corte++ {
		percentage := grading.CortePercentage(corte, snapshot.weights)
		if percentage <= 0 {
			continue
		}
		report.CorteSummaries = append(report.CorteSummaries, dto.CorteSummary{
			Corte:      corte,
			Percentage: grading.Round2(percentage),
			Cap:        grading.CorteCap(corte),
		})
	}

	for _, student := range snapshot.students {
		row := dto.ReportRow{
			StudentID:  student.ID,
			NationalID: student.NationalID,
			Name:       student.Name,
			Email:      student.Email,
			Cortes:     make([]dto.CorteResult, 0, grading.MaxCorte),
		}

		for corte := grading.MinCorte; corte <= grading.MaxCorte; corte++ {
			result := dto.CorteResult{
				Corte:           corte,
				WeightedSum:     grading.Round2(grading.WeightedCorteSum(student.ID, corte, snapshot.weights, snapshot.scores)),
				NormalizedGrade: grading.Round2(grading.NormalizedCorteGrade(student.ID, corte, snapshot.weights, snapshot.scores)),
				Cells:           []dto.GradeCell{},
			}

			for _, evaluation := range snapshot.evaluations {
				if evaluation.Corte != corte {
					continue
				}
				result.EvaluationCount++

				cell := dto.GradeCell{EvaluationID: evaluation.ID}
				if score, ok := snapshot.scores[student.ID][evaluation.ID]; ok {
					value := score.Value
					cell.Score = &value
					cell.Graded = true
					result.GradedCount++
				}
				result.Cells = append(result.Cells, cell)
			}

			row.Cortes = append(row.Cortes, result)
		}

		row.FinalGrade = grading.Round2(grading.FinalGrade(student.ID, snapshot.weights, snapshot.scores))
		report.Rows = append(report.Rows, row)
	}

	return report
}
