package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/grading"
	"github.com/acadex/gradebook-api/internal/repository"
)

// ErrGradeNotFound indicates no grade row exists for the pair, meaning the
// student is not enrolled in the evaluation's subject.
var ErrGradeNotFound = errors.New("grade not found")

// GradeService records scores. Scores are clamped to the grading scale at
// write time; a null score returns the cell to the ungraded state.
type GradeService interface {
	Set(ctx context.Context, studentID, evaluationID uint, payload dto.GradeSetRequest, actorID uint) (dto.GradeResponse, error)
}

type gradeService struct {
	repo        repository.GradeRepository
	evaluations repository.EvaluationRepository
	cache       *ReportCache
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewGradeService builds a new grade service.
func NewGradeService(
	repo repository.GradeRepository,
	evaluations repository.EvaluationRepository,
	cache *ReportCache,
	activity ActivityRecorder,
	logger zerolog.Logger,
) GradeService {
	return &gradeService{
		repo:        repo,
		evaluations: evaluations,
		cache:       cache,
		activity:    activity,
		logger:      logger.With().Str("component", "grade_service").Logger(),
	}
}

func (s *gradeService) Set(ctx context.Context, studentID, evaluationID uint, payload dto.GradeSetRequest, actorID uint) (dto.GradeResponse, error) {
	grade, err := s.repo.GetByPair(ctx, studentID, evaluationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}

	var score *float64
	if payload.Score != nil {
		clamped := clampScore(*payload.Score)
		score = &clamped
	}

	if err := s.repo.UpdateScore(ctx, grade.ID, score); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}
	grade.Score = score

	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err == nil {
		s.cache.Invalidate(ctx, evaluation.SubjectID)
	} else {
		s.logger.Warn().Err(err).Uint("evaluation_id", evaluationID).Msg("could not resolve subject for cache invalidation")
	}

	if s.activity != nil {
		entityID := grade.ID
		metadata := map[string]interface{}{
			"student_id":    studentID,
			"evaluation_id": evaluationID,
		}
		if score != nil {
			metadata["score"] = *score
		} else {
			metadata["cleared"] = true
		}
		s.activity.Record(ctx, ActivityEntry{
			ActorID:    actorID,
			Action:     "grade.recorded",
			EntityType: "grade",
			EntityID:   &entityID,
			Metadata:   metadata,
		})
	}

	s.logger.Info().
		Uint("student_id", studentID).
		Uint("evaluation_id", evaluationID).
		Bool("graded", score != nil).
		Msg("grade recorded")
	return dto.NewGradeResponse(grade), nil
}

// clampScore bounds a score to the [0,20] grading scale.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > grading.MaxScore {
		return grading.MaxScore
	}
	return score
}
