package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/grading"
	"github.com/acadex/gradebook-api/internal/models"
	"github.com/acadex/gradebook-api/internal/repository"
)

// ErrEvaluationNotFound indicates the requested evaluation does not exist.
var ErrEvaluationNotFound = errors.New("evaluation not found")

// EvaluationService exposes evaluation use cases. Every create and edit is
// gated by the grading validator; a rejected proposal commits nothing.
type EvaluationService interface {
	ListBySubject(ctx context.Context, subjectID uint) ([]dto.EvaluationResponse, error)
	Create(ctx context.Context, subjectID uint, payload dto.EvaluationCreateRequest, actorID uint) (dto.EvaluationResponse, error)
	Update(ctx context.Context, id uint, payload dto.EvaluationUpdateRequest, actorID uint) (dto.EvaluationResponse, error)
	Delete(ctx context.Context, id uint, actorID uint) error
}

type evaluationService struct {
	repo      repository.EvaluationRepository
	subjects  repository.SubjectRepository
	cache     *ReportCache
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewEvaluationService builds a new evaluation service.
func NewEvaluationService(
	repo repository.EvaluationRepository,
	subjects repository.SubjectRepository,
	cache *ReportCache,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) EvaluationService {
	return &evaluationService{
		repo:      repo,
		subjects:  subjects,
		cache:     cache,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
	}
}

func (s *evaluationService) ListBySubject(ctx context.Context, subjectID uint) ([]dto.EvaluationResponse, error) {
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	evaluations, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return dto.NewEvaluationResponseSlice(evaluations), nil
}

func (s *evaluationService) Create(ctx context.Context, subjectID uint, payload dto.EvaluationCreateRequest, actorID uint) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrSubjectNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	existing, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	proposed := grading.ProposedEvaluation{
		Name:       payload.Name,
		Corte:      payload.Corte,
		Percentage: payload.Percentage,
	}
	if err := grading.ValidateEvaluation(proposed, evaluationWeights(existing), 0); err != nil {
		return dto.EvaluationResponse{}, err
	}

	evaluation := models.Evaluation{
		SubjectID:  subjectID,
		Corte:      payload.Corte,
		Name:       payload.Name,
		Percentage: payload.Percentage,
	}
	if err := s.repo.Create(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	s.cache.Invalidate(ctx, subjectID)
	s.record(ctx, actorID, "evaluation.created", evaluation)
	s.logger.Info().Uint("evaluation_id", evaluation.ID).Uint("subject_id", subjectID).Msg("evaluation created")
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Update(ctx context.Context, id uint, payload dto.EvaluationUpdateRequest, actorID uint) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	evaluation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	if payload.Name != nil {
		evaluation.Name = *payload.Name
	}
	if payload.Corte != nil {
		evaluation.Corte = *payload.Corte
	}
	if payload.Percentage != nil {
		evaluation.Percentage = *payload.Percentage
	}

	existing, err := s.repo.ListBySubject(ctx, evaluation.SubjectID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	proposed := grading.ProposedEvaluation{
		Name:       evaluation.Name,
		Corte:      evaluation.Corte,
		Percentage: evaluation.Percentage,
	}
	if err := grading.ValidateEvaluation(proposed, evaluationWeights(existing), evaluation.ID); err != nil {
		return dto.EvaluationResponse{}, err
	}

	if err := s.repo.Update(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	s.cache.Invalidate(ctx, evaluation.SubjectID)
	s.record(ctx, actorID, "evaluation.updated", evaluation)
	s.logger.Info().Uint("evaluation_id", evaluation.ID).Msg("evaluation updated")
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Delete(ctx context.Context, id uint, actorID uint) error {
	evaluation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEvaluationNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEvaluationNotFound
		}
		return err
	}

	s.cache.Invalidate(ctx, evaluation.SubjectID)
	s.record(ctx, actorID, "evaluation.deleted", evaluation)
	s.logger.Info().Uint("evaluation_id", id).Msg("evaluation deleted with its grades")
	return nil
}

func (s *evaluationService) record(ctx context.Context, actorID uint, action string, evaluation models.Evaluation) {
	if s.activity == nil {
		return
	}
	entityID := evaluation.ID
	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: "evaluation",
		EntityID:   &entityID,
		Metadata: map[string]interface{}{
			"subject_id": evaluation.SubjectID,
			"corte":      evaluation.Corte,
			"name":       evaluation.Name,
			"percentage": evaluation.Percentage,
		},
	})
}

// evaluationWeights projects persistence models onto the engine's view.
func evaluationWeights(evaluations []models.Evaluation) []grading.Evaluation {
	weights := make([]grading.Evaluation, 0, len(evaluations))
	for _, evaluation := range evaluations {
		weights = append(weights, grading.Evaluation{
			ID:         evaluation.ID,
			Corte:      evaluation.Corte,
			Percentage: evaluation.Percentage,
		})
	}
	return weights
}
