package dto

import (
	"time"

	"github.com/acadex/gradebook-api/internal/models"
)

// EvaluationCreateRequest describes the payload for adding an evaluation to
// a subject. Budget rules are enforced by the grading validator, not here;
// the tags only reject payloads that are not worth validating.
type EvaluationCreateRequest struct {
	Name       string  `json:"name" validate:"required"`
	Corte      int     `json:"corte" validate:"required,min=1,max=3"`
	Percentage float64 `json:"percentage" validate:"required"`
}

// EvaluationUpdateRequest describes the payload for editing an evaluation.
// Corte and percentage are re-validated against the subject budgets with
// the edited evaluation excluded.
type EvaluationUpdateRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1"`
	Corte      *int     `json:"corte" validate:"omitempty,min=1,max=3"`
	Percentage *float64 `json:"percentage"`
}

// EvaluationResponse is the serialized representation returned to API
// clients.
type EvaluationResponse struct {
	ID         uint      `json:"id"`
	SubjectID  uint      `json:"subject_id"`
	Corte      int       `json:"corte"`
	Name       string    `json:"name"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewEvaluationResponse converts a model into a DTO.
func NewEvaluationResponse(model models.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:         model.ID,
		SubjectID:  model.SubjectID,
		Corte:      model.Corte,
		Name:       model.Name,
		Percentage: model.Percentage,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewEvaluationResponseSlice converts a slice of models into DTOs.
func NewEvaluationResponseSlice(evaluations []models.Evaluation) []EvaluationResponse {
	responses := make([]EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, NewEvaluationResponse(evaluation))
	}
	return responses
}
