package dto

import (
	"time"

	"github.com/acadex/gradebook-api/internal/models"
)

// GradeSetRequest describes the payload for recording a score. A null score
// clears the grade back to the ungraded state.
type GradeSetRequest struct {
	Score *float64 `json:"score"`
}

// GradeResponse is the serialized representation of one grade cell. Graded
// tells "scored zero" apart from "not graded"; Score is null while ungraded.
type GradeResponse struct {
	ID           uint      `json:"id"`
	StudentID    uint      `json:"student_id"`
	EvaluationID uint      `json:"evaluation_id"`
	Score        *float64  `json:"score"`
	Graded       bool      `json:"graded"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewGradeResponse converts a model into a DTO.
func NewGradeResponse(model models.Grade) GradeResponse {
	return GradeResponse{
		ID:           model.ID,
		StudentID:    model.StudentID,
		EvaluationID: model.EvaluationID,
		Score:        model.Score,
		Graded:       model.Score != nil,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewGradeResponseSlice converts a slice of models into DTOs.
func NewGradeResponseSlice(grades []models.Grade) []GradeResponse {
	responses := make([]GradeResponse, 0, len(grades))
	for _, grade := range grades {
		responses = append(responses, NewGradeResponse(grade))
	}
	return responses
}
