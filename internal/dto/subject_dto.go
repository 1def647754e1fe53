package dto

import (
	"time"

	"github.com/acadex/gradebook-api/internal/models"
)

// SubjectCreateRequest describes the payload for creating a subject.
type SubjectCreateRequest struct {
	Name           string `json:"name" validate:"required,min=3"`
	AcademicPeriod string `json:"academic_period" validate:"required,min=4,max=64"`
}

// SubjectUpdateRequest describes the payload for updating a subject.
type SubjectUpdateRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=3"`
	AcademicPeriod *string `json:"academic_period" validate:"omitempty,min=4,max=64"`
}

// SubjectResponse is the serialized representation returned to API clients.
type SubjectResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	AcademicPeriod string    `json:"academic_period"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSubjectResponse converts a model into a DTO.
func NewSubjectResponse(model models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:             model.ID,
		Name:           model.Name,
		AcademicPeriod: model.AcademicPeriod,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewSubjectResponseSlice converts a slice of models into DTOs.
func NewSubjectResponseSlice(subjects []models.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, NewSubjectResponse(subject))
	}
	return responses
}
