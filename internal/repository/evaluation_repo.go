package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acadex/gradebook-api/internal/models"
)

// EvaluationRepository provides access to evaluations and maintains the
// grade-row invariant: a (student, evaluation) grade row exists exactly for
// enrolled students.
type EvaluationRepository interface {
	ListBySubject(ctx context.Context, subjectID uint) ([]models.Evaluation, error)
	GetByID(ctx context.Context, id uint) (models.Evaluation, error)
	Create(ctx context.Context, evaluation *models.Evaluation) error
	Update(ctx context.Context, evaluation *models.Evaluation) error
	Delete(ctx context.Context, id uint) error
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository constructs an evaluation repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) ListBySubject(ctx context.Context, subjectID uint) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("corte asc, id asc").
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *evaluationRepository) GetByID(ctx context.Context, id uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).First(&evaluation, id).Error; err != nil {
		return models.Evaluation{}, err
	}
	return evaluation, nil
}

// Create inserts the evaluation and materializes an ungraded grade row for
// every student enrolled in the subject, in one transaction.
func (r *evaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(evaluation).Error; err != nil {
			return err
		}

		var enrollments []models.Enrollment
		if err := tx.Where("subject_id = ?", evaluation.SubjectID).Find(&enrollments).Error; err != nil {
			return err
		}
		if len(enrollments) == 0 {
			return nil
		}

		placeholders := make([]models.Grade, 0, len(enrollments))
		for _, enrollment := range enrollments {
			placeholders = append(placeholders, models.Grade{
				StudentID:    enrollment.StudentID,
				EvaluationID: evaluation.ID,
			})
		}
		return tx.Create(&placeholders).Error
	})
}

func (r *evaluationRepository) Update(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Save(evaluation).Error
}

// Delete removes the evaluation and its grade rows in one transaction.
func (r *evaluationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var evaluation models.Evaluation
		if err := tx.First(&evaluation, id).Error; err != nil {
			return err
		}
		if err := tx.Where("evaluation_id = ?", id).Delete(&models.Grade{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Evaluation{}, id).Error
	})
}
