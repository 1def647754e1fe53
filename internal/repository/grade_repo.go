package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acadex/gradebook-api/internal/models"
)

// GradeRepository reads and writes individual scores. Grade rows are
// created and deleted by the evaluation and enrollment repositories; here
// they are only looked up and updated.
type GradeRepository interface {
	ListBySubject(ctx context.Context, subjectID uint) ([]models.Grade, error)
	GetByPair(ctx context.Context, studentID, evaluationID uint) (models.Grade, error)
	UpdateScore(ctx context.Context, gradeID uint, score *float64) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository constructs a grade repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) ListBySubject(ctx context.Context, subjectID uint) ([]models.Grade, error) {
	var grades []models.Grade
	err := r.db.WithContext(ctx).
		Joins("JOIN evaluations ON evaluations.id = grades.evaluation_id").
		Where("evaluations.subject_id = ?", subjectID).
		Find(&grades).Error
	if err != nil {
		return nil, err
	}
	return grades, nil
}

func (r *gradeRepository) GetByPair(ctx context.Context, studentID, evaluationID uint) (models.Grade, error) {
	var grade models.Grade
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND evaluation_id = ?", studentID, evaluationID).
		First(&grade).Error
	if err != nil {
		return models.Grade{}, err
	}
	return grade, nil
}

func (r *gradeRepository) UpdateScore(ctx context.Context, gradeID uint, score *float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Grade{}).
		Where("id = ?", gradeID).
		Update("score", score)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
