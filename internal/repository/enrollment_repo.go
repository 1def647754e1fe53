package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/acadex/gradebook-api/internal/models"
)

// ErrAlreadyEnrolled indicates the student already has an enrollment for
// the subject.
var ErrAlreadyEnrolled = errors.New("student already enrolled in subject")

// EnrollmentRepository manages student-subject associations and the grade
// rows they imply.
type EnrollmentRepository interface {
	ListStudentsBySubject(ctx context.Context, subjectID uint) ([]models.Student, error)
	Enroll(ctx context.Context, studentID, subjectID uint) error
	Unenroll(ctx context.Context, studentID, subjectID uint) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) ListStudentsBySubject(ctx context.Context, subjectID uint) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.student_id = students.id").
		Where("enrollments.subject_id = ?", subjectID).
		Order("students.name asc").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

// Enroll creates the enrollment and materializes an ungraded grade row for
// every evaluation the subject already has.
func (r *enrollmentRepository) Enroll(ctx context.Context, studentID, subjectID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.Enrollment{}).
			Where("student_id = ? AND subject_id = ?", studentID, subjectID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyEnrolled
		}

		enrollment := models.Enrollment{StudentID: studentID, SubjectID: subjectID}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		var evaluations []models.Evaluation
		if err := tx.Where("subject_id = ?", subjectID).Find(&evaluations).Error; err != nil {
			return err
		}
		if len(evaluations) == 0 {
			return nil
		}

		placeholders := make([]models.Grade, 0, len(evaluations))
		for _, evaluation := range evaluations {
			placeholders = append(placeholders, models.Grade{
				StudentID:    studentID,
				EvaluationID: evaluation.ID,
			})
		}
		return tx.Create(&placeholders).Error
	})
}

// Unenroll removes the association and the student's grade rows for the
// subject's evaluations.
func (r *enrollmentRepository) Unenroll(ctx context.Context, studentID, subjectID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		evaluationIDs := tx.Model(&models.Evaluation{}).Select("id").Where("subject_id = ?", subjectID)
		err := tx.Where("student_id = ? AND evaluation_id IN (?)", studentID, evaluationIDs).
			Delete(&models.Grade{}).Error
		if err != nil {
			return err
		}

		result := tx.Where("student_id = ? AND subject_id = ?", studentID, subjectID).
			Delete(&models.Enrollment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
