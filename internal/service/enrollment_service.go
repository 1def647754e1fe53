package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/repository"
)

// ErrEnrollmentNotFound indicates the student has no enrollment for the
// subject.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// ErrAlreadyEnrolled mirrors the repository sentinel at the service
// boundary.
var ErrAlreadyEnrolled = repository.ErrAlreadyEnrolled

// EnrollmentService manages the subject roster. Enrolling materializes
// ungraded rows for the subject's evaluations; unenrolling removes the
// student's grades for the subject.
type EnrollmentService interface {
	ListStudents(ctx context.Context, subjectID uint) ([]dto.StudentResponse, error)
	Enroll(ctx context.Context, subjectID, studentID uint, actorID uint) error
	Unenroll(ctx context.Context, subjectID, studentID uint, actorID uint) error
}

type enrollmentService struct {
	repo     repository.EnrollmentRepository
	subjects repository.SubjectRepository
	students repository.StudentRepository
	cache    *ReportCache
	activity ActivityRecorder
	logger   zerolog.Logger
}

// NewEnrollmentService builds a new enrollment service.
func NewEnrollmentService(
	repo repository.EnrollmentRepository,
	subjects repository.SubjectRepository,
	students repository.StudentRepository,
	cache *ReportCache,
	activity ActivityRecorder,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		repo:     repo,
		subjects: subjects,
		students: students,
		cache:    cache,
		activity: activity,
		logger:   logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) ListStudents(ctx context.Context, subjectID uint) ([]dto.StudentResponse, error) {
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	students, err := s.repo.ListStudentsBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponseSlice(students), nil
}

func (s *enrollmentService) Enroll(ctx context.Context, subjectID, studentID uint, actorID uint) error {
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if err := s.repo.Enroll(ctx, studentID, subjectID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, subjectID)
	s.record(ctx, actorID, "student.enrolled", subjectID, studentID)
	s.logger.Info().Uint("subject_id", subjectID).Uint("student_id", studentID).Msg("student enrolled")
	return nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, subjectID, studentID uint, actorID uint) error {
	if err := s.repo.Unenroll(ctx, studentID, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	s.cache.Invalidate(ctx, subjectID)
	s.record(ctx, actorID, "student.unenrolled", subjectID, studentID)
	s.logger.Info().Uint("subject_id", subjectID).Uint("student_id", studentID).Msg("student unenrolled with grades removed")
	return nil
}

func (s *enrollmentService) record(ctx context.Context, actorID uint, action string, subjectID, studentID uint) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: "enrollment",
		Metadata: map[string]interface{}{
			"subject_id": subjectID,
			"student_id": studentID,
		},
	})
}
