package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/acadex/gradebook-api/internal/models"
	"github.com/acadex/gradebook-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// memStore is an in-memory stand-in for the persistence layer. It implements
// every repository interface, including the grade-row materialization and
// cascade behavior the real repositories run inside transactions.
type memStore struct {
	students    map[uint]models.Student
	subjects    map[uint]models.Subject
	evaluations map[uint]models.Evaluation
	grades      map[uint]models.Grade
	enrollments map[uint]models.Enrollment
	activity    []models.ActivityLog
	nextID      uint
}

func newMemStore() *memStore {
	return &memStore{
		students:    make(map[uint]models.Student),
		subjects:    make(map[uint]models.Subject),
		evaluations: make(map[uint]models.Evaluation),
		grades:      make(map[uint]models.Grade),
		enrollments: make(map[uint]models.Enrollment),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) addStudent(student models.Student) models.Student {
	if student.ID == 0 {
		student.ID = m.id()
	}
	m.students[student.ID] = student
	return student
}

func (m *memStore) addSubject(subject models.Subject) models.Subject {
	if subject.ID == 0 {
		subject.ID = m.id()
	}
	m.subjects[subject.ID] = subject
	return subject
}

func (m *memStore) addEvaluation(evaluation models.Evaluation) models.Evaluation {
	if evaluation.ID == 0 {
		evaluation.ID = m.id()
	}
	m.evaluations[evaluation.ID] = evaluation
	return evaluation
}

// setScore sets or clears a score directly, bypassing the service layer.
func (m *memStore) setScore(studentID, evaluationID uint, score *float64) {
	for id, grade := range m.grades {
		if grade.StudentID == studentID && grade.EvaluationID == evaluationID {
			grade.Score = score
			m.grades[id] = grade
			return
		}
	}
	m.grades[m.id()] = models.Grade{
		ID:           m.nextID,
		StudentID:    studentID,
		EvaluationID: evaluationID,
		Score:        score,
	}
}

// StudentRepository

func (m *memStore) List(ctx context.Context) ([]models.Student, error) {
	students := make([]models.Student, 0, len(m.students))
	for _, student := range m.students {
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (m *memStore) GetByID(ctx context.Context, id uint) (models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memStore) GetByNationalID(ctx context.Context, nationalID string) (models.Student, error) {
	for _, student := range m.students {
		if student.NationalID == nationalID {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (m *memStore) Create(ctx context.Context, student *models.Student) error {
	student.ID = m.id()
	m.students[student.ID] = *student
	return nil
}

func (m *memStore) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *memStore) Delete(ctx context.Context, id uint) error {
	if _, ok := m.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, id)
	return nil
}

// subjectStore adapts memStore to SubjectRepository; the method set clashes
// with the student repository's, so each repository view gets its own type.
type subjectStore struct{ *memStore }

func (s subjectStore) List(ctx context.Context) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0, len(s.subjects))
	for _, subject := range s.subjects {
		subjects = append(subjects, subject)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (s subjectStore) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	subject, ok := s.subjects[id]
	if !ok {
		return models.Subject{}, gorm.ErrRecordNotFound
	}
	return subject, nil
}

func (s subjectStore) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = s.id()
	s.subjects[subject.ID] = *subject
	return nil
}

func (s subjectStore) Update(ctx context.Context, subject *models.Subject) error {
	s.subjects[subject.ID] = *subject
	return nil
}

func (s subjectStore) Delete(ctx context.Context, id uint) error {
	if _, ok := s.subjects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for evalID, evaluation := range s.evaluations {
		if evaluation.SubjectID != id {
			continue
		}
		for gradeID, grade := range s.grades {
			if grade.EvaluationID == evalID {
				delete(s.grades, gradeID)
			}
		}
		delete(s.evaluations, evalID)
	}
	for enrollID, enrollment := range s.enrollments {
		if enrollment.SubjectID == id {
			delete(s.enrollments, enrollID)
		}
	}
	delete(s.subjects, id)
	return nil
}

// evaluationStore adapts memStore to EvaluationRepository.
type evaluationStore struct{ *memStore }

func (s evaluationStore) ListBySubject(ctx context.Context, subjectID uint) ([]models.Evaluation, error) {
	evaluations := make([]models.Evaluation, 0)
	for _, evaluation := range s.evaluations {
		if evaluation.SubjectID == subjectID {
			evaluations = append(evaluations, evaluation)
		}
	}
	sort.Slice(evaluations, func(i, j int) bool {
		if evaluations[i].Corte != evaluations[j].Corte {
			return evaluations[i].Corte < evaluations[j].Corte
		}
		return evaluations[i].ID < evaluations[j].ID
	})
	return evaluations, nil
}

func (s evaluationStore) GetByID(ctx context.Context, id uint) (models.Evaluation, error) {
	evaluation, ok := s.evaluations[id]
	if !ok {
		return models.Evaluation{}, gorm.ErrRecordNotFound
	}
	return evaluation, nil
}

func (s evaluationStore) Create(ctx context.Context, evaluation *models.Evaluation) error {
	evaluation.ID = s.id()
	s.evaluations[evaluation.ID] = *evaluation
	for _, enrollment := range s.enrollments {
		if enrollment.SubjectID == evaluation.SubjectID {
			s.setScore(enrollment.StudentID, evaluation.ID, nil)
		}
	}
	return nil
}

func (s evaluationStore) Update(ctx context.Context, evaluation *models.Evaluation) error {
	s.evaluations[evaluation.ID] = *evaluation
	return nil
}

func (s evaluationStore) Delete(ctx context.Context, id uint) error {
	if _, ok := s.evaluations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for gradeID, grade := range s.grades {
		if grade.EvaluationID == id {
			delete(s.grades, gradeID)
		}
	}
	delete(s.evaluations, id)
	return nil
}

// enrollmentStore adapts memStore to EnrollmentRepository.
type enrollmentStore struct{ *memStore }

func (s enrollmentStore) ListStudentsBySubject(ctx context.Context, subjectID uint) ([]models.Student, error) {
	students := make([]models.Student, 0)
	for _, enrollment := range s.enrollments {
		if enrollment.SubjectID != subjectID {
			continue
		}
		if student, ok := s.students[enrollment.StudentID]; ok {
			students = append(students, student)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (s enrollmentStore) Enroll(ctx context.Context, studentID, subjectID uint) error {
	for _, enrollment := range s.enrollments {
		if enrollment.StudentID == studentID && enrollment.SubjectID == subjectID {
			return repository.ErrAlreadyEnrolled
		}
	}
	s.enrollments[s.id()] = models.Enrollment{ID: s.nextID, StudentID: studentID, SubjectID: subjectID}
	for _, evaluation := range s.evaluations {
		if evaluation.SubjectID == subjectID {
			s.setScore(studentID, evaluation.ID, nil)
		}
	}
	return nil
}

func (s enrollmentStore) Unenroll(ctx context.Context, studentID, subjectID uint) error {
	found := false
	for id, enrollment := range s.enrollments {
		if enrollment.StudentID == studentID && enrollment.SubjectID == subjectID {
			delete(s.enrollments, id)
			found = true
		}
	}
	if !found {
		return gorm.ErrRecordNotFound
	}
	for gradeID, grade := range s.grades {
		if grade.StudentID != studentID {
			continue
		}
		if evaluation, ok := s.evaluations[grade.EvaluationID]; ok && evaluation.SubjectID == subjectID {
			delete(s.grades, gradeID)
		}
	}
	return nil
}

// gradeStore adapts memStore to GradeRepository.
type gradeStore struct{ *memStore }

func (s gradeStore) ListBySubject(ctx context.Context, subjectID uint) ([]models.Grade, error) {
	grades := make([]models.Grade, 0)
	for _, grade := range s.grades {
		if evaluation, ok := s.evaluations[grade.EvaluationID]; ok && evaluation.SubjectID == subjectID {
			grades = append(grades, grade)
		}
	}
	return grades, nil
}

func (s gradeStore) GetByPair(ctx context.Context, studentID, evaluationID uint) (models.Grade, error) {
	for _, grade := range s.grades {
		if grade.StudentID == studentID && grade.EvaluationID == evaluationID {
			return grade, nil
		}
	}
	return models.Grade{}, gorm.ErrRecordNotFound
}

func (s gradeStore) UpdateScore(ctx context.Context, gradeID uint, score *float64) error {
	grade, ok := s.grades[gradeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	grade.Score = score
	grade.UpdatedAt = time.Now()
	s.grades[gradeID] = grade
	return nil
}

// activityStore adapts memStore to ActivityLogRepository.
type activityStore struct{ *memStore }

func (s activityStore) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = s.id()
	entry.CreatedAt = time.Now()
	s.activity = append(s.activity, *entry)
	return nil
}

func (s activityStore) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	entries := make([]models.ActivityLog, len(s.activity))
	copy(entries, s.activity)
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}
