package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/models"
)

func newTestCache(t *testing.T) *ReportCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReportCache(client, time.Minute, testLogger())
}

func newReportService(store *memStore, cache *ReportCache) ReportService {
	return NewReportService(
		subjectStore{store},
		evaluationStore{store},
		enrollmentStore{store},
		gradeStore{store},
		cache,
		testLogger(),
	)
}

// seedReportSubject builds a subject with a 30/30/40 evaluation layout and
// two enrolled students. Ana has corte 1 and 3 graded, corte 2 pending;
// Luis has perfect scores on the graded evaluations.
func seedReportSubject(t *testing.T, store *memStore) models.Subject {
	t.Helper()
	ctx := context.Background()

	subject := store.addSubject(models.Subject{Name: "Calculus", AcademicPeriod: "2026-1"})
	quiz := store.addEvaluation(models.Evaluation{SubjectID: subject.ID, Corte: 1, Name: "Quiz", Percentage: 30})
	store.addEvaluation(models.Evaluation{SubjectID: subject.ID, Corte: 2, Name: "Parcial", Percentage: 30})
	project := store.addEvaluation(models.Evaluation{SubjectID: subject.ID, Corte: 3, Name: "Proyecto", Percentage: 40})

	ana := store.addStudent(models.Student{NationalID: "V-1", Name: "Ana", Email: "ana@example.com"})
	luis := store.addStudent(models.Student{NationalID: "V-2", Name: "Luis", Email: "luis@example.com"})
	require.NoError(t, enrollmentStore{store}.Enroll(ctx, ana.ID, subject.ID))
	require.NoError(t, enrollmentStore{store}.Enroll(ctx, luis.ID, subject.ID))

	fifteen, ten, twenty := 15.0, 10.0, 20.0
	store.setScore(ana.ID, quiz.ID, &fifteen)
	store.setScore(ana.ID, project.ID, &ten)
	store.setScore(luis.ID, quiz.ID, &twenty)
	store.setScore(luis.ID, project.ID, &twenty)

	return subject
}

func rowByName(t *testing.T, report dto.SubjectReportResponse, name string) dto.ReportRow {
	t.Helper()
	for _, row := range report.Rows {
		if row.Name == name {
			return row
		}
	}
	t.Fatalf("no report row for %s", name)
	return dto.ReportRow{}
}

func TestSubjectReportAggregation(t *testing.T) {
	store := newMemStore()
	subject := seedReportSubject(t, store)
	svc := newReportService(store, nil)

	report, err := svc.SubjectReport(context.Background(), subject.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, report.TotalPercentage)
	require.Len(t, report.CorteSummaries, 3)
	require.Len(t, report.Rows, 2)

	ana := rowByName(t, report, "Ana")
	require.Equal(t, 4.5, ana.Cortes[0].WeightedSum)
	require.Equal(t, 15.0, ana.Cortes[0].NormalizedGrade)
	require.Equal(t, 0.0, ana.Cortes[1].WeightedSum, "ungraded evaluations contribute nothing")
	require.Equal(t, 4.0, ana.Cortes[2].WeightedSum)
	require.Equal(t, 8.5, ana.FinalGrade)

	luis := rowByName(t, report, "Luis")
	require.Equal(t, 14.0, luis.FinalGrade)
}

func TestSubjectReportDistinguishesUngradedCells(t *testing.T) {
	store := newMemStore()
	subject := seedReportSubject(t, store)
	svc := newReportService(store, nil)

	report, err := svc.SubjectReport(context.Background(), subject.ID)
	require.NoError(t, err)

	ana := rowByName(t, report, "Ana")
	require.Equal(t, 1, ana.Cortes[0].GradedCount)
	require.Equal(t, 0, ana.Cortes[1].GradedCount)
	require.Len(t, ana.Cortes[1].Cells, 1)
	require.False(t, ana.Cortes[1].Cells[0].Graded)
	require.Nil(t, ana.Cortes[1].Cells[0].Score)
}

func TestSubjectReportUnknownSubject(t *testing.T) {
	store := newMemStore()
	svc := newReportService(store, nil)

	_, err := svc.SubjectReport(context.Background(), 7)
	require.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestSubjectReportCacheRoundTrip(t *testing.T) {
	store := newMemStore()
	subject := seedReportSubject(t, store)
	cache := newTestCache(t)
	svc := newReportService(store, cache)

	first, err := svc.SubjectReport(context.Background(), subject.ID)
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := svc.SubjectReport(context.Background(), subject.ID)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Rows, second.Rows)
}

func TestSubjectReportCacheInvalidatedByGradeWrite(t *testing.T) {
	store := newMemStore()
	subject := seedReportSubject(t, store)
	cache := newTestCache(t)
	reports := newReportService(store, cache)
	grades := NewGradeService(gradeStore{store}, evaluationStore{store}, cache, nil, testLogger())

	before, err := reports.SubjectReport(context.Background(), subject.ID)
	require.NoError(t, err)
	ana := rowByName(t, before, "Ana")
	require.Equal(t, 8.5, ana.FinalGrade)

	// Grade Ana's pending corte 2 evaluation through the service, which
	// must drop the cached report before acknowledging.
	parcial := findEvaluationByName(t, store, "Parcial")
	score := 20.0
	_, err = grades.Set(context.Background(), ana.StudentID, parcial.ID, dto.GradeSetRequest{Score: &score}, 1)
	require.NoError(t, err)

	after, err := reports.SubjectReport(context.Background(), subject.ID)
	require.NoError(t, err)
	require.False(t, after.CacheHit, "a grade write must invalidate the cached report")
	require.Equal(t, 14.5, rowByName(t, after, "Ana").FinalGrade)
}

func findEvaluationByName(t *testing.T, store *memStore, name string) models.Evaluation {
	t.Helper()
	for _, evaluation := range store.evaluations {
		if evaluation.Name == name {
			return evaluation
		}
	}
	t.Fatalf("no evaluation named %s", name)
	return models.Evaluation{}
}

func TestSubjectStats(t *testing.T) {
	store := newMemStore()
	subject := seedReportSubject(t, store)
	svc := newReportService(store, nil)

	stats, err := svc.SubjectStats(context.Background(), subject.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Count)
	require.Equal(t, 11.25, stats.Average)
	require.Equal(t, 14.0, stats.Highest)
	require.Equal(t, 8.5, stats.Lowest)
	require.Equal(t, 1, stats.Passed)
	require.Equal(t, 1, stats.Failed)
	require.Equal(t, 50.0, stats.PassRate)
	require.Equal(t, []int{0, 0, 1, 1, 0}, stats.Distribution)
	require.Equal(t, "Luis", stats.PassedList[0].Label)
	require.Equal(t, "Ana", stats.FailedList[0].Label)
}

func TestSubjectStatsEmptyRoster(t *testing.T) {
	store := newMemStore()
	subject := store.addSubject(models.Subject{Name: "Empty", AcademicPeriod: "2026-1"})
	svc := newReportService(store, nil)

	stats, err := svc.SubjectStats(context.Background(), subject.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Count)
	require.Equal(t, 0.0, stats.Average)
	require.Empty(t, stats.PassedList)
	require.Empty(t, stats.FailedList)
}
