package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/handler"
)

type stubReportService struct {
	report dto.SubjectReportResponse
	stats  dto.SubjectStatsResponse
}

func (s stubReportService) SubjectReport(context.Context, uint) (dto.SubjectReportResponse, error) {
	return s.report, nil
}

func (s stubReportService) SubjectStats(context.Context, uint) (dto.SubjectStatsResponse, error) {
	return s.stats, nil
}

type stubExportService struct{}

func (stubExportService) SubjectCSV(context.Context, uint) ([]byte, error) { return nil, nil }
func (stubExportService) EmailReports(context.Context, uint, uint) (int, error) {
	return 0, nil
}

func TestSubjectReportContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "subject_report.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	fifteen := 15.0
	report := dto.SubjectReportResponse{
		Subject: dto.SubjectResponse{ID: 1, Name: "Calculus", AcademicPeriod: "2026-1"},
		Evaluations: []dto.EvaluationResponse{
			{ID: 10, SubjectID: 1, Corte: 1, Name: "Quiz", Percentage: 30},
			{ID: 11, SubjectID: 1, Corte: 2, Name: "Parcial", Percentage: 30},
		},
		CorteSummaries: []dto.CorteSummary{
			{Corte: 1, Percentage: 30, Cap: 30},
			{Corte: 2, Percentage: 30, Cap: 30},
		},
		TotalPercentage: 60,
		Rows: []dto.ReportRow{
			{
				StudentID:  2,
				NationalID: "V-1",
				Name:       "Ana",
				Email:      "ana@example.com",
				Cortes: []dto.CorteResult{
					{
						Corte:           1,
						WeightedSum:     4.5,
						NormalizedGrade: 15,
						GradedCount:     1,
						EvaluationCount: 1,
						Cells:           []dto.GradeCell{{EvaluationID: 10, Score: &fifteen, Graded: true}},
					},
					{
						Corte:           2,
						WeightedSum:     0,
						NormalizedGrade: 0,
						GradedCount:     0,
						EvaluationCount: 1,
						Cells:           []dto.GradeCell{{EvaluationID: 11}},
					},
					{
						Corte:           3,
						WeightedSum:     0,
						NormalizedGrade: 0,
						Cells:           []dto.GradeCell{},
					},
				},
				FinalGrade: 4.5,
			},
		},
	}

	app := fiber.New()
	h := handler.NewReportHandler(stubReportService{report: report}, stubExportService{}, zerolog.Nop())
	h.RegisterSubjectRoutes(app.Group("/api/v1/subjects"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/subjects/1/report", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
