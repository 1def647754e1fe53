package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/acadex/gradebook-api/internal/dto"
	"github.com/acadex/gradebook-api/internal/grading"
	"github.com/acadex/gradebook-api/internal/handler"
	"github.com/acadex/gradebook-api/internal/service"
)

type mockEvaluationService struct {
	created   dto.EvaluationResponse
	err       error
	lastActor uint
}

func (m *mockEvaluationService) ListBySubject(_ context.Context, _ uint) ([]dto.EvaluationResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.EvaluationResponse{m.created}, nil
}

func (m *mockEvaluationService) Create(_ context.Context, _ uint, _ dto.EvaluationCreateRequest, actorID uint) (dto.EvaluationResponse, error) {
	m.lastActor = actorID
	if m.err != nil {
		return dto.EvaluationResponse{}, m.err
	}
	return m.created, nil
}

func (m *mockEvaluationService) Update(_ context.Context, _ uint, _ dto.EvaluationUpdateRequest, actorID uint) (dto.EvaluationResponse, error) {
	m.lastActor = actorID
	if m.err != nil {
		return dto.EvaluationResponse{}, m.err
	}
	return m.created, nil
}

func (m *mockEvaluationService) Delete(_ context.Context, _ uint, actorID uint) error {
	m.lastActor = actorID
	return m.err
}

func newEvaluationApp(svc service.EvaluationService) *fiber.App {
	app := fiber.New()
	logger := zerolog.New(io.Discard)
	h := handler.NewEvaluationHandler(svc, logger)
	subjects := app.Group("/api/v1/subjects", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		return c.Next()
	})
	h.RegisterSubjectRoutes(subjects)
	h.Register(app.Group("/api/v1/evaluations"))
	return app
}

func postEvaluation(t *testing.T, app *fiber.App, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/1/evaluations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestEvaluationHandler_CreateSuccess(t *testing.T) {
	svc := &mockEvaluationService{created: dto.EvaluationResponse{ID: 3, SubjectID: 1, Corte: 1, Name: "Quiz", Percentage: 20}}
	app := newEvaluationApp(svc)

	resp := postEvaluation(t, app, dto.EvaluationCreateRequest{Name: "Quiz", Corte: 1, Percentage: 20})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(7), svc.lastActor)

	var response struct {
		Success bool                   `json:"success"`
		Data    dto.EvaluationResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, uint(3), response.Data.ID)
}

func TestEvaluationHandler_BudgetRejection(t *testing.T) {
	svc := &mockEvaluationService{err: &grading.BudgetError{Err: grading.ErrCorteBudgetExceeded, Corte: 1, Remaining: 5}}
	app := newEvaluationApp(svc)

	resp := postEvaluation(t, app, dto.EvaluationCreateRequest{Name: "Quiz", Corte: 1, Percentage: 40})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.False(t, response.Success)
	require.Contains(t, response.Message, "available")
}

func TestEvaluationHandler_SubjectNotFound(t *testing.T) {
	svc := &mockEvaluationService{err: service.ErrSubjectNotFound}
	app := newEvaluationApp(svc)

	resp := postEvaluation(t, app, dto.EvaluationCreateRequest{Name: "Quiz", Corte: 1, Percentage: 20})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEvaluationHandler_UpdateNotFound(t *testing.T) {
	svc := &mockEvaluationService{err: service.ErrEvaluationNotFound}
	app := newEvaluationApp(svc)

	body, err := json.Marshal(fiber.Map{"percentage": 25})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/evaluations/9", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEvaluationHandler_InvalidIdentifier(t *testing.T) {
	app := newEvaluationApp(&mockEvaluationService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/evaluations/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}
