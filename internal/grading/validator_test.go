package grading

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEvaluationMissingName(t *testing.T) {
	err := ValidateEvaluation(ProposedEvaluation{Name: "   ", Corte: 1, Percentage: 10}, nil, 0)
	require.ErrorIs(t, err, ErrMissingField)
}

func TestValidateEvaluationNaNPercentage(t *testing.T) {
	err := ValidateEvaluation(ProposedEvaluation{Name: "Quiz", Corte: 1, Percentage: math.NaN()}, nil, 0)
	require.ErrorIs(t, err, ErrMissingField)
}

func TestValidateEvaluationNonPositivePercentage(t *testing.T) {
	for _, percentage := range []float64{0, -5} {
		err := ValidateEvaluation(ProposedEvaluation{Name: "Quiz", Corte: 1, Percentage: percentage}, nil, 0)
		require.ErrorIs(t, err, ErrInvalidPercentage)
	}
}

func TestValidateEvaluationCorteOutOfRange(t *testing.T) {
	for _, corte := range []int{0, 4, -1} {
		err := ValidateEvaluation(ProposedEvaluation{Name: "Quiz", Corte: corte, Percentage: 10}, nil, 0)
		require.ErrorIs(t, err, ErrInvalidCorte)
	}
}

func TestValidateEvaluationCorteBudget(t *testing.T) {
	existing := []Evaluation{
		{ID: 1, Corte: 1, Percentage: 15},
		{ID: 2, Corte: 1, Percentage: 10},
	}

	require.NoError(t, ValidateEvaluation(ProposedEvaluation{Name: "Quiz", Corte: 1, Percentage: 5}, existing, 0))

	err := ValidateEvaluation(ProposedEvaluation{Name: "Quiz", Corte: 1, Percentage: 6}, existing, 0)
	require.ErrorIs(t, err, ErrCorteBudgetExceeded)

	var budgetErr *BudgetError
	require.True(t, errors.As(err, &budgetErr))
	require.Equal(t, 1, budgetErr.Corte)
	require.InDelta(t, 5.0, budgetErr.Remaining, 1e-9)
	require.Contains(t, budgetErr.Error(), "5.00% available")
}

func TestValidateEvaluationEditExcludesSelf(t *testing.T) {
	existing := []Evaluation{{ID: 9, Corte: 1, Percentage: 20}}

	// Keeping or raising the percentage within the cap must succeed.
	require.NoError(t, ValidateEvaluation(ProposedEvaluation{Name: "Parcial", Corte: 1, Percentage: 20}, existing, 9))
	require.NoError(t, ValidateEvaluation(ProposedEvaluation{Name: "Parcial", Corte: 1, Percentage: 25}, existing, 9))

	// The rejection reports the allowance as the corte currently stands:
	// cap 30 minus the committed 20.
	err := ValidateEvaluation(ProposedEvaluation{Name: "Parcial", Corte: 1, Percentage: 35}, existing, 9)
	require.ErrorIs(t, err, ErrCorteBudgetExceeded)

	var budgetErr *BudgetError
	require.True(t, errors.As(err, &budgetErr))
	require.InDelta(t, 10.0, budgetErr.Remaining, 1e-9)
}

func TestValidateEvaluationTotalBudget(t *testing.T) {
	existing := []Evaluation{
		{ID: 1, Corte: 1, Percentage: 30},
		{ID: 2, Corte: 2, Percentage: 30},
		{ID: 3, Corte: 3, Percentage: 35},
	}

	err := ValidateEvaluation(ProposedEvaluation{Name: "Final", Corte: 3, Percentage: 10}, existing, 0)
	require.ErrorIs(t, err, ErrCorteBudgetExceeded)

	// Legacy data may overfill a corte; the proposal fits its own corte cap
	// but pushes the subject past 100.
	existing = []Evaluation{
		{ID: 1, Corte: 1, Percentage: 50},
		{ID: 2, Corte: 2, Percentage: 30},
		{ID: 3, Corte: 3, Percentage: 10},
	}
	err = ValidateEvaluation(ProposedEvaluation{Name: "Final", Corte: 3, Percentage: 15}, existing, 0)
	require.ErrorIs(t, err, ErrTotalBudgetExceeded)

	var budgetErr *BudgetError
	require.True(t, errors.As(err, &budgetErr))
	require.InDelta(t, 10.0, budgetErr.Remaining, 1e-9)
	require.Contains(t, budgetErr.Error(), "10.00% available")
}

func TestValidateEvaluationExactFit(t *testing.T) {
	existing := []Evaluation{
		{ID: 1, Corte: 3, Percentage: 10.1},
		{ID: 2, Corte: 3, Percentage: 19.9},
	}

	// 10.1 + 19.9 + 10 is exactly the corte 3 cap; float noise must not
	// reject it.
	require.NoError(t, ValidateEvaluation(ProposedEvaluation{Name: "Examen", Corte: 3, Percentage: 10}, existing, 0))
}

func TestValidateEvaluationDoesNotMutateExisting(t *testing.T) {
	existing := []Evaluation{{ID: 1, Corte: 1, Percentage: 28}}
	snapshot := append([]Evaluation(nil), existing...)

	err := ValidateEvaluation(ProposedEvaluation{Name: "Quiz", Corte: 1, Percentage: 10}, existing, 0)
	require.ErrorIs(t, err, ErrCorteBudgetExceeded)
	require.Equal(t, snapshot, existing)
}

func TestCorteCap(t *testing.T) {
	require.Equal(t, 30.0, CorteCap(1))
	require.Equal(t, 30.0, CorteCap(2))
	require.Equal(t, 40.0, CorteCap(3))
	require.Zero(t, CorteCap(4))
}
