package grading

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// TotalBudget is the percentage budget for a whole subject.
const TotalBudget = 100.0

// corteCaps fixes each corte's share of the subject budget: 30/30/40.
var corteCaps = map[int]float64{
	1: 30,
	2: 30,
	3: 40,
}

// Validator failure sentinels. All failures are recoverable and surfaced to
// the instructor; a rejected proposal must never be committed.
var (
	ErrMissingField        = errors.New("evaluation name and percentage are required")
	ErrInvalidPercentage   = errors.New("percentage must be greater than zero")
	ErrInvalidCorte        = errors.New("corte must be between 1 and 3")
	ErrCorteBudgetExceeded = errors.New("corte percentage budget exceeded")
	ErrTotalBudgetExceeded = errors.New("subject percentage budget exceeded")
)

// BudgetError wraps a budget sentinel with the remaining allowance so the
// caller can tell the instructor how much percentage is still available.
type BudgetError struct {
	Err       error
	Corte     int
	Remaining float64
}

func (e *BudgetError) Error() string {
	if errors.Is(e.Err, ErrCorteBudgetExceeded) {
		return fmt.Sprintf("corte %d has %.2f%% available", e.Corte, e.Remaining)
	}
	return fmt.Sprintf("subject has %.2f%% available", e.Remaining)
}

func (e *BudgetError) Unwrap() error {
	return e.Err
}

// CorteCap returns the percentage cap for the given corte, or 0 for an
// out-of-range corte.
func CorteCap(corte int) float64 {
	return corteCaps[corte]
}

// ProposedEvaluation is an evaluation submitted for creation or edit.
type ProposedEvaluation struct {
	Name       string
	Corte      int
	Percentage float64
}

// ValidateEvaluation decides whether the proposal may be committed given the
// subject's existing evaluations. editingID identifies the evaluation being
// edited, so its own prior percentage is excluded from the budgets; pass 0
// when creating. The epsilon keeps float noise from rejecting an exact fit.
func ValidateEvaluation(proposed ProposedEvaluation, existing []Evaluation, editingID uint) error {
	const epsilon = 1e-9

	if strings.TrimSpace(proposed.Name) == "" || math.IsNaN(proposed.Percentage) || math.IsInf(proposed.Percentage, 0) {
		return ErrMissingField
	}
	if proposed.Percentage <= 0 {
		return ErrInvalidPercentage
	}
	if proposed.Corte < MinCorte || proposed.Corte > MaxCorte {
		return ErrInvalidCorte
	}

	// The budget checks exclude the evaluation being edited so its own prior
	// percentage is not double-counted. The reported remaining allowance is
	// computed against the committed state, which is what the instructor
	// sees in the evaluation list.
	corteUsed := 0.0
	totalUsed := 0.0
	corteCommitted := 0.0
	totalCommitted := 0.0
	for _, evaluation := range existing {
		if evaluation.Corte == proposed.Corte {
			corteCommitted += evaluation.Percentage
		}
		totalCommitted += evaluation.Percentage
		if editingID != 0 && evaluation.ID == editingID {
			continue
		}
		totalUsed += evaluation.Percentage
		if evaluation.Corte == proposed.Corte {
			corteUsed += evaluation.Percentage
		}
	}

	corteCap := corteCaps[proposed.Corte]
	if corteUsed+proposed.Percentage > corteCap+epsilon {
		return &BudgetError{
			Err:       ErrCorteBudgetExceeded,
			Corte:     proposed.Corte,
			Remaining: Round2(corteCap - corteCommitted),
		}
	}

	if totalUsed+proposed.Percentage > TotalBudget+epsilon {
		return &BudgetError{
			Err:       ErrTotalBudgetExceeded,
			Remaining: Round2(TotalBudget - totalCommitted),
		}
	}

	return nil
}
