// Package grading implements the grade-aggregation engine: pure computations
// over snapshots of evaluations and scores. The engine never mutates its
// inputs and never performs I/O; callers re-invoke it with a refreshed
// snapshot after every mutation so displayed numbers are never stale.
package grading

// Corte bounds. A subject's term is split into three grading periods.
const (
	MinCorte = 1
	MaxCorte = 3
)

// Evaluation carries the weight information the engine needs about a
// gradable item. Percentage is the item's share of the subject total.
type Evaluation struct {
	ID         uint
	Corte      int
	Percentage float64
}

// Score is a recorded result for one (student, evaluation) pair. Graded
// distinguishes an explicit zero from "not graded yet"; an ungraded score
// contributes 0 to weighted sums but must never render as a 0.
type Score struct {
	Value  float64
	Graded bool
}

// ScoreBook indexes scores by student and evaluation identifier. Missing
// entries are treated as ungraded.
type ScoreBook map[uint]map[uint]Score

// Lookup returns the score for the given pair, or an ungraded zero value.
func (b ScoreBook) Lookup(studentID, evaluationID uint) Score {
	if scores, ok := b[studentID]; ok {
		if score, ok := scores[evaluationID]; ok {
			return score
		}
	}
	return Score{}
}

// WeightedCorteSum returns the corte's contribution to the student's final
// grade: the sum of score × (percentage/100) across the corte's evaluations.
// Ungraded scores contribute 0.
func WeightedCorteSum(studentID uint, corte int, evaluations []Evaluation, scores ScoreBook) float64 {
	sum := 0.0
	for _, evaluation := range evaluations {
		if evaluation.Corte != corte {
			continue
		}
		score := scores.Lookup(studentID, evaluation.ID)
		if !score.Graded {
			continue
		}
		sum += score.Value * (evaluation.Percentage / 100)
	}
	return sum
}

// CortePercentage returns the sum of evaluation percentages in the corte.
func CortePercentage(corte int, evaluations []Evaluation) float64 {
	total := 0.0
	for _, evaluation := range evaluations {
		if evaluation.Corte == corte {
			total += evaluation.Percentage
		}
	}
	return total
}

// TotalPercentage returns the sum of all evaluation percentages in the
// subject.
func TotalPercentage(evaluations []Evaluation) float64 {
	total := 0.0
	for _, evaluation := range evaluations {
		total += evaluation.Percentage
	}
	return total
}

// NormalizedCorteGrade rescales the corte's weighted sum onto the 0-20
// display scale, independent of whether the corte's evaluations already sum
// to their full quota. A corte with no evaluations yields 0.
func NormalizedCorteGrade(studentID uint, corte int, evaluations []Evaluation, scores ScoreBook) float64 {
	total := CortePercentage(corte, evaluations)
	if total <= 0 {
		return 0
	}
	return WeightedCorteSum(studentID, corte, evaluations, scores) / (total / 100)
}

// FinalGrade returns the student's final grade: the sum of weighted corte
// sums across all three cortes. Percentages are defined relative to the
// whole subject, so the result is already on the 0-20 scale.
func FinalGrade(studentID uint, evaluations []Evaluation, scores ScoreBook) float64 {
	sum := 0.0
	for corte := MinCorte; corte <= MaxCorte; corte++ {
		sum += WeightedCorteSum(studentID, corte, evaluations, scores)
	}
	return sum
}
