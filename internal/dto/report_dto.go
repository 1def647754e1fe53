package dto

import "github.com/acadex/gradebook-api/internal/grading"

// CorteResult is one corte's rollup for one student. WeightedSum is the
// corte's contribution to the final grade; NormalizedGrade rescales it onto
// the 0-20 display scale against the corte's currently loaded percentage.
type CorteResult struct {
	Corte           int         `json:"corte"`
	WeightedSum     float64     `json:"weighted_sum"`
	NormalizedGrade float64     `json:"normalized_grade"`
	GradedCount     int         `json:"graded_count"`
	EvaluationCount int         `json:"evaluation_count"`
	Cells           []GradeCell `json:"cells"`
}

// GradeCell is one (student, evaluation) cell in the report table. Score is
// null while the evaluation has not been graded.
type GradeCell struct {
	EvaluationID uint     `json:"evaluation_id"`
	Score        *float64 `json:"score"`
	Graded       bool     `json:"graded"`
}

// ReportRow is one student's full rollup across the three cortes.
type ReportRow struct {
	StudentID  uint          `json:"student_id"`
	NationalID string        `json:"national_id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Cortes     []CorteResult `json:"cortes"`
	FinalGrade float64       `json:"final_grade"`
}

// CorteSummary describes one corte's percentage load for the whole subject.
// Cortes with no evaluations are omitted from report payloads.
type CorteSummary struct {
	Corte      int     `json:"corte"`
	Percentage float64 `json:"percentage"`
	Cap        float64 `json:"cap"`
}

// SubjectReportResponse is the aggregated gradebook for one subject. The
// table view, CSV export and email composer are all rendered from this
// payload so their numbers can never disagree.
type SubjectReportResponse struct {
	Subject         SubjectResponse      `json:"subject"`
	Evaluations     []EvaluationResponse `json:"evaluations"`
	CorteSummaries  []CorteSummary       `json:"corte_summaries"`
	TotalPercentage float64              `json:"total_percentage"`
	Rows            []ReportRow          `json:"rows"`
	CacheHit        bool                 `json:"cache_hit"`
}

// ScoredEntryResponse is a labeled score inside the statistics payload.
type ScoredEntryResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SubjectStatsResponse carries descriptive statistics over final grades.
type SubjectStatsResponse struct {
	SubjectID    uint                  `json:"subject_id"`
	Count        int                   `json:"count"`
	Average      float64               `json:"average"`
	Highest      float64               `json:"highest"`
	Lowest       float64               `json:"lowest"`
	Passed       int                   `json:"passed"`
	Failed       int                   `json:"failed"`
	PassRate     float64               `json:"pass_rate"`
	Distribution []int                 `json:"distribution"`
	PassedList   []ScoredEntryResponse `json:"passed_list"`
	FailedList   []ScoredEntryResponse `json:"failed_list"`
}

// NewSubjectStatsResponse converts engine statistics into a DTO.
func NewSubjectStatsResponse(subjectID uint, stats grading.Stats) SubjectStatsResponse {
	return SubjectStatsResponse{
		SubjectID:    subjectID,
		Count:        stats.Count,
		Average:      stats.Average,
		Highest:      stats.Highest,
		Lowest:       stats.Lowest,
		Passed:       stats.Passed,
		Failed:       stats.Failed,
		PassRate:     stats.PassRate,
		Distribution: stats.Distribution[:],
		PassedList:   newScoredEntrySlice(stats.PassedList),
		FailedList:   newScoredEntrySlice(stats.FailedList),
	}
}

func newScoredEntrySlice(entries []grading.ScoredEntry) []ScoredEntryResponse {
	responses := make([]ScoredEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ScoredEntryResponse{Label: entry.Label, Score: entry.Score})
	}
	return responses
}
