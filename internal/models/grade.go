package models

import "time"

// Grade is the score of one student on one evaluation. A NULL Score means
// the evaluation has not been graded yet, which is distinct from an
// explicit zero. Rows exist exactly for enrolled (student, evaluation)
// pairs; the repositories materialize and cascade them.
type Grade struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_grade_pair" json:"student_id"`
	Student      Student    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	EvaluationID uint       `gorm:"not null;uniqueIndex:idx_grade_pair" json:"evaluation_id"`
	Evaluation   Evaluation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Score        *float64   `json:"score"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
