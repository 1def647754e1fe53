package models

import "time"

// Evaluation is a gradable item (quiz, exam, assignment) within one of a
// subject's three cortes. Percentage is its share of the subject total;
// the grading validator keeps corte and subject budgets consistent.
type Evaluation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SubjectID  uint      `gorm:"not null;index" json:"subject_id"`
	Subject    Subject   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Corte      int       `gorm:"not null" json:"corte"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Percentage float64   `gorm:"not null" json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
