package models

import "time"

// Enrollment associates a student with a subject. Its existence implies the
// student has a grade row for every evaluation in that subject.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"student_id"`
	Student   Student   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SubjectID uint      `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"subject_id"`
	Subject   Subject   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
