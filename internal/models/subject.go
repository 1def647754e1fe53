package models

import "time"

// Subject is the container for evaluations and enrollments within one
// academic period.
type Subject struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	AcademicPeriod string    `gorm:"size:64;not null" json:"academic_period"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
