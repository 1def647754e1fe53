package models

import "time"

// Student represents a learner that can be enrolled in subjects. NationalID
// is the institution-facing identifier; the numeric ID is internal.
type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	NationalID string    `gorm:"size:32;uniqueIndex;not null" json:"national_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
