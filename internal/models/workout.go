package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkoutCategory is a named workout grouping members can link to.
type WorkoutCategory struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a uuid primary key when none was set.
func (w *WorkoutCategory) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// UserWorkout links a member to a workout category they are interested in.
type UserWorkout struct {
	ID         string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   WorkoutCategory `gorm:"foreignKey:CategoryID" json:"workout_categories"`
	CreatedAt  time.Time       `json:"created_at"`
}

// BeforeCreate assigns a uuid primary key when none was set.
func (u *UserWorkout) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
