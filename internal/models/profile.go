// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile represents a member's public profile. Exactly one profile exists
// per credential; it is created during signup.
type Profile struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	AvatarURL    *string   `json:"avatar_url"`
	Bio          *string   `json:"bio"`
	FitnessLevel *string   `json:"fitness_level"`
	Goals        []string  `gorm:"serializer:json" json:"goals"`
	PhoneNumber  *string   `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was set.
func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Credential stores the private authentication record backing a profile.
// The password column holds a bcrypt hash, never plaintext.
type Credential struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was set.
func (c *Credential) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
