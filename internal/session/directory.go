package session

import (
	"context"
	"errors"

	"fitpulse/internal/models"

	"gorm.io/gorm"
)

// GormDirectory is a Directory backed by the application database.
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a directory over the given database handle.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// CredentialByEmail implements Directory.
func (d *GormDirectory) CredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	err := d.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// CreateAccount implements Directory. The credential and profile are
// written in one transaction so a half-created account cannot exist.
func (d *GormDirectory) CreateAccount(ctx context.Context, cred *models.Credential, profile *models.Profile) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cred).Error; err != nil {
			return err
		}
		return tx.Create(profile).Error
	})
}
