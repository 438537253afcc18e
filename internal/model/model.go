// Package model defines the persisted data models.
package model

import (
	"gorm.io/gorm"
)

// AutoMigrate migrates every table this service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Provider{},
		&BackupSchedule{},
		&AIJob{},
		&AIJobItem{},
		&Setting{},
	)
}
