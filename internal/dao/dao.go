// Package dao implements the domain repositories on gorm.
package dao

import (
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hometracker/home-backup-service/internal/model"
	"github.com/hometracker/home-backup-service/pkg/fileurl"
)

// Database holds the sqlite connection settings.
type Database struct {
	Path string `yaml:"path" default:"storage/database/hometracker.db"`
}

type Dao struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Dao {
	return &Dao{db: db}
}

func (d *Dao) DB() *gorm.DB {
	return d.db
}

// NewDBEngine opens the sqlite database and migrates the service tables.
func NewDBEngine(c Database) (*gorm.DB, error) {
	if err := fileurl.CreatePath(c.Path, 0755); err != nil {
		return nil, err
	}

	dsn := filepath.Clean(c.Path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := model.AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}
