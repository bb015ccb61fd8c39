package sqlite

import (
	"time"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Init(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entity.Office{},
		&entity.User{},
		&entity.Case{},
		&entity.Appointment{},
		&entity.Message{},
		&entity.Payment{},
		&entity.Backup{},
	)
	if err != nil {
		return nil, err
	}

	// A single connection serialises writers, which is all SQLite can
	// take anyway.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
