package config

import (
	"errors"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hirehub/server/internal/models"
)

var PostgresDB *gorm.DB

func InitPostgres() error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}

	// TranslateError surfaces unique-index violations as
	// gorm.ErrDuplicatedKey, which the account service maps to the
	// already-registered / company-exists responses. FK constraints are
	// skipped during migration because users and companies reference each
	// other.
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Connection Pooling settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Job{},
		&models.Resume{},
	); err != nil {
		return err
	}

	PostgresDB = db
	return nil
}
