package database

import (
	"fmt"
	"log"

	"github.com/cindyyylam/mj-quizarium/internal/config"
	"github.com/cindyyylam/mj-quizarium/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Printf("database connected (%s)", cfg.DBDriver)
	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Question{},
		&models.ChatState{},
		&models.LeaderboardEntry{},
	)
}

func AutoMigrate(db *gorm.DB) {
	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
