package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/pathakanu/memoryjournal/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New creates a GORM database connection.
// When databaseURL is provided PostgreSQL is used, otherwise SQLite at sqlitePath.
func New(databaseURL, sqlitePath string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), gormConfig)
	} else {
		db, err = gorm.Open(sqlite.Open(sqlitePath), gormConfig)
	}
	if err != nil {
		return nil, err
	}

	logBackend(db, sqlitePath)
	return db, nil
}

// Migrate creates the memories, todos and ideas tables when missing and adds
// the priority column to a todos table created before priorities existed.
// It is safe to run on every start.
func Migrate(db *gorm.DB) error {
	migrator := db.Migrator()
	legacyTodos := migrator.HasTable(&model.Todo{}) && !migrator.HasColumn(&model.Todo{}, "Priority")

	if err := db.AutoMigrate(&model.Memory{}, &model.Todo{}, &model.Idea{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if legacyTodos {
		log.Printf("database: added priority column to todos")
	}
	return nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logBackend(db *gorm.DB, sqlitePath string) {
	dialector := db.Dialector.Name()
	switch strings.ToLower(dialector) {
	case "postgres":
		log.Printf("database: connected to PostgreSQL")
	case "sqlite":
		log.Printf("database: using SQLite %s", sqlitePath)
	default:
		log.Printf("database: connected via %s", dialector)
	}
}
