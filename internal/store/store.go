// Package store runs the journal's queries against the memories, todos and
// ideas tables. Every method issues one parameterized statement.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps a gorm handle.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by db. The schema must already be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping checks that the underlying connection pool answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// affected maps a statement that touched no rows to ErrNotFound.
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
