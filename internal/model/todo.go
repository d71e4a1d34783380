package model

import (
	"errors"
	"strings"
)

// Priority is the urgency of a todo.
type Priority string

const (
	// PriorityLow is the default priority.
	PriorityLow Priority = "Low"
	// PriorityMedium sits between Low and High.
	PriorityMedium Priority = "Medium"
	// PriorityHigh sorts first in todo listings.
	PriorityHigh Priority = "High"
)

// ErrInvalidPriority is returned when a priority is not Low, Medium or High.
var ErrInvalidPriority = errors.New("priority must be Low, Medium or High")

// Priorities lists the accepted values from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority matches input case-insensitively. Empty input yields PriorityLow.
func ParsePriority(value string) (Priority, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return PriorityLow, nil
	}
	for _, p := range Priorities {
		if strings.EqualFold(trimmed, string(p)) {
			return p, nil
		}
	}
	return "", ErrInvalidPriority
}

// Todo is a task on the to-do list.
type Todo struct {
	ID       uint     `gorm:"primaryKey"`
	Task     string   `gorm:"type:text;not null"`
	IsDone   bool     `gorm:"not null;default:false"`
	DueDate  string   `gorm:"type:text"`
	Priority Priority `gorm:"type:text;not null;default:Low"`
}
