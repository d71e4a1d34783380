package model

// Idea is a free-form note.
type Idea struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"type:text;not null"`
	Description string `gorm:"type:text"`
	Tags        string `gorm:"type:text"`
}
