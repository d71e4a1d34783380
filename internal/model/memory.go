package model

import "fmt"

// Memory is a logged personal event. Rows are never updated once inserted.
type Memory struct {
	ID      uint   `gorm:"primaryKey"`
	Person  string `gorm:"type:text"`
	Date    string `gorm:"type:text;index"`
	Event   string `gorm:"type:text"`
	Details string `gorm:"type:text"`
	Tags    string `gorm:"type:text"`
}

// Line renders the memory as "<date> - <event>: <details>".
func (m Memory) Line() string {
	return fmt.Sprintf("%s - %s: %s", m.Date, m.Event, m.Details)
}
