// models/team.go
package models

// Team is seeded at startup and immutable afterwards; no API mutates teams.
type Team struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:100"`
}

func (Team) TableName() string {
	return "teams"
}
