// models/user.go
package models

import "time"

type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Email            string    `json:"email" gorm:"uniqueIndex;not null"`
	Password         string    `json:"-" gorm:"not null"`
	TeamID           *uint     `json:"teamId,omitempty" gorm:"index"`
	RegistrationCode string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// UserProfile is the shape returned by GET /api/user: the user's identity
// joined with its team name for display.
type UserProfile struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	TeamName string `json:"teamName"`
}
