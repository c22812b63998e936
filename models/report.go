// models/report.go
package models

import "time"

// ScoutingReport is owned exclusively by the user whose ID matches UserID.
// Every grade field is free-form text; the app stores what the scout typed.
type ScoutingReport struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userId" gorm:"not null;index"`

	PlayerName     string  `json:"playerName" gorm:"not null"`
	PlayerAge      *int    `json:"playerAge,omitempty"`
	PlayerPosition *string `json:"playerPosition,omitempty"`
	DateScouted    *string `json:"dateScouted,omitempty"`
	Location       *string `json:"location,omitempty"`
	OverallGrade   *string `json:"overallGrade,omitempty"`

	HittingContact  *string `json:"hittingContact,omitempty"`
	HittingPower    *string `json:"hittingPower,omitempty"`
	HittingSpeed    *string `json:"hittingSpeed,omitempty"`
	FieldingAbility *string `json:"fieldingAbility,omitempty"`
	ArmStrength     *string `json:"armStrength,omitempty"`
	RunningSpeed    *string `json:"runningSpeed,omitempty"`

	BaseballIQ *string `json:"baseballIq,omitempty" gorm:"column:baseball_iq"`
	Leadership *string `json:"leadership,omitempty"`
	Attitude   *string `json:"attitude,omitempty"`

	PhysicalDescription *string `json:"physicalDescription,omitempty"`
	AdditionalNotes     *string `json:"additionalNotes,omitempty"`

	SprayChartImage *string `json:"sprayChartImage,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ScoutingReport) TableName() string {
	return "scouting_reports"
}
