// services/report_service.go - Owner-scoped scouting report CRUD
package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jleboube/scout/models"
)

// ErrReportNotFound covers both an absent report and one owned by another
// user; the two cases are deliberately indistinguishable.
var ErrReportNotFound = errors.New("report not found")

// ReportFields carries every client-settable report field. Update replaces
// all of them; an omitted optional field becomes null.
type ReportFields struct {
	PlayerName     string
	PlayerAge      *int
	PlayerPosition *string
	DateScouted    *string
	Location       *string
	OverallGrade   *string

	HittingContact  *string
	HittingPower    *string
	HittingSpeed    *string
	FieldingAbility *string
	ArmStrength     *string
	RunningSpeed    *string

	BaseballIQ *string
	Leadership *string
	Attitude   *string

	PhysicalDescription *string
	AdditionalNotes     *string
}

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Create inserts a new report owned by ownerID. image is the stored
// attachment filename, or nil when no image was uploaded.
func (s *ReportService) Create(ownerID uint, fields ReportFields, image *string) (*models.ScoutingReport, error) {
	now := time.Now().UTC()

	report := models.ScoutingReport{
		UserID:              ownerID,
		PlayerName:          fields.PlayerName,
		PlayerAge:           fields.PlayerAge,
		PlayerPosition:      fields.PlayerPosition,
		DateScouted:         fields.DateScouted,
		Location:            fields.Location,
		OverallGrade:        fields.OverallGrade,
		HittingContact:      fields.HittingContact,
		HittingPower:        fields.HittingPower,
		HittingSpeed:        fields.HittingSpeed,
		FieldingAbility:     fields.FieldingAbility,
		ArmStrength:         fields.ArmStrength,
		RunningSpeed:        fields.RunningSpeed,
		BaseballIQ:          fields.BaseballIQ,
		Leadership:          fields.Leadership,
		Attitude:            fields.Attitude,
		PhysicalDescription: fields.PhysicalDescription,
		AdditionalNotes:     fields.AdditionalNotes,
		SprayChartImage:     image,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, err
	}

	return &report, nil
}

// List returns the owner's reports, newest first.
func (s *ReportService) List(ownerID uint) ([]models.ScoutingReport, error) {
	reports := make([]models.ScoutingReport, 0)
	err := s.db.Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

// Get fetches one report. Ownership is folded into the lookup so a report
// owned by someone else reads as not found.
func (s *ReportService) Get(ownerID, reportID uint) (*models.ScoutingReport, error) {
	var report models.ScoutingReport
	err := s.db.Where("id = ? AND user_id = ?", reportID, ownerID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// Update replaces every field of an owned report. When image is nil the
// existing spray chart reference is kept unchanged.
func (s *ReportService) Update(ownerID, reportID uint, fields ReportFields, image *string) error {
	updates := map[string]interface{}{
		"player_name":          fields.PlayerName,
		"player_age":           fields.PlayerAge,
		"player_position":      fields.PlayerPosition,
		"date_scouted":         fields.DateScouted,
		"location":             fields.Location,
		"overall_grade":        fields.OverallGrade,
		"hitting_contact":      fields.HittingContact,
		"hitting_power":        fields.HittingPower,
		"hitting_speed":        fields.HittingSpeed,
		"fielding_ability":     fields.FieldingAbility,
		"arm_strength":         fields.ArmStrength,
		"running_speed":        fields.RunningSpeed,
		"baseball_iq":          fields.BaseballIQ,
		"leadership":           fields.Leadership,
		"attitude":             fields.Attitude,
		"physical_description": fields.PhysicalDescription,
		"additional_notes":     fields.AdditionalNotes,
		"updated_at":           time.Now().UTC(),
	}

	if image != nil {
		updates["spray_chart_image"] = *image
	}

	result := s.db.Model(&models.ScoutingReport{}).
		Where("id = ? AND user_id = ?", reportID, ownerID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// Delete removes an owned report. The attached image file, if any, is left
// on disk; orphaned uploads are a documented gap.
func (s *ReportService) Delete(ownerID, reportID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", reportID, ownerID).
		Delete(&models.ScoutingReport{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}
