// handlers/reports.go - Scouting report CRUD endpoints
package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jleboube/scout/middleware"
	"github.com/jleboube/scout/services"
)

// ReportRequest accepts report fields from either a JSON body or the text
// fields of a multipart form (the latter when a spray chart is attached).
type ReportRequest struct {
	PlayerName     string  `json:"playerName" form:"playerName"`
	PlayerAge      *int    `json:"playerAge" form:"playerAge"`
	PlayerPosition *string `json:"playerPosition" form:"playerPosition"`
	DateScouted    *string `json:"dateScouted" form:"dateScouted"`
	Location       *string `json:"location" form:"location"`
	OverallGrade   *string `json:"overallGrade" form:"overallGrade"`

	HittingContact  *string `json:"hittingContact" form:"hittingContact"`
	HittingPower    *string `json:"hittingPower" form:"hittingPower"`
	HittingSpeed    *string `json:"hittingSpeed" form:"hittingSpeed"`
	FieldingAbility *string `json:"fieldingAbility" form:"fieldingAbility"`
	ArmStrength     *string `json:"armStrength" form:"armStrength"`
	RunningSpeed    *string `json:"runningSpeed" form:"runningSpeed"`

	BaseballIQ *string `json:"baseballIq" form:"baseballIq"`
	Leadership *string `json:"leadership" form:"leadership"`
	Attitude   *string `json:"attitude" form:"attitude"`

	PhysicalDescription *string `json:"physicalDescription" form:"physicalDescription"`
	AdditionalNotes     *string `json:"additionalNotes" form:"additionalNotes"`
}

func (r *ReportRequest) toFields() services.ReportFields {
	return services.ReportFields{
		PlayerName:          r.PlayerName,
		PlayerAge:           r.PlayerAge,
		PlayerPosition:      r.PlayerPosition,
		DateScouted:         r.DateScouted,
		Location:            r.Location,
		OverallGrade:        r.OverallGrade,
		HittingContact:      r.HittingContact,
		HittingPower:        r.HittingPower,
		HittingSpeed:        r.HittingSpeed,
		FieldingAbility:     r.FieldingAbility,
		ArmStrength:         r.ArmStrength,
		RunningSpeed:        r.RunningSpeed,
		BaseballIQ:          r.BaseballIQ,
		Leadership:          r.Leadership,
		Attitude:            r.Attitude,
		PhysicalDescription: r.PhysicalDescription,
		AdditionalNotes:     r.AdditionalNotes,
	}
}

type ReportHandler struct {
	reports *services.ReportService
	uploads *services.UploadStore
}

func NewReportHandler(reports *services.ReportService, uploads *services.UploadStore) *ReportHandler {
	return &ReportHandler{reports: reports, uploads: uploads}
}

// CreateReport creates a new scouting report, with an optional spray chart
// image in the multipart field "sprayChart"
// POST /api/reports
func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	var req ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.PlayerName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Player name is required"})
	}

	// The upload is validated and stored before any report row exists, so a
	// rejected file never leaves a record behind.
	image, err := h.saveSprayChart(c)
	if err != nil {
		return uploadError(c, err)
	}

	report, err := h.reports.Create(userID, req.toFields(), image)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}

	return c.JSON(fiber.Map{
		"message":  "Report created successfully",
		"reportId": report.ID,
	})
}

// GetReports lists the caller's reports, newest first
// GET /api/reports
func (h *ReportHandler) GetReports(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	reports, err := h.reports.List(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}

	return c.JSON(reports)
}

// GetReport fetches one owned report
// GET /api/reports/:id
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	reportID, ok := parseReportID(c)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Report not found"})
	}

	report, err := h.reports.Get(userID, reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Report not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}

	return c.JSON(report)
}

// UpdateReport replaces every field of an owned report; a new spray chart in
// the multipart field "sprayChart" replaces the old reference, otherwise the
// prior image is kept
// PUT /api/reports/:id
func (h *ReportHandler) UpdateReport(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	reportID, ok := parseReportID(c)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Report not found"})
	}

	var req ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	image, err := h.saveSprayChart(c)
	if err != nil {
		return uploadError(c, err)
	}

	if err := h.reports.Update(userID, reportID, req.toFields(), image); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Report not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}

	return c.JSON(fiber.Map{"message": "Report updated successfully"})
}

// DeleteReport removes an owned report
// DELETE /api/reports/:id
func (h *ReportHandler) DeleteReport(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	reportID, ok := parseReportID(c)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Report not found"})
	}

	if err := h.reports.Delete(userID, reportID); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Report not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Server error"})
	}

	return c.JSON(fiber.Map{"message": "Report deleted successfully"})
}

// saveSprayChart stores the optional uploaded image, returning nil when the
// request carries no file.
func (h *ReportHandler) saveSprayChart(c *fiber.Ctx) (*string, error) {
	fh, err := c.FormFile("sprayChart")
	if err != nil {
		return nil, nil
	}

	name, err := h.uploads.SaveSprayChart(fh)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func uploadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNotAnImage) || errors.Is(err, services.ErrFileTooLarge) {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(500).JSON(fiber.Map{"error": "Server error"})
}

// A non-numeric id can never match a report, so it reads as not found
// rather than a distinct bad-request shape.
func parseReportID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
