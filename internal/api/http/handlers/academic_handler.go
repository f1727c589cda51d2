package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/college-portal/internal/api/dto"
	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/internal/service"
)

// AcademicHandler serves attendance and grade endpoints.
type AcademicHandler struct {
	academic *service.AcademicService
	validate *Validator
}

// NewAcademicHandler constructs handler.
func NewAcademicHandler(academic *service.AcademicService, validate *Validator) *AcademicHandler {
	return &AcademicHandler{academic: academic, validate: validate}
}

// SubmitAttendance POST /attendance/courses/:course_id/date/:date.
func (h *AcademicHandler) SubmitAttendance(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	courseID, err := idParam(c, "course_id")
	if err != nil {
		return err
	}
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}
	var req dto.AttendanceSheetRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	marks := make([]domain.AttendanceMark, 0, len(req.Records))
	for _, rec := range req.Records {
		marks = append(marks, domain.AttendanceMark{
			StudentID: rec.StudentID,
			Status:    domain.AttendanceStatus(rec.Status),
		})
	}
	if err := h.academic.SubmitAttendance(c.UserContext(), identity, courseID, date, marks); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":   "Attendance recorded",
		"course_id": courseID,
		"date":      date.Format("2006-01-02"),
		"records":   len(marks),
	})
}

// MyAttendance GET /attendance/my-attendance/courses/:course_id.
func (h *AcademicHandler) MyAttendance(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	courseID, err := idParam(c, "course_id")
	if err != nil {
		return err
	}
	records, err := h.academic.MyAttendance(c.UserContext(), identity, courseID)
	if err != nil {
		return err
	}
	items := make([]dto.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.NewAttendanceResponse(rec))
	}
	return c.JSON(items)
}

// SubmitGrade POST /grades/courses/:course_id.
func (h *AcademicHandler) SubmitGrade(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	courseID, err := idParam(c, "course_id")
	if err != nil {
		return err
	}
	var req dto.GradeRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	grade, err := h.academic.SubmitGrade(c.UserContext(), identity, courseID, &domain.Grade{
		StudentID:      req.StudentID,
		AssignmentName: req.AssignmentName,
		Score:          *req.Score,
		Comments:       req.Comments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewGradeResponse(grade))
}

// MyGrades GET /grades/my-grades.
func (h *AcademicHandler) MyGrades(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	grades, err := h.academic.MyGrades(c.UserContext(), identity)
	if err != nil {
		return err
	}
	items := make([]dto.GradeResponse, 0, len(grades))
	for _, grade := range grades {
		items = append(items, dto.NewGradeResponse(grade))
	}
	return c.JSON(items)
}
