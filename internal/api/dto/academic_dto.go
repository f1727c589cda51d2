package dto

import (
	"time"

	"github.com/campusworks/college-portal/internal/domain"
)

// AttendanceRecordRequest is one line of an attendance sheet.
type AttendanceRecordRequest struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
}

// AttendanceSheetRequest payload.
type AttendanceSheetRequest struct {
	Records []AttendanceRecordRequest `json:"records" validate:"required,min=1,dive"`
}

// AttendanceResponse representation.
type AttendanceResponse struct {
	ID        int64                   `json:"id"`
	CourseID  int64                   `json:"course_id"`
	StudentID int64                   `json:"student_id"`
	Date      string                  `json:"date"`
	Status    domain.AttendanceStatus `json:"status"`
}

// NewAttendanceResponse maps a domain record.
func NewAttendanceResponse(rec *domain.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:        rec.ID,
		CourseID:  rec.CourseID,
		StudentID: rec.StudentID,
		Date:      rec.Date.Format(time.DateOnly),
		Status:    rec.Status,
	}
}

// GradeRequest payload.
type GradeRequest struct {
	StudentID      int64    `json:"student_id" validate:"required,gt=0"`
	AssignmentName string   `json:"assignment_name" validate:"required,max=200"`
	Score          *float64 `json:"score" validate:"required,gte=0"`
	Comments       *string  `json:"comments" validate:"omitempty,max=2000"`
}

// GradeResponse representation.
type GradeResponse struct {
	ID             int64   `json:"id"`
	CourseID       int64   `json:"course_id"`
	StudentID      int64   `json:"student_id"`
	AssignmentName string  `json:"assignment_name"`
	Score          float64 `json:"score"`
	Comments       *string `json:"comments"`
}

// NewGradeResponse maps a domain grade.
func NewGradeResponse(grade *domain.Grade) GradeResponse {
	return GradeResponse{
		ID:             grade.ID,
		CourseID:       grade.CourseID,
		StudentID:      grade.StudentID,
		AssignmentName: grade.AssignmentName,
		Score:          grade.Score,
		Comments:       grade.Comments,
	}
}
