package domain

import (
	"fmt"
	"time"
)

// AttendanceStatus records a student's presence for one class day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// ParseAttendanceStatus validates raw input.
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	status := AttendanceStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown attendance status %q", ErrInvalidInput, raw)
	}
	return status, nil
}

// Attendance is one (course, student, date) record.
type Attendance struct {
	ID        int64
	CourseID  int64
	StudentID int64
	Date      time.Time
	Status    AttendanceStatus
}

// AttendanceMark is a single entry of a teacher's submission.
type AttendanceMark struct {
	StudentID int64
	Status    AttendanceStatus
}
