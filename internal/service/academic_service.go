package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/internal/repository"
)

// AcademicService records attendance and grades against existing courses.
type AcademicService struct {
	courses    repository.CourseRepository
	attendance repository.AttendanceRepository
	grades     repository.GradeRepository
	logger     *zap.Logger
}

// AcademicDependencies encapsulates requirements for the academic service.
type AcademicDependencies struct {
	CourseRepo     repository.CourseRepository
	AttendanceRepo repository.AttendanceRepository
	GradeRepo      repository.GradeRepository
	Logger         *zap.Logger
}

// NewAcademicService builds the service.
func NewAcademicService(deps AcademicDependencies) *AcademicService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademicService{
		courses:    deps.CourseRepo,
		attendance: deps.AttendanceRepo,
		grades:     deps.GradeRepo,
		logger:     logger,
	}
}

// SubmitAttendance stores the marks for one class day. A resubmission for the
// same student and day overwrites the earlier status.
func (s *AcademicService) SubmitAttendance(ctx context.Context, teacher domain.Identity, courseID int64, date time.Time, marks []domain.AttendanceMark) error {
	if len(marks) == 0 {
		return fmt.Errorf("%w: at least one attendance record is required", domain.ErrInvalidInput)
	}
	seen := make(map[int64]struct{}, len(marks))
	for _, mark := range marks {
		if !mark.Status.Valid() {
			return fmt.Errorf("%w: unknown attendance status %q", domain.ErrInvalidInput, mark.Status)
		}
		if _, dup := seen[mark.StudentID]; dup {
			return fmt.Errorf("%w: student %d listed twice", domain.ErrInvalidInput, mark.StudentID)
		}
		seen[mark.StudentID] = struct{}{}
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.attendance.UpsertMany(ctx, courseID, day, marks); err != nil {
		return mapAcademicError(err)
	}
	s.logger.Info("attendance submitted",
		zap.Int64("course_id", courseID),
		zap.String("date", day.Format(time.DateOnly)),
		zap.Int("records", len(marks)),
		zap.String("teacher", teacher.Subject))
	return nil
}

// MyAttendance lists the caller's attendance for one course, newest first.
func (s *AcademicService) MyAttendance(ctx context.Context, student domain.Identity, courseID int64) ([]*domain.Attendance, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.attendance.ListForStudent(ctx, student.ID, courseID)
}

// SubmitGrade stores a score. A resubmission for the same assignment
// overwrites the earlier score.
func (s *AcademicService) SubmitGrade(ctx context.Context, teacher domain.Identity, courseID int64, grade *domain.Grade) (*domain.Grade, error) {
	grade.AssignmentName = strings.TrimSpace(grade.AssignmentName)
	if grade.AssignmentName == "" {
		return nil, fmt.Errorf("%w: assignment name is required", domain.ErrInvalidInput)
	}
	if grade.Score < 0 {
		return nil, fmt.Errorf("%w: score must not be negative", domain.ErrInvalidInput)
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	grade.CourseID = courseID
	if err := s.grades.Upsert(ctx, grade); err != nil {
		return nil, mapAcademicError(err)
	}
	s.logger.Info("grade submitted",
		zap.Int64("course_id", courseID),
		zap.Int64("student_id", grade.StudentID),
		zap.String("assignment", grade.AssignmentName),
		zap.String("teacher", teacher.Subject))
	return grade, nil
}

// MyGrades lists every grade of the caller.
func (s *AcademicService) MyGrades(ctx context.Context, student domain.Identity) ([]*domain.Grade, error) {
	return s.grades.ListForStudent(ctx, student.ID)
}

func (s *AcademicService) requireCourse(ctx context.Context, courseID int64) error {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrCourseNotFound
		}
		return err
	}
	return nil
}

func mapAcademicError(err error) error {
	if errors.Is(err, repository.ErrBrokenReference) {
		return domain.ErrStudentNotFound
	}
	return err
}
