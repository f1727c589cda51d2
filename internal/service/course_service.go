package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/internal/repository"
)

// CourseInput carries the writable course fields.
type CourseInput struct {
	Name        string
	Code        string
	Description *string
}

// CourseService manages the course catalogue.
type CourseService struct {
	courses repository.CourseRepository
	logger  *zap.Logger
}

// NewCourseService builds the service.
func NewCourseService(courses repository.CourseRepository, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, logger: logger}
}

// Create adds a course. Codes are unique and stored upper-cased.
func (s *CourseService) Create(ctx context.Context, actor domain.Identity, input CourseInput) (*domain.Course, error) {
	course := &domain.Course{
		Name:        strings.TrimSpace(input.Name),
		Code:        normalizeCode(input.Code),
		Description: input.Description,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, mapCourseError(err)
	}
	s.logger.Info("course created",
		zap.Int64("course_id", course.ID),
		zap.String("code", course.Code),
		zap.String("actor", actor.Subject))
	return course, nil
}

// List returns every course ordered by code.
func (s *CourseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.courses.List(ctx)
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id int64) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, mapCourseError(err)
	}
	return course, nil
}

// Update replaces the writable fields of course id.
func (s *CourseService) Update(ctx context.Context, actor domain.Identity, id int64, input CourseInput) (*domain.Course, error) {
	course := &domain.Course{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Code:        normalizeCode(input.Code),
		Description: input.Description,
	}
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, mapCourseError(err)
	}
	s.logger.Info("course updated", zap.Int64("course_id", id), zap.String("actor", actor.Subject))
	return course, nil
}

// Delete removes course id together with its attendance and grades.
func (s *CourseService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return mapCourseError(err)
	}
	s.logger.Info("course deleted", zap.Int64("course_id", id), zap.String("actor", actor.Subject))
	return nil
}

func mapCourseError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return domain.ErrCourseNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return domain.ErrCourseCodeUsed
	default:
		return err
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
