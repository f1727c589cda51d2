package dto

import "github.com/campusworks/college-portal/internal/domain"

// CourseRequest payload for create and update.
type CourseRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Code        string  `json:"code" validate:"required,max=20"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// CourseResponse representation.
type CourseResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description"`
}

// NewCourseResponse maps a domain course.
func NewCourseResponse(course *domain.Course) CourseResponse {
	return CourseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Code:        course.Code,
		Description: course.Description,
	}
}
