package domain

import "errors"

// Account errors surfaced by the account service.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// Resource errors for the academic records.
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseCodeUsed  = errors.New("course code already in use")
	ErrStudentNotFound = errors.New("student not found")
	ErrUnknownRole     = errors.New("unknown role")
	ErrInvalidInput    = errors.New("invalid input")
)
