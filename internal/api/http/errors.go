package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/college-portal/internal/auth"
	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/pkg/util/errorutil"
)

var (
	errEmailTaken         = errorutil.NewConflict("EMAIL_TAKEN", "Email already registered")
	errInvalidCredentials = errorutil.NewDomainError("INVALID_CREDENTIALS", "Incorrect email or password", http.StatusUnauthorized, nil)
	errUnauthenticated    = errorutil.NewUnauthorized("Could not validate credentials")
	errForbidden          = errorutil.NewForbidden("You do not have permission to access this resource.")
	errCourseCodeUsed     = errorutil.NewConflict("CONFLICT", "Course code already in use")
	errRequestTimeout     = errorutil.NewDomainError("TIMEOUT", "request timed out", http.StatusGatewayTimeout, nil)
)

// translateError maps service and auth sentinels onto HTTP errors. Token
// failure causes stay attached for logging but are never rendered.
func translateError(err error) *errorutil.DomainError {
	var domainErr *errorutil.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return errUnauthenticated.Wrap(err)
	case errors.Is(err, auth.ErrForbidden):
		return errForbidden.Wrap(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errInvalidCredentials
	case errors.Is(err, domain.ErrEmailTaken):
		return errEmailTaken
	case errors.Is(err, domain.ErrUserNotFound):
		return errorutil.NewNotFound("User")
	case errors.Is(err, domain.ErrCourseNotFound):
		return errorutil.NewNotFound("Course")
	case errors.Is(err, domain.ErrStudentNotFound):
		return errorutil.NewNotFound("Student")
	case errors.Is(err, domain.ErrCourseCodeUsed):
		return errCourseCodeUsed
	case errors.Is(err, domain.ErrUnknownRole), errors.Is(err, domain.ErrInvalidInput):
		return errorutil.NewValidationError(err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		return errRequestTimeout.Wrap(err)
	case errors.As(err, &fiberErr):
		return errorutil.NewDomainError(fiberCode(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	default:
		return errorutil.NewInternalError(err)
	}
}

func fiberCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return fmt.Sprintf("HTTP_%d", status)
	}
}
