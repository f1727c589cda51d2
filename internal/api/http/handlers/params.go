package handlers

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/college-portal/internal/auth"
	"github.com/campusworks/college-portal/internal/domain"
	"github.com/campusworks/college-portal/pkg/util/errorutil"
)

func jsonFieldName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

func idParam(c *fiber.Ctx, key string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, errorutil.NewValidationError(key+" must be a positive integer", nil)
	}
	return id, nil
}

func dateParam(c *fiber.Ctx, key string) (time.Time, error) {
	date, err := time.Parse(time.DateOnly, c.Params(key))
	if err != nil {
		return time.Time{}, errorutil.NewValidationError(key+" must be formatted as YYYY-MM-DD", nil)
	}
	return date, nil
}

// caller returns the identity stored by the auth middleware.
func caller(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, auth.ErrUnauthenticated
	}
	return identity, nil
}
