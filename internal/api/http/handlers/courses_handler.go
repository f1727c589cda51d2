package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/college-portal/internal/api/dto"
	"github.com/campusworks/college-portal/internal/service"
)

// CoursesHandler manages the course catalogue endpoints.
type CoursesHandler struct {
	courses  *service.CourseService
	validate *Validator
}

// NewCoursesHandler constructs handler.
func NewCoursesHandler(courses *service.CourseService, validate *Validator) *CoursesHandler {
	return &CoursesHandler{courses: courses, validate: validate}
}

// Create POST /courses.
func (h *CoursesHandler) Create(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CourseRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	course, err := h.courses.Create(c.UserContext(), identity, courseInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewCourseResponse(course))
}

// List GET /courses.
func (h *CoursesHandler) List(c *fiber.Ctx) error {
	courses, err := h.courses.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, dto.NewCourseResponse(course))
	}
	return c.JSON(items)
}

// Get GET /courses/:id.
func (h *CoursesHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	course, err := h.courses.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCourseResponse(course))
}

// Update PUT /courses/:id.
func (h *CoursesHandler) Update(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CourseRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	course, err := h.courses.Update(c.UserContext(), identity, id, courseInput(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCourseResponse(course))
}

// Delete DELETE /courses/:id.
func (h *CoursesHandler) Delete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.courses.Delete(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func courseInput(req dto.CourseRequest) service.CourseInput {
	return service.CourseInput{Name: req.Name, Code: req.Code, Description: req.Description}
}
