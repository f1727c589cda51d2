package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusworks/college-portal/internal/api/http/handlers"
	"github.com/campusworks/college-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Courses        *handlers.CoursesHandler
	Academic       *handlers.AcademicHandler
	AuthMiddleware *auth.AuthMiddleware
	AuthRateLimit  fiber.Handler
	Gatherer       prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes. Every protected route resolves the
// session and checks its action before the handler runs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Welcome)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	if cfg.AuthRateLimit != nil {
		authGroup.Use(cfg.AuthRateLimit)
	}
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/register", cfg.Auth.Signup)
	authGroup.Post("/token", cfg.Auth.Token)
	authGroup.Post("/login", cfg.Auth.Token)

	guard := func(action auth.Action, h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.Require(action), h}
	}

	app.Get("/users/me", guard(auth.ActionViewProfile, cfg.Auth.Me)...)

	admin := app.Group("/admin")
	admin.Get("/dashboard-data", guard(auth.ActionViewAdminDashboard, cfg.Admin.Dashboard)...)
	admin.Post("/create-user", guard(auth.ActionCreateUser, cfg.Admin.CreateUser)...)
	admin.Get("/users", guard(auth.ActionListUsers, cfg.Admin.ListUsers)...)
	admin.Put("/users/:id/role", guard(auth.ActionUpdateUserRole, cfg.Admin.UpdateRole)...)

	courses := app.Group("/courses")
	courses.Post("/", guard(auth.ActionCreateCourse, cfg.Courses.Create)...)
	courses.Get("/", guard(auth.ActionViewCourses, cfg.Courses.List)...)
	courses.Get("/:id", guard(auth.ActionViewCourses, cfg.Courses.Get)...)
	courses.Put("/:id", guard(auth.ActionUpdateCourse, cfg.Courses.Update)...)
	courses.Delete("/:id", guard(auth.ActionDeleteCourse, cfg.Courses.Delete)...)

	attendance := app.Group("/attendance")
	attendance.Post("/courses/:course_id/date/:date", guard(auth.ActionSubmitAttendance, cfg.Academic.SubmitAttendance)...)
	attendance.Get("/my-attendance/courses/:course_id", guard(auth.ActionViewOwnAttendance, cfg.Academic.MyAttendance)...)

	grades := app.Group("/grades")
	grades.Post("/courses/:course_id", guard(auth.ActionSubmitGrade, cfg.Academic.SubmitGrade)...)
	grades.Get("/my-grades", guard(auth.ActionViewOwnGrades, cfg.Academic.MyGrades)...)
}
