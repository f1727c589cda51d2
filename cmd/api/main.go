package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/thejerf/abtime"
	"go.uber.org/zap"

	httptransport "github.com/campusworks/college-portal/internal/api/http"
	"github.com/campusworks/college-portal/internal/api/http/handlers"
	"github.com/campusworks/college-portal/internal/auth"
	"github.com/campusworks/college-portal/internal/config"
	"github.com/campusworks/college-portal/internal/events"
	"github.com/campusworks/college-portal/internal/observability"
	"github.com/campusworks/college-portal/internal/persistence"
	"github.com/campusworks/college-portal/internal/repository"
	"github.com/campusworks/college-portal/internal/service"
	"github.com/campusworks/college-portal/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	clock := abtime.NewRealTime()

	userRepo := repository.NewUserRepository(pg.Pool)
	courseRepo := repository.NewCourseRepository(pg.Pool)
	attendanceRepo := repository.NewAttendanceRepository(pg.Pool)
	gradeRepo := repository.NewGradeRepository(pg.Pool)

	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to init password hasher", zap.Error(err))
	}
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	accounts := service.NewAccountService(service.AccountDependencies{
		UserRepo:   userRepo,
		Hasher:     hasher,
		Tokens:     tokens,
		Guard:      persistence.NewLoginGuard(redis, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginLockout()),
		Clock:      clock,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	courses := service.NewCourseService(courseRepo, logger)
	academic := service.NewAcademicService(service.AcademicDependencies{
		CourseRepo:     courseRepo,
		AttendanceRepo: attendanceRepo,
		GradeRepo:      gradeRepo,
		Logger:         logger,
	})

	if cfg.Admin.Enabled() {
		created, err := accounts.EnsureSuperuser(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			logger.Fatal("failed to bootstrap superuser", zap.Error(err))
		}
		if created {
			logger.Info("bootstrap superuser created", zap.String("email", cfg.Admin.Email))
		}
	}

	resolver := auth.NewSessionResolver(tokens, userRepo)
	authMiddleware := auth.NewAuthMiddleware(resolver, clock, dispatcher)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: !cfg.App.IsDevelopment(),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	deps := map[string]handlers.Pinger{"postgres": pg}
	if redis != nil {
		deps["redis"] = redis
	}
	validate := handlers.NewValidator()

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Auth:           handlers.NewAuthHandler(accounts, validate),
		Admin:          handlers.NewAdminHandler(accounts, validate),
		Courses:        handlers.NewCoursesHandler(courses, validate),
		Academic:       handlers.NewAcademicHandler(academic, validate),
		AuthMiddleware: authMiddleware,
		AuthRateLimit:  httptransport.RateLimit(cfg.Auth.RateLimitPerMinute, clock),
		Gatherer:       registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("graceful shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
