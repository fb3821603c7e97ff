// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "campushire/docs" // swagger docs
	"campushire/internal/ai"
	"campushire/internal/bootstrap"
	"campushire/internal/cache"
	"campushire/internal/config"
	"campushire/internal/featureflags"
	"campushire/internal/mail"
	"campushire/internal/middleware"
	"campushire/internal/models"
	"campushire/internal/notifications"
	"campushire/internal/otp"
	"campushire/internal/repository"
	"campushire/internal/security"
	"campushire/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	localsUserID  = "userID"
	localsUser    = "user"
	localsAdminID = "adminID"
)

// Deps are the outbound collaborators a Server talks to. Nil fields get
// production defaults built from the config.
type Deps struct {
	Mailer    mail.Sender
	Generator ai.Generator
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager
	userTokens     *security.TokenIssuer
	adminTokens    *security.TokenIssuer

	authService       *service.AuthService
	userService       *service.UserService
	experienceService *service.ExperienceService
	moderationService *service.ModerationService
	statsService      *service.StatsService
	suggestionService *service.SuggestionService
	chatbotService    *service.ChatbotService
}

// NewServer connects to the database and Redis and builds a Server with
// production collaborators.
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{AutoMigrate: true, SeedDemo: cfg.SeedDemo})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb, Deps{})
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// rdb may be nil; OTP codes then live in process memory and notifications
// are disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("server requires config and database")
	}

	if deps.Mailer == nil {
		deps.Mailer = mail.NewSMTPSender(cfg)
	}
	if deps.Generator == nil {
		deps.Generator = ai.NewOllamaClient(cfg.OllamaBaseURL, cfg.OllamaModel, time.Duration(cfg.AITimeoutSeconds)*time.Second)
	}

	var store cache.Store
	if rdb != nil {
		store = cache.NewRedisStore(rdb)
	} else {
		store = cache.NewMemoryStore()
	}

	ttl := time.Duration(cfg.AccessTokenExpireMinutes) * time.Minute
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          rdb,
		promMiddleware: middleware.InitMetrics("campushire-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userTokens:     security.NewTokenIssuer(cfg.SecretKey, security.UserAudience, ttl),
		adminTokens:    security.NewTokenIssuer(cfg.SecretKey, security.AdminAudience, ttl),
	}
	if rdb != nil {
		s.notifier = notifications.NewNotifier(rdb)
		s.hub = notifications.NewHub()
	}

	users := repository.NewUserRepository(db)
	exps := repository.NewExperienceRepository(db)
	otpFlow := otp.NewService(store, deps.Mailer, cfg.EmailFromName)

	s.authService = service.NewAuthService(users, otpFlow, s.userTokens)
	s.userService = service.NewUserService(db)
	s.experienceService = service.NewExperienceService(db)
	s.moderationService = service.NewModerationService(db, rdb, s.notifier, s.adminTokens, cfg.AdminPassword)
	s.statsService = service.NewStatsService(exps, users, rdb)
	s.suggestionService = service.NewSuggestionService(exps, deps.Generator, s.featureFlags)
	s.chatbotService = service.NewChatbotService(deps.Generator)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so throttled responses still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: s.config.AllowedOrigins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)
	app.Get("/health", s.ReadinessCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	otpLimit := func(name string) fiber.Handler {
		return middleware.RateLimit(s.redis, 5, 10*time.Minute, name)
	}
	auth.Post("/signup", otpLimit("signup"), s.Signup)
	auth.Post("/verify-otp-only", s.VerifyOTPOnly)
	auth.Post("/verify-otp", s.VerifyOTP)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/resend-otp", otpLimit("resend_otp"), s.ResendOTP)
	auth.Post("/forgot-password", otpLimit("forgot_password"), s.ForgotPassword)
	auth.Post("/reset-password", s.ResetPassword)

	users := api.Group("/users", s.AuthRequired())
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/profile-completion", s.GetProfileCompletion)

	experiences := api.Group("/experiences")
	experiences.Get("/", s.ListExperiences)
	// Specific routes before the generic /:id route.
	experiences.Get("/my-experiences", s.AuthRequired(), s.GetMyExperiences)
	experiences.Get("/bookmarks/all", s.AuthRequired(), s.GetBookmarks)
	experiences.Post("/", s.AuthRequired(), s.CreateExperience)
	experiences.Post("/:id/bookmark", s.AuthRequired(), s.BookmarkExperience)
	experiences.Delete("/:id/bookmark", s.AuthRequired(), s.RemoveBookmark)
	experiences.Put("/:id", s.AuthRequired(), s.UpdateExperience)
	experiences.Get("/:id", s.GetExperience)

	api.Post("/admin/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "admin_login"), s.AdminLogin)
	admin := api.Group("/admin", s.AdminRequired())
	admin.Get("/experiences/pending", s.GetPendingExperiences)
	admin.Get("/experiences/all", s.GetAllExperiences)
	admin.Post("/experiences/approve", s.ModerateExperience)
	admin.Get("/audit-logs", s.GetAuditLogs)
	admin.Get("/users", s.GetUsersWithEligibility)
	admin.Post("/users/approve", s.ModerateUser)
	admin.Get("/users/:id", s.GetUserWithEligibility)
	admin.Get("/feature-flags", s.GetFeatureFlags)

	analytics := api.Group("/analytics")
	analytics.Get("/company-stats", s.GetCompanyStats)
	analytics.Get("/role-stats", s.GetRoleStats)
	analytics.Get("/trends", s.GetTrends)
	analytics.Get("/college-stats", s.GetCollegeStats)

	api.Get("/companies/:company_name/suggestions", s.GetCompanySuggestions)
	api.Post("/chatbot/chat", s.Chat)

	api.Get("/ws/notifications", s.userAuth(true), s.NotificationsWebsocket())
}

// Root handles GET /
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "CampusHire AI API",
		"version": "1.0.0",
		"docs":    "/swagger/index.html",
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: a
// missing client degrades OTP storage to memory but the API still serves.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
}

func (s *Server) userAuth(allowQuery bool) fiber.Handler {
	return middleware.TokenAuth(s.userTokens.DecodeID, localsUserID, middleware.UserIDKey, allowQuery, unauthorized)
}

// AuthRequired returns middleware that admits requests carrying a valid
// student session for an existing, active account.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := middleware.BearerToken(c)
		if token == "" {
			return unauthorized(c, "Authorization required")
		}
		userID, ok := s.userTokens.DecodeID(token)
		if !ok {
			return unauthorized(c, "Could not validate credentials")
		}
		user, err := s.authService.CurrentUser(c.UserContext(), userID)
		if err != nil {
			return s.respondError(c, err)
		}

		c.Locals(localsUserID, user.ID)
		c.Locals(localsUser, user)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID))
		return c.Next()
	}
}

// AdminRequired returns middleware that admits requests carrying a valid
// admin session for an active admin. Student tokens are rejected.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := middleware.BearerToken(c)
		if token == "" {
			return unauthorized(c, "Authorization required")
		}
		adminID, ok := s.adminTokens.DecodeID(token)
		if !ok {
			return unauthorized(c, "Could not validate credentials")
		}
		admin, err := s.moderationService.CurrentAdmin(c.UserContext(), adminID)
		if err != nil {
			return s.respondError(c, err)
		}

		c.Locals(localsAdminID, admin.ID)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.AdminIDKey, admin.ID))
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUser).(*models.User)
	return user
}

func currentAdminID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localsAdminID).(uint)
	return id
}

// App builds the Fiber app with middleware and routes without listening.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "CampusHire API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.App()

	if s.hub != nil && s.notifier != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				slog.Error("failed to start hub wiring", "hub", s.hub.Name(), "err", err)
			}
		}()
	}

	slog.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", "err", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			slog.Error("error shutting down hub", "hub", s.hub.Name(), "err", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", "err", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", "err", rerr)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
