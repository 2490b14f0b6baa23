// Package server contains the HTTP handlers for the portfolio API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "portfolio/docs" // swagger docs
	"portfolio/internal/auth"
	"portfolio/internal/blob"
	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/notify"
	"portfolio/internal/observability"
	"portfolio/internal/repository"
	"portfolio/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const minBodyLimit = 4 * 1024 * 1024

// Deps are the already-initialized collaborators of a Server.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
	Store blob.Store
	// UploadRoot is served at /uploads when set (local blob driver).
	UploadRoot string
	Sender     notify.Sender
	// Now overrides the clock of the token and reset-token issuers.
	Now func() time.Time
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	uploadRoot     string
	limiter        *middleware.RateLimiter
	tokens         *auth.TokenManager
	dispatcher     *notify.Dispatcher

	authService    *service.AuthService
	userService    *service.UserService
	skillService   *service.SkillService
	projectService *service.ProjectService
	messageService *service.MessageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; without it the cache is bypassed.
	redisClient := cache.InitRedis(cfg.RedisURL)

	store, uploadRoot, err := newBlobStore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, Deps{
		DB:         db,
		Redis:      redisClient,
		Store:      store,
		UploadRoot: uploadRoot,
		Sender:     newSender(cfg),
	})
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use it with an in-memory database and a temporary upload dir.
func NewServerWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.DB == nil {
		return nil, errors.New("database is required")
	}
	if deps.Store == nil {
		return nil, errors.New("blob store is required")
	}
	if deps.Sender == nil {
		deps.Sender = notify.LogSender{Logger: middleware.Logger}
	}

	lifetime, err := cfg.TokenLifetime()
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:   cfg.JWTSecret,
		Lifetime: lifetime,
	}, deps.Now)
	if err != nil {
		return nil, err
	}

	dispatcher := notify.NewDispatcher(deps.Sender, middleware.Logger, notify.DispatcherConfig{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
	})

	store := blob.Instrument(deps.Store)
	uploads := service.UploadPolicy{MaxBytes: cfg.MaxFileUpload}
	userRepo := repository.NewUserRepository(deps.DB)

	server := &Server{
		config:         cfg,
		db:             deps.DB,
		redis:          deps.Redis,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		uploadRoot:     deps.UploadRoot,
		limiter:        middleware.NewRateLimiter(deps.Redis, middleware.RateLimitEnabled(cfg.Env)),
		tokens:         tokens,
		dispatcher:     dispatcher,
	}

	server.authService = service.NewAuthService(service.AuthDeps{
		Users:    userRepo,
		Hasher:   auth.NewBcryptHasher(),
		Tokens:   tokens,
		Resets:   auth.NewResetTokens(cfg.ResetTokenTTL, deps.Now),
		Store:    store,
		Notifier: dispatcher,
		Mail:     notify.NewComposer(cfg.MailFrom, cfg.FrontendURL),
		Uploads:  uploads,
		Logger:   middleware.Logger,
	}, service.AuthConfig{
		ResumeRequired:     cfg.ResumeRequired,
		RevealUnknownEmail: cfg.ResetRevealUnknownEmail,
		ResetTTL:           cfg.ResetTokenTTL,
	})
	server.userService = service.NewUserService(userRepo, store, uploads, middleware.Logger)
	server.skillService = service.NewSkillService(repository.NewSkillRepository(deps.DB), store, uploads, middleware.Logger)
	server.projectService = service.NewProjectService(repository.NewProjectRepository(deps.DB), store, uploads, middleware.Logger)
	server.messageService = service.NewMessageService(repository.NewMessageRepository(deps.DB))

	return server, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, string, error) {
	switch cfg.BlobDriver {
	case "s3":
		store, err := blob.NewS3Store(ctx, blob.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("blob store init failed: %w", err)
		}
		return store, "", nil
	default:
		store, err := blob.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
		if err != nil {
			return nil, "", fmt.Errorf("blob store init failed: %w", err)
		}
		return store, store.Root(), nil
	}
}

func newSender(cfg *config.Config) notify.Sender {
	if cfg.SMTPHost == "" {
		return notify.LogSender{Logger: middleware.Logger}
	}
	return notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
	})
}

// bodyLimit fits a request carrying two files of the maximum size plus form fields.
func (s *Server) bodyLimit() int {
	limit := int(2*s.config.MaxFileUpload) + 1024*1024
	if limit < minBodyLimit {
		limit = minBodyLimit
	}
	return limit
}

// App returns the configured Fiber app, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:      "Portfolio API",
		BodyLimit:    s.bodyLimit(),
		ErrorHandler: s.ErrorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// ErrorHandler writes every error returned by a handler as the standard
// JSON envelope. Server errors are logged with their cause.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	if status := models.StatusOf(err); status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.Int("status", status),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers. Uploaded assets are embedded by the frontend origin.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(compress.New())

	enabled := middleware.RateLimitEnabled(s.config.Env)
	app.Use(limiter.New(limiter.Config{
		Max:        s.config.RateLimitMax,
		Expiration: s.config.RateLimitWindow,
		Next: func(c *fiber.Ctx) bool {
			return !enabled || c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Message: "Too many requests, please try again later",
				Code:    "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if s.uploadRoot != "" {
		app.Static("/uploads", s.uploadRoot)
	}

	api := app.Group("/api/v1")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Portfolio Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	authRequired := middleware.AuthRequired(s.tokens)

	users := api.Group("/users")
	users.Post("/register", s.limiter.Limit("register", 3, 10*time.Minute), s.Register)
	users.Post("/login", s.limiter.Limit("login", 10, 5*time.Minute), s.Login)
	users.Post("/logout", authRequired, s.Logout)
	users.Get("/profile", authRequired, s.GetProfile)
	users.Post("/update-profile", authRequired, s.UpdateProfile)
	users.Put("/change-password", authRequired, s.ChangePassword)
	users.Post("/forgot-password", s.limiter.Limit("forgot_password", 3, 15*time.Minute), s.ForgotPassword)
	users.Post("/reset-password/:token", s.ResetPassword)

	skills := api.Group("/skill")
	skills.Get("/all-skills", s.GetSkills)
	skills.Get("/get-skill-by-id/:id", s.GetSkill)
	skills.Post("/add-skill", authRequired, s.AddSkill)
	skills.Put("/update-skill/:id", authRequired, s.UpdateSkill)
	skills.Delete("/delete-skill/:id", authRequired, s.DeleteSkill)

	projects := api.Group("/project", authRequired)
	projects.Post("/add-project", s.AddProject)
	projects.Get("/get-projects", s.GetProjects)
	projects.Get("/get-project/:id", s.GetProject)
	projects.Put("/update-project/:id", s.UpdateProject)
	projects.Delete("/delete-project/:id", s.DeleteProject)

	messages := api.Group("/message")
	messages.Post("/send-message", s.SendMessage)
	messages.Get("/all-messages", authRequired, s.GetMessages)
	messages.Get("/all-messages/:page/:limit", authRequired, s.GetMessages)
	messages.Get("/get-message/:id", authRequired, s.GetMessage)
	messages.Put("/mark-read/:id", authRequired, s.MarkMessageRead)
	messages.Delete("/delete-all-messages", authRequired, s.DeleteAllMessages)
	messages.Delete("/delete-message/:id", authRequired, s.DeleteMessage)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. The database is
// required; Redis only fails the probe when configured and unreachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "disabled"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
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

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server: the HTTP listener first, then
// the mail queue, then the database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	var shutdownErr error
	if err := s.dispatcher.Close(ctx); err != nil {
		middleware.Logger.Error("notification queue did not drain", slog.String("error", err.Error()))
		shutdownErr = err
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return shutdownErr
}
