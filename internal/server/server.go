// Package server contains the HTTP handlers and route wiring for the
// application's API and screen endpoints.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fitpulse/internal/cache"
	"fitpulse/internal/config"
	"fitpulse/internal/database"
	"fitpulse/internal/feed"
	"fitpulse/internal/middleware"
	"fitpulse/internal/notify"
	"fitpulse/internal/platform"
	"fitpulse/internal/platform/gormstore"
	"fitpulse/internal/profile"
	"fitpulse/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// screen bundles the per-member view-model state: the feed synchronizer,
// the profile loader, and the notification recorder. One screen set
// exists per signed-in member and is discarded on logout.
type screen struct {
	feed     *feed.Feed
	profiles *profile.Loader
	notifier *notify.Recorder
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	store          platform.Store
	sessions       *session.Manager
	promMiddleware *fiberprometheus.FiberPrometheus

	mu      sync.Mutex
	screens map[string]*screen
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests use this with an in-memory database and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		store:          gormstore.New(db),
		sessions:       session.NewManager(session.NewGormDirectory(db), cfg.JWTSecret),
		promMiddleware: middleware.InitMetrics("fitpulse-api"),
		screens:        make(map[string]*screen),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID into slog
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
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
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", middleware.AuthRequired(s.sessions), s.Logout)

	// Protected API routes
	protected := api.Group("", middleware.AuthRequired(s.sessions))

	// Feed routes
	feedGroup := protected.Group("/feed")
	feedGroup.Get("/", s.GetFeed)
	feedGroup.Post("/posts", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	feedGroup.Post("/posts/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	feedGroup.Put("/posts/:id/comment-draft", s.SetCommentDraft)
	feedGroup.Post("/posts/:id/like", middleware.RateLimit(
		s.redis, 30, time.Minute, "like_post"), s.LikePost)

	// Profile routes
	profileGroup := protected.Group("/profile")
	profileGroup.Get("/me", s.GetMyProfile)
	profileGroup.Get("/me/workouts", s.GetMyWorkoutInterests)

	// Catalog routes
	protected.Get("/workouts", s.GetWorkouts)
	protected.Get("/workout-categories", s.GetWorkoutCategories)
	protected.Get("/goals", s.GetGoals)
	protected.Get("/schedule", s.GetSchedule)
	protected.Get("/connections/suggested", s.GetSuggestedConnections)

	// Notifications raised by the view-model layer
	protected.Get("/notifications", s.GetNotifications)
	protected.Delete("/notifications/:id", s.DismissNotification)

	// Screen routes: composed view-model bundles. Unauthenticated access
	// redirects to the sign-in entry point with a mode hint.
	screens := app.Group("", middleware.ScreenGate(s.sessions))
	screens.Get("/community", s.CommunityScreen)
	screens.Get("/profile", s.ProfileScreen)
	screens.Get("/dashboard", s.DashboardScreen)
	screens.Get("/schedule", s.ScheduleScreen)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the database is reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"db":     "unreachable",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		return sqlDB.Close()
	}
	return nil
}

// screenFor returns the member's screen state, creating it on first use.
// The session gate inside is resolved to the already-authenticated
// identity the middleware extracted.
func (s *Server) screenFor(identity session.Identity) *screen {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc, ok := s.screens[identity.ID]; ok {
		return sc
	}

	gate := session.NewGate()
	gate.Resolve(identity)
	notifier := notify.NewRecorder()
	sc := &screen{
		feed:     feed.New(s.store, gate, notifier, middleware.Logger),
		profiles: profile.NewLoader(s.store, gate, notifier, middleware.Logger),
		notifier: notifier,
	}
	s.screens[identity.ID] = sc
	return sc
}

// dropScreen discards a member's view-model state (used on logout).
func (s *Server) dropScreen(identityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.screens, identityID)
}
