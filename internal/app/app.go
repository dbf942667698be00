package app

import (
	"errors"
	"fmt"
	"time"

	"todoapp/internal/auth"
	"todoapp/internal/config"
	"todoapp/internal/handlers"
	"todoapp/internal/middleware"
	"todoapp/internal/repositories"
	"todoapp/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options carries the collaborators New wires together.
type Options struct {
	Config *config.Config
	DB     *gorm.DB
	// Publisher receives domain events. Nil disables publishing.
	Publisher services.EventPublisher
	Log       *logrus.Logger
	// AccessLog enables fiber's per-request access log.
	AccessLog bool
}

// App is the assembled HTTP application.
type App struct {
	*fiber.App
	AuthService *services.AuthService
	Tokens      *auth.TokenManager
}

// New builds the Fiber application with every route registered.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	log := opts.Log

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:    cfg.JWTSecret,
		Algorithm: cfg.JWTAlgorithm,
		TTL:       cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(opts.DB)
	todoRepo := repositories.NewGORMTodoRepository(opts.DB)

	// --- Services ---
	authService := services.NewAuthService(userRepo, hasher, tokens, opts.Publisher, log)
	userService := services.NewUserService(userRepo, hasher, log)
	todoService := services.NewTodoService(todoRepo, opts.Publisher, log)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	todoHandler := handlers.NewTodoHandler(todoService, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(log),
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// --- Public routes ---
	app.Get("/healthy", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	authHandler.RegisterRoutes(app)

	// --- Protected routes (require a bearer token) ---
	requireAuth := middleware.AuthRequired(authService)
	userHandler.RegisterRoutes(app, requireAuth)
	todoHandler.RegisterRoutes(app, requireAuth)
	todoHandler.RegisterAdminRoutes(app, requireAuth)

	return &App{
		App:         app,
		AuthService: authService,
		Tokens:      tokens,
	}, nil
}

func errorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		} else {
			log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
		}

		return c.Status(code).JSON(fiber.Map{
			"detail": message,
		})
	}
}
