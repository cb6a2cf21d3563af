package server

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/storage/redis/v3"
	"github.com/gofiber/template/html/v3"
	"go.uber.org/zap"

	"tweetsearch/internal/config"
	"tweetsearch/internal/handlers"
	staticfs "tweetsearch/static"
	"tweetsearch/views"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	App    *fiber.App
	Cfg    *config.Config
	Logger *zap.Logger

	limiterStorage fiber.Storage
}

// New creates a new server with middleware configured.
func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	// Templates are embedded so the binary runs from any directory
	engine := html.NewFileSystem(http.FS(views.FS), ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			if code := statusOf(err); code >= fiber.StatusInternalServerError {
				log.Error("request failed",
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Error(err),
				)
			}
			return handlers.ErrorPage(c, err, cfg)
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{App: app, Cfg: cfg, Logger: log}

	// Rate limiting per IP, shared across replicas when Redis is configured
	if cfg.RateLimitPerMinute > 0 {
		limiterCfg := limiter.Config{
			Max:        cfg.RateLimitPerMinute,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Rate limit exceeded. Please try again later.",
				})
			},
		}
		if cfg.UsesRedis() {
			s.limiterStorage = redis.New(redis.Config{URL: cfg.RedisURL})
			limiterCfg.Storage = s.limiterStorage
			log.Info("rate limiter using redis storage")
		}
		app.Use(limiter.New(limiterCfg))
	}

	// Static files, embedded like the templates
	app.Get("/static/*", static.New("", static.Config{FS: staticfs.FS}))

	return s
}

// Start listens on the configured address. It blocks until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info("starting server", zap.String("addr", s.Cfg.ServerAddr))
	return s.App.Listen(s.Cfg.ServerAddr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully shuts down the server and releases the limiter storage.
func (s *Server) Shutdown() error {
	err := s.App.Shutdown()
	if s.limiterStorage != nil {
		if cerr := s.limiterStorage.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func statusOf(err error) int {
	if e, ok := err.(*fiber.Error); ok {
		return e.Code
	}
	return fiber.StatusInternalServerError
}
