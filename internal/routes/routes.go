package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/geocoder"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/repository"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/services"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/storage"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB       *gorm.DB
	Geocoder geocoder.Geocoder
	Storage  storage.ObjectStorage
}

// NewApp builds the fiber app with global middleware and every route.
func NewApp(cfg *config.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.AppEnv != "test" {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	}
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	repos := repository.New(deps.DB)
	authHandler := handlers.NewAuthHandler(services.NewAuthService(repos, cfg))
	restaurantHandler := handlers.NewRestaurantHandler(
		services.NewRestaurantService(repos, deps.Geocoder, deps.Storage, cfg.PageSize),
	)
	mealHandler := handlers.NewMealHandler(services.NewMealService(repos))
	healthHandler := handlers.NewHealthHandler(deps.DB)

	Setup(app, cfg, repos, authHandler, restaurantHandler, mealHandler, healthHandler)
	return app
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	repos *repository.Repositories,
	authHandler *handlers.AuthHandler,
	restaurantHandler *handlers.RestaurantHandler,
	mealHandler *handlers.MealHandler,
	healthHandler *handlers.HealthHandler,
) {
	// General rate limiter, per IP
	if cfg.RateLimit > 0 {
		app.Use(rateLimiter(cfg.RateLimit))
	}

	app.Get("/health", healthHandler.Check)

	// Auth: public, stricter rate limit
	auth := app.Group("/auth")
	if cfg.AuthRateLimit > 0 {
		auth.Use(rateLimiter(cfg.AuthRateLimit))
	}
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/login", authHandler.Login)

	protected := middleware.JWTProtected(cfg)

	restaurants := app.Group("/restaurants")
	restaurants.Get("/", restaurantHandler.List)
	restaurants.Post("/", protected,
		middleware.RequireRole(repos.Users, models.RoleUser, models.RoleAdmin),
		restaurantHandler.Create)
	restaurants.Put("/upload/:id", protected, restaurantHandler.Upload)
	restaurants.Get("/:id", restaurantHandler.Get)
	restaurants.Put("/:id", protected, restaurantHandler.Update)
	restaurants.Delete("/:id", protected, restaurantHandler.Delete)

	meals := app.Group("/meals")
	meals.Get("/", mealHandler.List)
	meals.Get("/restaurant/:id", mealHandler.ListByRestaurant)
	meals.Get("/:id", mealHandler.Get)
	meals.Post("/", protected, mealHandler.Create)
	meals.Put("/:id", protected, mealHandler.Update)
	meals.Delete("/:id", protected, mealHandler.Delete)
}

func rateLimiter(limit int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
