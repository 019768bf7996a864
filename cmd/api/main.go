package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"

	"github.com/Lali182k5/TaskHub/internal/auth"
	"github.com/Lali182k5/TaskHub/internal/config"
	"github.com/Lali182k5/TaskHub/internal/insights"
	"github.com/Lali182k5/TaskHub/internal/router"
	"github.com/Lali182k5/TaskHub/internal/store"
	"github.com/Lali182k5/TaskHub/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}
	defer client.Disconnect(ctx)
	log.Println("MongoDB connected")

	db := client.Database("taskhub")
	if err := store.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("error ensuring schema: %v", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    64 * 1024,
		ErrorHandler: router.ErrorHandler(cfg.Production()),
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	app.Use(helmet.New())
	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(router.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow))
	if !cfg.Production() {
		app.Use(requestLogger())
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	userRepo := auth.NewRepository(db)
	taskRepo := tasks.NewRepository(db)

	r := &router.Router{
		AuthHandler:     auth.NewHandler(userRepo, tokens),
		TaskHandler:     tasks.NewHandler(taskRepo),
		InsightsHandler: insights.NewHandler(taskRepo),
		AuthMW:          auth.Middleware(tokens),
	}
	r.RegisterRoutes(app)

	log.Println("Listening on port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
