package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Lali182k5/TaskHub/internal/auth"
	"github.com/Lali182k5/TaskHub/internal/insights"
	"github.com/Lali182k5/TaskHub/internal/tasks"
)

type Router struct {
	AuthHandler     *auth.Handler
	TaskHandler     *tasks.Handler
	InsightsHandler *insights.Handler
	AuthMW          fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/api/auth/register", r.AuthHandler.Register)
	app.Post("/api/auth/login", r.AuthHandler.Login)
	app.Get("/api/auth/me", r.AuthMW, r.AuthHandler.Me)

	app.Get("/api/tasks", r.AuthMW, r.TaskHandler.List)
	app.Post("/api/tasks", r.AuthMW, r.TaskHandler.Create)
	app.Get("/api/tasks/:id", r.AuthMW, r.TaskHandler.Get)
	app.Put("/api/tasks/:id", r.AuthMW, r.TaskHandler.Update)
	app.Delete("/api/tasks/:id", r.AuthMW, r.TaskHandler.Delete)

	app.Get("/api/insights", r.AuthMW, r.InsightsHandler.Get)
}
