package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
)

// Register mounts the tracker API.
func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute, nil))

	e.GET("/session", h.GetSession)
	e.POST("/session/register", h.Register)
	e.POST("/session/login", h.Login)
	e.POST("/session/logout", h.Logout)
	e.PATCH("/session/account", h.UpdateAccount)
	e.DELETE("/session/account", h.DeleteAccount)

	e.GET("/board", h.GetBoard)
	e.GET("/scheduled", h.ListScheduled)

	e.POST("/projects", h.CreateProject)
	e.PATCH("/projects/:id", h.RenameProject)
	e.DELETE("/projects/:id", h.DeleteProject)
	e.POST("/projects/:id/move", h.MoveProject)
	e.POST("/projects/:id/select", h.SelectProject)

	e.POST("/projects/:id/tasks", h.CreateTask)
	e.PATCH("/projects/:id/tasks/:taskId", h.EditTask)
	e.DELETE("/projects/:id/tasks/:taskId", h.DeleteTask)
	e.POST("/projects/:id/tasks/:taskId/complete", h.CompleteTask)

	e.GET("/completed", h.ListCompleted)
	e.DELETE("/completed/:id", h.DeleteCompleted)

	e.GET("/settings", h.GetSettings)
	e.PATCH("/settings", h.UpdateSettings)

	e.POST("/undo", h.Undo)
}

// RegisterSync mounts the sync API. Account and data routes require a bearer token and
// are limited per account; the public routes are limited per client IP.
func RegisterSync(e *echo.Echo, h *SyncHandler, parse middleware.TokenParser, rateLimitPerMinute int) {
	limit := middleware.RateLimiter(rateLimitPerMinute, time.Minute, middleware.ByAccountOrIP)
	auth := middleware.BearerAuth(parse)

	api := e.Group("/api")

	api.POST("/accounts", h.CreateAccount, limit)
	api.POST("/auth", h.Authenticate, limit)

	api.GET("/accounts", h.GetAccount, auth, limit)
	api.PATCH("/accounts", h.UpdateAccount, auth, limit)
	api.DELETE("/accounts", h.DeleteAccount, auth, limit)
	api.GET("/data", h.GetData, auth, limit)
	api.POST("/data", h.PutData, auth, limit)
}
