// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"companion/internal/delivery/http/middleware"
	"companion/internal/delivery/http/router/handler"
	"companion/internal/infra/metrics"
)

type RouterParams struct {
	fx.In

	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	CharacterHandler *handler.CharacterHandler
	ChatHandler      *handler.ChatHandler
	ImageGenHandler  *handler.ImageGenHandler
	StatusHandler    *handler.StatusHandler
	AuthMiddleware   *middleware.AuthMiddleware
	Metrics          *metrics.Metrics `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Root status route tolerates anonymous callers.
	e.GET("/", p.StatusHandler.Root, p.AuthMiddleware.OptionalAuthenticate)

	if p.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(p.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", p.AuthHandler.Register)
		authGroup.POST("/token", p.AuthHandler.Login)
		authGroup.POST("/refresh", p.AuthHandler.Refresh)
	}

	userGroup := api.Group("/users", p.AuthMiddleware.Authenticate)
	{
		userGroup.GET("/me", p.UserHandler.Me)

		characterGroup := userGroup.Group("/me/characters")
		characterGroup.POST("", p.CharacterHandler.Create)
		characterGroup.GET("", p.CharacterHandler.List)
		characterGroup.GET("/:id", p.CharacterHandler.Get)
		characterGroup.PATCH("/:id", p.CharacterHandler.Update)
		characterGroup.DELETE("/:id", p.CharacterHandler.Delete)
	}

	chatGroup := api.Group("/chat")
	{
		// The websocket endpoint authenticates by query token inside the
		// handler; the REST endpoints use the bearer middleware.
		chatGroup.GET("/stream", p.ChatHandler.Stream)

		sessionGroup := chatGroup.Group("/sessions", p.AuthMiddleware.Authenticate)
		sessionGroup.POST("", p.ChatHandler.CreateSession)
		sessionGroup.GET("", p.ChatHandler.ListSessions)
		sessionGroup.GET("/:id", p.ChatHandler.GetSession)
		sessionGroup.DELETE("/:id", p.ChatHandler.DeleteSession)
	}

	api.POST("/sdxl/generate", p.ImageGenHandler.Generate, p.AuthMiddleware.Authenticate)
}
