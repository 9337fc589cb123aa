// Package router wires HTTP routes to their handlers and middleware.
// Public read endpoints sit behind the Redis response cache; protected
// endpoints sit behind the JWT verifier; the credential endpoints are
// additionally rate limited.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/handler"
)

// Middlewares groups the cross-cutting middleware instances built in
// main so route registration stays declarative.
type Middlewares struct {
	Auth      echo.MiddlewareFunc // token verifier, resolves identity
	Cache     echo.MiddlewareFunc // public response cache
	RateLimit echo.MiddlewareFunc // login/register throttle
}

// RegisterRoutes registers routes that do not belong to a resource
// group. Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterUsers registers registration, login and the current-user
// endpoint. Register and login are public but throttled; current-user
// requires a valid token.
func RegisterUsers(e *echo.Echo, a *handler.AuthHandler, mw Middlewares) {
	g := e.Group("/api/users")
	g.POST("/register", a.Register, mw.RateLimit)
	g.POST("/login", a.Login, mw.RateLimit)
	g.GET("/current", a.Me, mw.Auth)
}
