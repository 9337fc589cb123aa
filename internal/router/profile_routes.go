package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/handler"
)

// RegisterProfile registers profile browsing (public, cached), profile
// editing (protected) and the account cascade delete.
func RegisterProfile(e *echo.Echo, p *handler.ProfileHandler, gh *handler.GitHubHandler, mw Middlewares) {
	g := e.Group("/api/profile")

	// Public browse endpoints; concrete paths are registered before the
	// parameterized handle route so they are not captured by it.
	g.GET("/all", p.List, mw.Cache)
	g.GET("/search", p.Search, mw.Cache)
	g.GET("/handle/:handle", p.GetByHandle, mw.Cache)
	g.GET("/user/:user_id", p.GetByUserID, mw.Cache)
	g.GET("/github/:username", gh.Repos, mw.Cache)

	// Owner endpoints.
	g.GET("", p.GetMine, mw.Auth)
	g.POST("", p.Upsert, mw.Auth)
	g.DELETE("", p.DeleteAccount, mw.Auth)
	g.POST("/experience", p.AddExperience, mw.Auth)
	g.DELETE("/experience/:exp_id", p.DeleteExperience, mw.Auth)
	g.POST("/education", p.AddEducation, mw.Auth)
	g.DELETE("/education/:edu_id", p.DeleteEducation, mw.Auth)
}
