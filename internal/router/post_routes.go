package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/handler"
)

// RegisterPosts registers the public feed (cached) and the protected
// post/like/comment operations.
func RegisterPosts(e *echo.Echo, p *handler.PostHandler, mw Middlewares) {
	g := e.Group("/api/posts")

	g.GET("", p.List, mw.Cache)
	g.GET("/:id", p.Get, mw.Cache)

	g.POST("", p.Create, mw.Auth)
	g.DELETE("/:id", p.Delete, mw.Auth)
	g.POST("/like/:id", p.Like, mw.Auth)
	g.POST("/unlike/:id", p.Unlike, mw.Auth)
	g.POST("/comment/:id", p.Comment, mw.Auth)
	g.DELETE("/comment/:id/:comment_id", p.DeleteComment, mw.Auth)
}
