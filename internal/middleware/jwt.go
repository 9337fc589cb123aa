package middleware // reusable HTTP middleware shared by the protected route groups

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/handler"
	"github.com/arlen/devconnector/internal/repository"
	"github.com/arlen/devconnector/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and resolves its subject to a live user record, which is injected into
// the request context for downstream handlers. The token alone is not
// enough: if the account was deleted after issue, the request is
// rejected. Any failure terminates the request with a 401 immediately.
func JWTAuth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return handler.Fail(c, http.StatusUnauthorized, "Missing bearer token", nil)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return handler.Fail(c, http.StatusUnauthorized, "Invalid token", nil)
			}

			user, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return handler.Fail(c, http.StatusUnauthorized, "Invalid token", nil)
				}
				return err
			}

			handler.SetIdentity(c, user)
			return next(c)
		}
	}
}
