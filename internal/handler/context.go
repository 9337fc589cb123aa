package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/model"
)

// identityKey is where the token verifier middleware stores the resolved
// user for the duration of a request.
const identityKey = "identity"

// SetIdentity attaches the authenticated user to the request context.
// Only the token verifier middleware calls this.
func SetIdentity(c echo.Context, u model.User) { c.Set(identityKey, u) }

// currentUser returns the authenticated user resolved by the token
// verifier. It is only meaningful on protected routes.
func currentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(identityKey).(model.User)
	return u, ok
}
