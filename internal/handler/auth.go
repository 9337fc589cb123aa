package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/config"
	"github.com/arlen/devconnector/internal/model"
	"github.com/arlen/devconnector/internal/queue"
	"github.com/arlen/devconnector/internal/repository"
	"github.com/arlen/devconnector/internal/service"
	"github.com/arlen/devconnector/internal/utils"
	"github.com/arlen/devconnector/internal/validation"
)

// AuthHandler bundles dependencies for registration, login and the
// current-user endpoint.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Events *service.Publisher
	Log    *slog.Logger
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, events *service.Publisher, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Events: events, Log: log}
}

// userSnapshot is the public view of a user returned by register and
// current-user responses.
type userSnapshot struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func snapshot(u model.User) userSnapshot {
	return userSnapshot{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

// Register handles POST /api/users/register: validates the payload,
// derives the Gravatar avatar and creates the credential record. A
// duplicate email is a conflict reported against the email field.
func (h *AuthHandler) Register(c echo.Context) error {
	var req validation.RegisterInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if errs := req.Validate(); !errs.OK() {
		return Fail(c, http.StatusBadRequest, "Validation failed", errs)
	}

	avatar := utils.GravatarURL(req.Email)
	id, err := h.Users.Create(c.Request().Context(), req.Name, req.Email, avatar, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return Fail(c, http.StatusBadRequest, "Email already exists",
				map[string]string{"email": "Email already exists"})
		}
		return err
	}

	user, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	// Fire-and-forget; a broker outage never fails a registration.
	h.Events.UserRegistered(c.Request().Context(), queue.UserRegisteredEvent{
		UserID: user.ID, Name: user.Name, Email: user.Email,
	})

	return OK(c, http.StatusCreated, "User registered successfully",
		map[string]any{"user": snapshot(user)})
}

// Login handles POST /api/users/login: verifies the credential pair and
// mints a signed access token. Unknown email and wrong password produce
// the same response so the failing half is never disclosed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req validation.LoginInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if errs := req.Validate(); !errs.OK() {
		return Fail(c, http.StatusBadRequest, "Validation failed", errs)
	}

	user, err := h.Users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return h.invalidCredentials(c)
		}
		return err
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return h.invalidCredentials(c)
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Name, user.Avatar, h.Cfg.AccessTTLMin)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, "Login successful", map[string]string{"token": tok.Token})
}

// invalidCredentials is the single login failure shape; it deliberately
// does not say whether the email or the password was wrong.
func (h *AuthHandler) invalidCredentials(c echo.Context) error {
	return Fail(c, http.StatusBadRequest, "Invalid credentials", nil)
}

// Me handles GET /api/users/current: it returns the identity already
// resolved by the token verifier. Clients also use it as their
// lightweight session check.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	return OK(c, http.StatusOK, "Current user fetched successfully",
		map[string]any{"user": snapshot(user)})
}
