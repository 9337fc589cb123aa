package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/github"
)

// GitHubHandler exposes the repos proxy used by the profile page.
type GitHubHandler struct {
	GitHub *github.Client
}

func NewGitHubHandler(gh *github.Client) *GitHubHandler {
	return &GitHubHandler{GitHub: gh}
}

// Repos handles GET /api/profile/github/:username. GitHub outages map to
// 502 rather than a generic server error so clients can tell the
// difference from a local failure.
func (h *GitHubHandler) Repos(c echo.Context) error {
	username := c.Param("username")
	repos, err := h.GitHub.Repos(c.Request().Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, github.ErrUserNotFound):
			return Fail(c, http.StatusNotFound, "GitHub user not found", nil)
		case errors.Is(err, github.ErrUpstream):
			return Fail(c, http.StatusBadGateway, "GitHub is unavailable", nil)
		}
		return err
	}
	return OK(c, http.StatusOK, "Repositories fetched successfully", map[string]any{"repos": repos})
}
