package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/model"
	"github.com/arlen/devconnector/internal/repository"
	"github.com/arlen/devconnector/internal/validation"
)

// ProfileHandler bundles dependencies for profile CRUD and the account
// cascade delete.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
	Posts    *repository.PostRepo
	Users    *repository.UserRepo
	Log      *slog.Logger
}

func NewProfileHandler(profiles *repository.ProfileRepo, posts *repository.PostRepo, users *repository.UserRepo, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Posts: posts, Users: users, Log: log}
}

// GetMine handles GET /api/profile and returns the caller's own profile.
func (h *ProfileHandler) GetMine(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	profile, err := h.Profiles.GetByUserID(c.Request().Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return Fail(c, http.StatusNotFound, "There is no profile for this user", nil)
		}
		return err
	}
	return OK(c, http.StatusOK, "Profile fetched successfully", map[string]any{"profile": profile})
}

// Upsert handles POST /api/profile: it creates the caller's profile on
// first use and updates it afterwards. A handle claimed by someone else
// is a conflict reported against the handle field.
func (h *ProfileHandler) Upsert(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	var req validation.ProfileInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if errs := req.Validate(); !errs.OK() {
		return Fail(c, http.StatusBadRequest, "Validation failed", errs)
	}

	profile := model.Profile{
		UserID:         user.ID,
		Handle:         strings.TrimSpace(req.Handle),
		Status:         strings.TrimSpace(req.Status),
		Skills:         splitCSV(req.Skills),
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		GitHubUsername: req.GitHubUsername,
		Social: model.Social{
			YouTube: req.YouTube, Twitter: req.Twitter, Facebook: req.Facebook,
			LinkedIn: req.LinkedIn, Instagram: req.Instagram,
		},
	}
	created, err := h.Profiles.Upsert(c.Request().Context(), &profile)
	if err != nil {
		if errors.Is(err, repository.ErrHandleExists) {
			return Fail(c, http.StatusBadRequest, "That handle already exists",
				map[string]string{"handle": "That handle already exists"})
		}
		return err
	}

	// Reload with joined user and children for the response.
	full, err := h.Profiles.GetByUserID(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	if created {
		return OK(c, http.StatusCreated, "Profile created successfully", map[string]any{"profile": full})
	}
	return OK(c, http.StatusOK, "Profile updated successfully", map[string]any{"profile": full})
}

// List handles GET /api/profile/all.
func (h *ProfileHandler) List(c echo.Context) error {
	profiles, err := h.Profiles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, "All profiles fetched successfully", map[string]any{"profiles": profiles})
}

// Search handles GET /api/profile/search?skill=&location= and filters the
// public listing by skill and location substring.
func (h *ProfileHandler) Search(c echo.Context) error {
	profiles, err := h.Profiles.Search(c.Request().Context(),
		c.QueryParam("skill"), c.QueryParam("location"))
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, "Profiles fetched successfully", map[string]any{"profiles": profiles})
}

// GetByHandle handles GET /api/profile/handle/:handle.
func (h *ProfileHandler) GetByHandle(c echo.Context) error {
	profile, err := h.Profiles.GetByHandle(c.Request().Context(), c.Param("handle"))
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return Fail(c, http.StatusNotFound, "Profile not found", nil)
		}
		return err
	}
	return OK(c, http.StatusOK, "Profile fetched successfully", map[string]any{"profile": profile})
}

// GetByUserID handles GET /api/profile/user/:user_id. A non-numeric id is
// reported as not found, matching the by-id lookup semantics elsewhere.
func (h *ProfileHandler) GetByUserID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		return Fail(c, http.StatusNotFound, "Profile not found (invalid ID format)", nil)
	}
	profile, err := h.Profiles.GetByUserID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return Fail(c, http.StatusNotFound, "Profile not found", nil)
		}
		return err
	}
	return OK(c, http.StatusOK, "Profile fetched successfully", map[string]any{"profile": profile})
}

// AddExperience handles POST /api/profile/experience.
func (h *ProfileHandler) AddExperience(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	var req validation.ExperienceInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if errs := req.Validate(); !errs.OK() {
		return Fail(c, http.StatusBadRequest, "Validation failed", errs)
	}

	entry := model.Experience{
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Location:    req.Location,
		Current:     req.Current,
		Description: req.Description,
	}
	entry.From, _ = validation.ParseDate(req.From)
	if to := strings.TrimSpace(req.To); to != "" {
		t, _ := validation.ParseDate(to)
		entry.To = &t
	}
	if err := h.Profiles.AddExperience(c.Request().Context(), user.ID, &entry); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return Fail(c, http.StatusNotFound, "Profile not found for this user", nil)
		}
		return err
	}
	return h.respondWithProfile(c, http.StatusCreated, "Experience added successfully", user.ID)
}

// DeleteExperience handles DELETE /api/profile/experience/:exp_id.
func (h *ProfileHandler) DeleteExperience(c echo.Context) error {
	return h.deleteEntry(c, "experience", func(userID, entryID uint64) error {
		return h.Profiles.DeleteExperience(c.Request().Context(), userID, entryID)
	}, "exp_id", "Experience")
}

// AddEducation handles POST /api/profile/education.
func (h *ProfileHandler) AddEducation(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	var req validation.EducationInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if errs := req.Validate(); !errs.OK() {
		return Fail(c, http.StatusBadRequest, "Validation failed", errs)
	}

	entry := model.Education{
		School:       strings.TrimSpace(req.School),
		Degree:       strings.TrimSpace(req.Degree),
		FieldOfStudy: strings.TrimSpace(req.FieldOfStudy),
		Current:      req.Current,
		Description:  req.Description,
	}
	entry.From, _ = validation.ParseDate(req.From)
	if to := strings.TrimSpace(req.To); to != "" {
		t, _ := validation.ParseDate(to)
		entry.To = &t
	}
	if err := h.Profiles.AddEducation(c.Request().Context(), user.ID, &entry); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return Fail(c, http.StatusNotFound, "Profile not found for this user", nil)
		}
		return err
	}
	return h.respondWithProfile(c, http.StatusCreated, "Education added successfully", user.ID)
}

// DeleteEducation handles DELETE /api/profile/education/:edu_id.
func (h *ProfileHandler) DeleteEducation(c echo.Context) error {
	return h.deleteEntry(c, "education", func(userID, entryID uint64) error {
		return h.Profiles.DeleteEducation(c.Request().Context(), userID, entryID)
	}, "edu_id", "Education")
}

// DeleteAccount handles DELETE /api/profile: it removes the caller's
// posts, profile and credential record, in that order. The three deletes
// are independent; a crash in between leaves orphaned rows (no
// compensating rollback).
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	ctx := c.Request().Context()
	if err := h.Posts.DeleteByUser(ctx, user.ID); err != nil {
		return err
	}
	if err := h.Profiles.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}
	if err := h.Users.Delete(ctx, user.ID); err != nil {
		return err
	}
	h.Log.Info("account deleted", "user_id", user.ID)
	return OK(c, http.StatusOK, "User, profile, and posts deleted successfully", nil)
}

func (h *ProfileHandler) deleteEntry(c echo.Context, kind string, del func(userID, entryID uint64) error, param, label string) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		return Fail(c, http.StatusNotFound, label+" not found", nil)
	}
	if err := del(user.ID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrProfileNotFound):
			return Fail(c, http.StatusNotFound, "Profile not found", nil)
		case errors.Is(err, repository.ErrEntryNotFound):
			return Fail(c, http.StatusNotFound, label+" not found", nil)
		}
		return err
	}
	return h.respondWithProfile(c, http.StatusOK, label+" deleted successfully", user.ID)
}

func (h *ProfileHandler) respondWithProfile(c echo.Context, status int, message string, userID uint64) error {
	profile, err := h.Profiles.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return OK(c, status, message, map[string]any{"profile": profile})
}

func splitCSV(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
