package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/queue"
	"github.com/arlen/devconnector/internal/repository"
	"github.com/arlen/devconnector/internal/service"
	"github.com/arlen/devconnector/internal/validation"
)

// PostHandler bundles dependencies for the public feed and its
// like/comment operations.
type PostHandler struct {
	Posts  *repository.PostRepo
	Events *service.Publisher
	Log    *slog.Logger
}

func NewPostHandler(posts *repository.PostRepo, events *service.Publisher, log *slog.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Events: events, Log: log}
}

// List handles GET /api/posts: the public feed, newest first.
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.Posts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, "Posts fetched successfully", map[string]any{"posts": posts})
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c echo.Context) error {
	id, ok := h.postID(c)
	if !ok {
		return Fail(c, http.StatusNotFound, "Post not found (invalid ID format)", nil)
	}
	post, err := h.Posts.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return Fail(c, http.StatusNotFound, "Post not found", nil)
		}
		return err
	}
	return OK(c, http.StatusOK, "Post fetched successfully", map[string]any{"post": post})
}

// Create handles POST /api/posts. The author snapshot comes from the
// verified identity, never from the payload.
func (h *PostHandler) Create(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	var req validation.PostInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if errs := req.Validate(); !errs.OK() {
		return Fail(c, http.StatusBadRequest, "Validation failed", errs)
	}

	post, err := h.Posts.Create(c.Request().Context(), user.ID, req.Text, user.Name, user.Avatar)
	if err != nil {
		return err
	}

	// Fire-and-forget; a broker outage never fails a post.
	h.Events.PostCreated(c.Request().Context(), queue.PostCreatedEvent{
		PostID: post.ID, UserID: user.ID, Name: user.Name,
	})

	return OK(c, http.StatusCreated, "Post created successfully", map[string]any{"post": post})
}

// Delete handles DELETE /api/posts/:id; only the author may delete.
func (h *PostHandler) Delete(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	id, ok := h.postID(c)
	if !ok {
		return Fail(c, http.StatusNotFound, "Post not found (invalid ID format)", nil)
	}
	post, err := h.Posts.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return Fail(c, http.StatusNotFound, "Post not found", nil)
		}
		return err
	}
	if post.UserID != user.ID {
		return Fail(c, http.StatusUnauthorized, "User not authorized to delete this post", nil)
	}
	if err := h.Posts.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return OK(c, http.StatusOK, "Post removed successfully", nil)
}

// Like handles POST /api/posts/like/:id. Liking twice is rejected.
func (h *PostHandler) Like(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	id, ok := h.postID(c)
	if !ok {
		return Fail(c, http.StatusNotFound, "Post not found (invalid ID format)", nil)
	}
	likes, err := h.Posts.Like(c.Request().Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			return Fail(c, http.StatusNotFound, "Post not found", nil)
		case errors.Is(err, repository.ErrAlreadyLiked):
			return Fail(c, http.StatusBadRequest, "Post already liked by this user", nil)
		}
		return err
	}
	return OK(c, http.StatusOK, "Post liked successfully", map[string]any{"likes": likes})
}

// Unlike handles POST /api/posts/unlike/:id.
func (h *PostHandler) Unlike(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	id, ok := h.postID(c)
	if !ok {
		return Fail(c, http.StatusNotFound, "Post not found (invalid ID format)", nil)
	}
	likes, err := h.Posts.Unlike(c.Request().Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			return Fail(c, http.StatusNotFound, "Post not found", nil)
		case errors.Is(err, repository.ErrNotLiked):
			return Fail(c, http.StatusBadRequest, "Post has not yet been liked by this user", nil)
		}
		return err
	}
	return OK(c, http.StatusOK, "Post unliked successfully", map[string]any{"likes": likes})
}

// Comment handles POST /api/posts/comment/:id. Comment text follows the
// same length rules as post text.
func (h *PostHandler) Comment(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	id, ok := h.postID(c)
	if !ok {
		return Fail(c, http.StatusNotFound, "Post not found (invalid ID format)", nil)
	}
	var req validation.PostInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if errs := req.Validate(); !errs.OK() {
		return Fail(c, http.StatusBadRequest, "Comment validation failed", errs)
	}

	comments, err := h.Posts.AddComment(c.Request().Context(), id, user.ID, req.Text, user.Name, user.Avatar)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return Fail(c, http.StatusNotFound, "Post not found", nil)
		}
		return err
	}
	return OK(c, http.StatusCreated, "Comment added successfully", map[string]any{"comments": comments})
}

// DeleteComment handles DELETE /api/posts/comment/:id/:comment_id; only
// the comment's author may delete it.
func (h *PostHandler) DeleteComment(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return Fail(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	postID, ok := h.postID(c)
	if !ok {
		return Fail(c, http.StatusNotFound, "Post not found (invalid ID format)", nil)
	}
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		return Fail(c, http.StatusNotFound, "Comment does not exist", nil)
	}

	if _, err := h.Posts.GetByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return Fail(c, http.StatusNotFound, "Post not found", nil)
		}
		return err
	}
	comment, err := h.Posts.GetComment(c.Request().Context(), postID, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return Fail(c, http.StatusNotFound, "Comment does not exist", nil)
		}
		return err
	}
	if comment.UserID != user.ID {
		return Fail(c, http.StatusUnauthorized, "User not authorized to delete this comment", nil)
	}

	comments, err := h.Posts.DeleteComment(c.Request().Context(), postID, commentID)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, "Comment deleted successfully", map[string]any{"comments": comments})
}

func (h *PostHandler) postID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}
