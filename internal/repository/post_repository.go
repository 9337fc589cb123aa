package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arlen/devconnector/internal/model"
)

// ErrPostNotFound is returned when no post row matches the lookup.
var ErrPostNotFound = errors.New("post not found")

// ErrCommentNotFound is returned when a comment does not exist under the
// given post.
var ErrCommentNotFound = errors.New("comment not found")

// ErrAlreadyLiked is returned when a user likes a post twice.
var ErrAlreadyLiked = errors.New("post already liked")

// ErrNotLiked is returned when a user unlikes a post they never liked.
var ErrNotLiked = errors.New("post not liked")

// PostRepo persists feed posts with their likes and comments.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// Create inserts a post with the author snapshot and returns it.
func (r *PostRepo) Create(ctx context.Context, userID uint64, text, name, avatar string) (model.Post, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (user_id, text, name, avatar, created_at) VALUES (?,?,?,?,?)",
		userID, text, name, avatar, now)
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	return model.Post{
		ID: uint64(id), UserID: userID, Text: text, Name: name, Avatar: avatar,
		Likes: []model.Like{}, Comments: []model.Comment{}, CreatedAt: now,
	}, nil
}

// List returns every post, newest first, with likes and comments loaded.
func (r *PostRepo) List(ctx context.Context) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,text,name,avatar,created_at FROM posts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadChildren(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetByID fetches one post with likes and comments.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,text,name,avatar,created_at FROM posts WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, err
	}
	if err := r.loadChildren(ctx, &p); err != nil {
		return model.Post{}, err
	}
	return p, nil
}

// Delete removes a post and its likes/comments.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM post_likes WHERE post_id=?", id); err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM post_comments WHERE post_id=?", id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	return err
}

// DeleteByUser removes all posts authored by the user, as part of the
// account cascade. Likes and comments left by the user on other posts are
// removed as well.
func (r *PostRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	rows, err := r.DB.QueryContext(ctx, "SELECT id FROM posts WHERE user_id=?", userID)
	if err != nil {
		return err
	}
	ids := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM post_likes WHERE user_id=?", userID); err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM post_comments WHERE user_id=?", userID)
	return err
}

// Like records that the user liked the post and returns the refreshed
// like list. Liking twice yields ErrAlreadyLiked.
func (r *PostRepo) Like(ctx context.Context, postID, userID uint64) ([]model.Like, error) {
	if err := r.exists(ctx, postID); err != nil {
		return nil, err
	}
	_, err := r.DB.ExecContext(ctx, "INSERT INTO post_likes (post_id, user_id) VALUES (?,?)", postID, userID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return r.likes(ctx, postID)
}

// Unlike removes the user's like and returns the refreshed like list.
// Unliking a post never liked yields ErrNotLiked.
func (r *PostRepo) Unlike(ctx context.Context, postID, userID uint64) ([]model.Like, error) {
	if err := r.exists(ctx, postID); err != nil {
		return nil, err
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM post_likes WHERE post_id=? AND user_id=?", postID, userID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotLiked
	}
	return r.likes(ctx, postID)
}

// AddComment attaches a comment with the author snapshot and returns the
// refreshed comment list, newest first.
func (r *PostRepo) AddComment(ctx context.Context, postID, userID uint64, text, name, avatar string) ([]model.Comment, error) {
	if err := r.exists(ctx, postID); err != nil {
		return nil, err
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO post_comments (post_id, user_id, text, name, avatar, created_at) VALUES (?,?,?,?,?,?)",
		postID, userID, text, name, avatar, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return r.comments(ctx, postID)
}

// GetComment fetches a single comment under a post so handlers can check
// ownership before deleting it.
func (r *PostRepo) GetComment(ctx context.Context, postID, commentID uint64) (model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,post_id,user_id,text,name,avatar,created_at FROM post_comments WHERE id=? AND post_id=? LIMIT 1",
		commentID, postID).
		Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, ErrCommentNotFound
	}
	return c, err
}

// DeleteComment removes a comment and returns the refreshed comment list.
func (r *PostRepo) DeleteComment(ctx context.Context, postID, commentID uint64) ([]model.Comment, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM post_comments WHERE id=? AND post_id=?", commentID, postID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrCommentNotFound
	}
	return r.comments(ctx, postID)
}

func (r *PostRepo) exists(ctx context.Context, postID uint64) error {
	var id uint64
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM posts WHERE id=? LIMIT 1", postID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	return err
}

func (r *PostRepo) loadChildren(ctx context.Context, p *model.Post) error {
	likes, err := r.likes(ctx, p.ID)
	if err != nil {
		return err
	}
	comments, err := r.comments(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Likes, p.Comments = likes, comments
	return nil
}

func (r *PostRepo) likes(ctx context.Context, postID uint64) ([]model.Like, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT user_id FROM post_likes WHERE post_id=? ORDER BY user_id", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Like{}
	for rows.Next() {
		var l model.Like
		if err := rows.Scan(&l.UserID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostRepo) comments(ctx context.Context, postID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,post_id,user_id,text,name,avatar,created_at FROM post_comments WHERE post_id=? ORDER BY created_at DESC, id DESC",
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
