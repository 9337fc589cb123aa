package api

import (
	"context"
	"net/http"
	"time"
)

// Wire types mirror the server's JSON payloads. The client keeps its own
// copies so it never imports server internals.

// User is the authenticated account as returned by the server.
type User struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Comment is one comment on a post.
type Comment struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is one entry in the public feed.
type Post struct {
	ID     uint64 `json:"id"`
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Text   string `json:"text"`
	Likes  []struct {
		UserID uint64 `json:"user_id"`
	} `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register creates an account and returns the new user.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/register", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login exchanges credentials for a bearer token. The caller owns
// persisting it; the client keeps no state.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	in := map[string]string{"email": email, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// CurrentUser fetches the account behind the attached token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/current", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Feed returns all posts, newest first.
func (c *Client) Feed(ctx context.Context) ([]Post, error) {
	var out struct {
		Posts []Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// CreatePost publishes a post authored by the current user.
func (c *Client) CreatePost(ctx context.Context, text string) (*Post, error) {
	in := map[string]string{"text": text}
	var out struct {
		Post Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts", in, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// DeleteAccount removes the current user together with their profile and
// posts.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/profile", nil, nil)
}
