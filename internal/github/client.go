// Package github fetches a user's public repositories for display on
// their profile. Responses are cached in Redis so repeated profile views
// stay within the GitHub API rate limits.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUserNotFound is returned when GitHub does not know the username.
var ErrUserNotFound = errors.New("github user not found")

// ErrUpstream is returned for any other GitHub API failure.
var ErrUpstream = errors.New("github api unavailable")

// Repo is the subset of repository fields rendered on a profile.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stargazers  int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}

// Client talks to the GitHub REST API with an optional Redis cache in
// front. A nil Redis client disables caching.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Token   string // optional; raises the unauthenticated rate limit
	Redis   *redis.Client
	TTL     time.Duration
	Log     *slog.Logger
}

// New builds a Client with sane defaults; rdb may be nil.
func New(token string, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		BaseURL: "https://api.github.com",
		Token:   token,
		Redis:   rdb,
		TTL:     ttl,
		Log:     log,
	}
}

// Repos returns the user's five most recently created public
// repositories, serving from cache when possible.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	key := "gh:repos:" + username
	if c.Redis != nil {
		if raw, err := c.Redis.Get(ctx, key).Bytes(); err == nil {
			var cached []Repo
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created&direction=desc",
		c.BaseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		c.Log.Warn("github api error", "status", resp.StatusCode, "username", username)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if c.Redis != nil {
		if raw, err := json.Marshal(repos); err == nil {
			if err := c.Redis.Set(ctx, key, raw, c.TTL).Err(); err != nil {
				c.Log.Warn("github cache write failed", "error", err)
			}
		}
	}
	return repos, nil
}
