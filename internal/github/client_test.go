package github

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClientAgainst(t *testing.T, handler http.HandlerFunc, rdb *redis.Client) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("", rdb, time.Minute, testLogger())
	c.BaseURL = srv.URL
	return c
}

func TestReposFetchesFiveNewest(t *testing.T) {
	var gotPath, gotQuery string
	c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]Repo{
			{ID: 1, Name: "devconnector", Stargazers: 12},
		})
	}, nil)

	repos, err := c.Repos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	require.Equal(t, "devconnector", repos[0].Name)
	require.Equal(t, "/users/octocat/repos", gotPath)
	require.Contains(t, gotQuery, "per_page=5")
	require.Contains(t, gotQuery, "sort=created")
}

func TestReposUserNotFound(t *testing.T) {
	c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	_, err := c.Repos(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestReposUpstreamFailure(t *testing.T) {
	c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	_, err := c.Repos(context.Background(), "octocat")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestReposServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	var calls atomic.Int32
	c := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode([]Repo{{ID: 1, Name: "cached-repo"}})
	}, rdb)

	for i := 0; i < 3; i++ {
		repos, err := c.Repos(context.Background(), "octocat")
		require.NoError(t, err)
		require.Equal(t, "cached-repo", repos[0].Name)
	}
	require.Equal(t, int32(1), calls.Load())

	// Expired cache entries trigger a refetch.
	mr.FastForward(2 * time.Minute)
	_, err := c.Repos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}
