package handler_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/arlen/devconnector/internal/config"
	"github.com/arlen/devconnector/internal/github"
	"github.com/arlen/devconnector/internal/handler"
	"github.com/arlen/devconnector/internal/middleware"
	"github.com/arlen/devconnector/internal/repository"
	"github.com/arlen/devconnector/internal/router"
	"github.com/arlen/devconnector/internal/service"
)

const schema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	avatar TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE,
	handle TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL,
	skills TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	github_username TEXT NOT NULL DEFAULT '',
	youtube TEXT NOT NULL DEFAULT '',
	twitter TEXT NOT NULL DEFAULT '',
	facebook TEXT NOT NULL DEFAULT '',
	linkedin TEXT NOT NULL DEFAULT '',
	instagram TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE experiences (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	company TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	from_date TIMESTAMP NOT NULL,
	to_date TIMESTAMP,
	current INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE educations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id INTEGER NOT NULL,
	school TEXT NOT NULL,
	degree TEXT NOT NULL,
	field_of_study TEXT NOT NULL,
	from_date TIMESTAMP NOT NULL,
	to_date TIMESTAMP,
	current INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	text TEXT NOT NULL,
	name TEXT NOT NULL,
	avatar TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE post_likes (
	post_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	UNIQUE (post_id, user_id)
);
CREATE TABLE post_comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	text TEXT NOT NULL,
	name TEXT NOT NULL,
	avatar TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
`

// testAPI is a fully wired server over an in-memory database, with the
// Redis-backed middleware replaced by pass-throughs.
type testAPI struct {
	e        *echo.Echo
	db       *sql.DB
	cfg      config.Config
	users    *repository.UserRepo
	profiles *repository.ProfileRepo
	posts    *repository.PostRepo
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(schema)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Env:          "test",
		JWTSecret:    "test-secret",
		AccessTTLMin: 60,
		BcryptCost:   bcrypt.MinCost,
	}

	api := &testAPI{
		e:        echo.New(),
		db:       db,
		cfg:      cfg,
		users:    repository.NewUserRepo(db),
		profiles: repository.NewProfileRepo(db),
		posts:    repository.NewPostRepo(db),
	}
	api.e.HideBanner = true
	api.e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log, false)

	events := service.NewPublisher("", log)
	auth := handler.NewAuthHandler(cfg, api.users, events, log)
	profiles := handler.NewProfileHandler(api.profiles, api.posts, api.users, log)
	posts := handler.NewPostHandler(api.posts, events, log)
	gh := handler.NewGitHubHandler(github.New("", nil, 0, log))

	mw := router.Middlewares{
		Auth:      middleware.JWTAuth(cfg.JWTSecret, api.users),
		Cache:     passthrough,
		RateLimit: passthrough,
	}
	router.RegisterRoutes(api.e)
	router.RegisterUsers(api.e, auth, mw)
	router.RegisterProfile(api.e, profiles, gh, mw)
	router.RegisterPosts(api.e, posts, mw)
	return api
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// do issues one request against the in-process server and decodes the
// response envelope.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env),
		"body: %s", rec.Body.String())
	return rec.Code, env
}

// register creates an account and returns its login token.
func (a *testAPI) register(t *testing.T, name, email, password string) string {
	t.Helper()
	code, _ := a.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": name, "email": email, "password": password, "confirmPassword": password,
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := a.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }

// createProfile posts a minimal valid profile for the token's owner.
func (a *testAPI) createProfile(t *testing.T, token, handle string) {
	t.Helper()
	code, _ := a.do(t, http.MethodPost, "/api/profile", token, map[string]string{
		"handle": handle, "status": "Developer", "skills": "Go,SQL",
	})
	require.Equal(t, http.StatusCreated, code)
}
