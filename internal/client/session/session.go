package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/arlen/devconnector/internal/client/api"
)

// State is the session's position in the authentication lifecycle.
type State int

const (
	// StateAnonymous means no credentials are held.
	StateAnonymous State = iota
	// StatePending means a login call is in flight.
	StatePending
	// StateAuthenticated means a token is held and believed valid.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// ErrNotAuthenticated is returned by operations that need a session
// token when none is held.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrLoginInProgress is returned when Login is called while another
// login is already pending.
var ErrLoginInProgress = errors.New("login already in progress")

// authClient is the slice of the API client the session needs. Narrow so
// tests can substitute a fake.
type authClient interface {
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context) (*api.User, error)
}

// Session is the client-side authentication state machine. All state
// transitions happen under the mutex; network calls never do. The epoch
// counter increments on every logout so a slow login or verify that
// completes after a logout finds a changed epoch and discards its result
// instead of resurrecting the old session.
type Session struct {
	mu    sync.Mutex
	state State
	user  *api.User
	token string
	epoch uint64

	store  TokenStore
	client authClient
	log    *slog.Logger
}

// New builds a Session over the given token store. client may be nil
// when the real API client is attached afterwards with Wire; that covers
// the circular construction where the client's token source is the
// session itself.
func New(store TokenStore, client authClient, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{store: store, client: client, log: log}
}

// Wire attaches the API client to the session and registers the session
// as the client's unauthorized hook, so any 401 the client sees logs the
// session out. Call once after constructing both.
func (s *Session) Wire(c *api.Client) {
	s.client = c
	c.SetUnauthorizedHook(func() { s.Logout() })
}

// Token returns the bearer token for outgoing requests: the in-memory
// copy when present, otherwise the stored one. Implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	tok := s.token
	s.mu.Unlock()
	if tok != "" {
		return tok
	}
	stored, err := s.store.Load()
	if err != nil {
		s.log.Warn("token load failed", "error", err)
		return ""
	}
	return stored
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the cached account, nil when none is loaded.
func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Hydrate loads a previously stored token into memory and marks the
// session authenticated without contacting the server. Callers follow up
// with Verify to confirm the token still works.
func (s *Session) Hydrate() error {
	tok, err := s.store.Load()
	if err != nil {
		return err
	}
	if tok == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnonymous {
		return nil
	}
	s.token = tok
	s.state = StateAuthenticated
	return nil
}

// Login exchanges credentials for a token, persists it and loads the
// account. The session is Pending for the duration of the call; a logout
// arriving meanwhile bumps the epoch and the completed login is dropped.
func (s *Session) Login(ctx context.Context, email, password string) (*api.User, error) {
	s.mu.Lock()
	if s.state == StatePending {
		s.mu.Unlock()
		return nil, ErrLoginInProgress
	}
	prev := s.state
	s.state = StatePending
	epoch := s.epoch
	s.mu.Unlock()

	tok, err := s.client.Login(ctx, email, password)

	s.mu.Lock()
	if s.epoch != epoch {
		// Logged out while the call was in flight; discard the result.
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		s.state = prev
		s.mu.Unlock()
		return nil, err
	}
	s.token = tok
	s.state = StateAuthenticated
	s.mu.Unlock()

	if err := s.store.Save(tok); err != nil {
		s.log.Warn("token persist failed", "error", err)
	}
	return s.loadUser(ctx, epoch)
}

// Logout clears the token from memory and storage and returns the
// session to Anonymous. Safe to call in any state, any number of times,
// including from the client's unauthorized hook.
func (s *Session) Logout() {
	s.mu.Lock()
	s.epoch++
	s.state = StateAnonymous
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.log.Warn("token clear failed", "error", err)
	}
}

// Verify confirms the held token against the server. Without force, a
// session that already has its user loaded is trusted and no request is
// made. An unauthenticated answer logs the session out; a transient
// failure leaves the state untouched so the next cycle retries.
func (s *Session) Verify(ctx context.Context, force bool) (*api.User, error) {
	s.mu.Lock()
	if !force && s.state == StateAuthenticated && s.user != nil {
		u := s.user
		s.mu.Unlock()
		return u, nil
	}
	epoch := s.epoch
	s.mu.Unlock()

	if s.Token() == "" {
		s.Logout()
		return nil, ErrNotAuthenticated
	}
	return s.loadUser(ctx, epoch)
}

// loadUser fetches the current account and applies it if the session has
// not moved on since epoch was captured.
func (s *Session) loadUser(ctx context.Context, epoch uint64) (*api.User, error) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		if api.IsUnauthenticated(err) {
			// The client's unauthorized hook usually beats us here;
			// Logout is idempotent so calling it again is harmless.
			s.Logout()
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil, ErrNotAuthenticated
	}
	s.user = user
	s.state = StateAuthenticated
	return user, nil
}
