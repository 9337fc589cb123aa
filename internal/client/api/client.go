// Package api is the HTTP client for the DevConnector server. Every
// request goes through one interceptor that attaches the stored bearer
// token, retries transient failures with exponential backoff and
// normalizes error payloads into tagged errors. A 401 anywhere fires the
// registered unauthorized hook so the session can tear itself down no
// matter which caller made the request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// The client session implements it on top of durable storage.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource returning a fixed token, used to override
// the stored one.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

const (
	defaultMaxRetries = 3
	defaultRetryBase  = time.Second
	defaultTimeout    = 10 * time.Second
)

// Client issues requests against one server. It is safe for concurrent
// use once configured.
type Client struct {
	base           string
	http           *http.Client
	tokens         TokenSource
	maxRetries     int
	retryBase      time.Duration
	onUnauthorized func()
	sleep          func(time.Duration) // swapped out in tests
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithRetryPolicy overrides the retry budget and base backoff delay.
func WithRetryPolicy(maxRetries int, base time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryBase = base
	}
}

// New builds a Client for the given base URL, e.g. "http://localhost:8080".
// tokens may be nil for a client that only calls public endpoints.
func New(base string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		base:       base,
		http:       &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
		maxRetries: defaultMaxRetries,
		retryBase:  defaultRetryBase,
		sleep:      time.Sleep,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetUnauthorizedHook registers the callback fired on every 401
// response. The hook must not issue requests through this client.
func (c *Client) SetUnauthorizedHook(fn func()) { c.onUnauthorized = fn }

// envelope mirrors the server's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// do runs one logical request through the interceptor: token attach,
// transparent retry for no-response/5xx, envelope decode into out, and
// error normalization for everything else.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, method, path, payload)
		if err != nil {
			lastErr = &Error{Kind: KindTransient, Message: err.Error()}
		} else if resp.status >= 500 {
			lastErr = c.normalize(resp)
		} else {
			return c.finish(resp, out)
		}

		if attempt >= c.maxRetries {
			return lastErr
		}
		delay := c.retryBase * (1 << attempt) // base × 2^attempt
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.sleep(delay)
	}
}

type response struct {
	status int
	body   []byte
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &response{status: resp.StatusCode, body: raw}, nil
}

// finish handles a non-5xx response: success decodes the data payload,
// failure normalizes the error and fires the 401 hook when applicable.
func (c *Client) finish(resp *response, out any) error {
	if resp.status >= 200 && resp.status < 300 {
		if out == nil {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(resp.body, &env); err != nil {
			return &Error{Kind: KindServer, Status: resp.status, Message: "malformed response"}
		}
		if len(env.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindServer, Status: resp.status, Message: "malformed response payload"}
		}
		return nil
	}

	apiErr := c.normalize(resp)
	if apiErr.Kind == KindUnauthenticated && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return apiErr
}

// normalize folds the server's error payload shapes (field map, string,
// absent) into one tagged Error.
func (c *Client) normalize(resp *response) *Error {
	apiErr := &Error{Status: resp.status}
	switch {
	case resp.status == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthenticated
	case resp.status == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case resp.status >= 500:
		apiErr.Kind = KindServer
	default:
		apiErr.Kind = KindValidation
	}

	var env envelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		apiErr.Message = http.StatusText(resp.status)
		return apiErr
	}
	apiErr.Message = env.Message
	if len(env.Error) > 0 {
		var fields map[string]string
		if json.Unmarshal(env.Error, &fields) == nil {
			apiErr.Fields = fields
		}
	}
	return apiErr
}
