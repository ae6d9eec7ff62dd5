// Package apiclient is the authorizing HTTP pipeline between a dashboard
// context and the monitoring API: it attaches the bearer credential, renews
// the token ahead of expiry, coalesces concurrent renewals into one network
// call, and retries a request exactly once after an authorization failure.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"hydrogen-dashboard/pkg/authclaims"
	"hydrogen-dashboard/pkg/authtoken"
)

// Auth endpoints. Requests to these paths are sent unauthenticated and never
// trigger renewal; the match is a case-insensitive substring check.
const (
	LoginPath   = "/user/login"
	LogoutPath  = "/user/logout"
	ReissuePath = "/reissue"
	ProfilePath = "/user/profile"
)

var authPaths = []string{LoginPath, LogoutPath, ReissuePath}

const (
	// DefaultTimeout bounds every request, including a hung reissue call
	// that waiters are blocked on.
	DefaultTimeout = 10 * time.Second

	// DefaultRefreshMargin is how close to expiry a token may get before a
	// request proactively renews it.
	DefaultRefreshMargin = 30 * time.Second
)

var (
	// ErrRefreshDisabled is returned when a renewal is attempted while the
	// refresh feature flag is off.
	ErrRefreshDisabled = errors.New("apiclient: token refresh disabled")

	// ErrReissueMissingToken is returned for a malformed reissue reply.
	ErrReissueMissingToken = errors.New("apiclient: reissue response missing accessToken")
)

// APIError is a non-2xx reply from the monitoring API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apiclient: server returned %d", e.Status)
	}
	return fmt.Sprintf("apiclient: server returned %d: %s", e.Status, e.Message)
}

// Config controls the pipeline. Zero durations fall back to the defaults.
type Config struct {
	BaseURL       string
	EnableRefresh bool
	RefreshMargin time.Duration
	Timeout       time.Duration
}

// Client is the authorizing HTTP client. Safe for concurrent use.
type Client struct {
	baseURL       string
	http          *http.Client
	store         *authtoken.Store
	enableRefresh bool
	margin        time.Duration
	log           *slog.Logger
	now           func() time.Time

	// Renewal state machine: idle, or one renewal in flight with a queue of
	// waiters that all settle together with the shared outcome.
	refreshMu sync.Mutex
	inFlight  bool
	waiters   []chan refreshResult
}

type refreshResult struct {
	token string
	err   error
}

func New(cfg Config, store *authtoken.Store, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RefreshMargin <= 0 {
		cfg.RefreshMargin = DefaultRefreshMargin
	}
	c := &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		http:          &http.Client{Timeout: cfg.Timeout},
		store:         store,
		enableRefresh: cfg.EnableRefresh,
		margin:        cfg.RefreshMargin,
		log:           slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithHTTPClient swaps the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithClock swaps the expiry clock (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Get issues an authorized GET and decodes the (possibly enveloped) reply.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// Post issues an authorized POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, http.MethodPost, path, in, out)
}

// Put issues an authorized PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, http.MethodPut, path, in, out)
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = b
	}
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// Do runs the full pipeline for one request and returns the raw response.
// The caller owns the response body.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	skip := skipAuth(path)
	token := c.store.Get()

	// Proactive renewal: refresh before the token goes stale mid-request.
	// With the flag off, a stale token is attached verbatim.
	if !skip && c.enableRefresh && token != "" && c.expiringSoon(token) {
		fresh, err := c.refreshToken(ctx)
		if err != nil {
			return nil, err
		}
		token = fresh
	}

	resp, err := c.send(ctx, method, path, body, token, skip)
	if err != nil {
		return nil, err
	}
	if skip || !c.enableRefresh || !isAuthExpired(resp.StatusCode) {
		return resp, nil
	}

	// Reactive renewal: one renew-and-resend per request. A second
	// authorization failure, or a failed renewal, surfaces the original
	// response unchanged (the store is already cleared on renewal failure).
	fresh, rerr := c.refreshToken(ctx)
	if rerr != nil {
		c.log.Warn("token renewal after auth failure failed", "path", path, "err", rerr)
		return resp, nil
	}
	resp.Body.Close()
	return c.send(ctx, method, path, body, fresh, false)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, token string, skip bool) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !skip && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

func (c *Client) expiringSoon(token string) bool {
	claims, err := authclaims.Decode(token)
	if err != nil {
		// Unusable claims count as already expired.
		return true
	}
	return claims.ExpiresWithin(c.now(), c.margin)
}

func skipAuth(path string) bool {
	p := strings.ToLower(path)
	for _, ep := range authPaths {
		if strings.Contains(p, ep) {
			return true
		}
	}
	return false
}

// isAuthExpired covers 401 plus the legacy 419/440 "session expired"
// statuses some upstream deployments emit.
func isAuthExpired(status int) bool {
	return status == http.StatusUnauthorized || status == 419 || status == 440
}

// decode drains the response and fills out. Error replies become *APIError
// with the envelope message when one is present.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var env struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.Unmarshal(body, &env)
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return Unwrap(body, out)
}

// Unwrap decodes a reply that is either wrapped as {success, data} or sent
// as a bare payload.
func Unwrap(body []byte, out any) error {
	var env struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(body, out)
}
