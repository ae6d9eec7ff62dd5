package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// refreshToken renews the access token with single-flight coalescing.
//
// The first caller becomes the leader: it performs exactly one reissue call
// and settles every waiter queued meanwhile with the shared outcome. A
// waiter whose context ends stops waiting, but the in-flight renewal always
// runs to completion for everyone else.
//
// On success the new token is stored (and broadcast) before waiters are
// released; on failure the store is cleared, which forces the logout
// redirect, and all waiters see the same error.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	if !c.enableRefresh {
		return "", ErrRefreshDisabled
	}

	c.refreshMu.Lock()
	if c.inFlight {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		c.refreshMu.Unlock()
		select {
		case r := <-ch:
			return r.token, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c.inFlight = true
	c.refreshMu.Unlock()

	token, err := c.requestNewToken(ctx)
	if err != nil {
		c.store.Clear()
	} else {
		c.store.Set(token)
	}

	c.refreshMu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.inFlight = false
	c.refreshMu.Unlock()

	for _, w := range waiters {
		w <- refreshResult{token: token, err: err}
	}
	return token, err
}

// requestNewToken performs the actual reissue call, presenting the current
// (possibly stale) token so the server can re-sign the same identity. It is
// detached from the leader's cancellation so one caller cannot abort a
// renewal other waiters depend on; the HTTP client timeout still bounds it.
func (c *Client) requestNewToken(ctx context.Context) (string, error) {
	stale := c.store.Get()
	resp, err := c.send(context.WithoutCancel(ctx), http.MethodPost, ReissuePath, []byte("{}"), stale, stale == "")
	if err != nil {
		return "", fmt.Errorf("apiclient: reissue request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("apiclient: reissue read: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", &APIError{Status: resp.StatusCode}
	}

	// The server replies {data:{accessToken}} or a bare {accessToken}.
	var env struct {
		AccessToken string `json:"accessToken"`
		Data        struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("apiclient: reissue decode: %w", err)
	}
	token := env.Data.AccessToken
	if token == "" {
		token = env.AccessToken
	}
	if token == "" {
		return "", ErrReissueMissingToken
	}
	return token, nil
}
