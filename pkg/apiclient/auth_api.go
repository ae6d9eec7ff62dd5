package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// AuthAPI wraps the authentication endpoints of the monitoring API.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI { return &AuthAPI{c: c} }

// Profile is the normalized /user/profile payload.
type Profile struct {
	UserID int64  `json:"userId"`
	OrgID  int64  `json:"orgId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginReply tolerates the wire shapes the server has used over time: the
// token at top level or under data, as token/accessToken/Authorization.
type loginReply struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Token         string          `json:"token"`
	AccessToken   string          `json:"accessToken"`
	Authorization string          `json:"Authorization"`
	Data          json.RawMessage `json:"data"`
}

func (r loginReply) token() string {
	for _, t := range []string{r.Token, r.AccessToken, r.Authorization} {
		if t != "" {
			return t
		}
	}
	if len(r.Data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Data, &s); err == nil {
		return s
	}
	var nested loginReply
	if err := json.Unmarshal(r.Data, &nested); err == nil {
		return nested.token()
	}
	return ""
}

var ErrLoginMissingToken = errors.New("apiclient: login response missing token")

// Login authenticates and adopts the returned token into the store, which
// persists and broadcasts it to sibling contexts.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := a.c.Do(ctx, "POST", LoginPath, mustJSON(loginRequest{Email: email, Password: password}))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var reply loginReply
	if resp.StatusCode >= 400 {
		_ = json.Unmarshal(body, &reply)
		return "", &APIError{Status: resp.StatusCode, Message: reply.Message}
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", err
	}

	token := strings.TrimSpace(reply.token())
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", ErrLoginMissingToken
	}
	a.c.store.Set(token)
	return token, nil
}

// NotifyLogout tells the server the session is ending. It satisfies
// authsession.LogoutNotifier; callers ignore the error by contract.
func (a *AuthAPI) NotifyLogout(ctx context.Context) error {
	return a.c.Post(ctx, LogoutPath, struct{}{}, nil)
}

// Profile fetches the caller's profile, tolerating the {success,data}
// envelope or a bare object.
func (a *AuthAPI) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := a.c.Get(ctx, ProfilePath, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Reissue forces a token renewal through the single-flight pipeline.
func (a *AuthAPI) Reissue(ctx context.Context) (string, error) {
	return a.c.refreshToken(ctx)
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
