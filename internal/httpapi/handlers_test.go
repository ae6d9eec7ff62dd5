package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hydrogen-dashboard/internal/alarm"
	"hydrogen-dashboard/internal/auth"
	"hydrogen-dashboard/internal/config"
	"hydrogen-dashboard/internal/facility"
	"hydrogen-dashboard/internal/hydrogen"
	"hydrogen-dashboard/internal/price"
	"hydrogen-dashboard/internal/rbac"
	"hydrogen-dashboard/internal/user"

	"github.com/gin-gonic/gin"
)

type fixture struct {
	router  *gin.Engine
	manager *auth.Manager
	users   *user.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := auth.NewManager(config.AuthConfig{
		JWTSecret:      "test-secret",
		JWTIssuer:      "hydrogen-dashboard",
		AccessTokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	users := user.NewService(user.NewMemoryRepo())
	h := Handlers{
		Auth:       manager,
		Users:      users,
		Facilities: facility.NewService(facility.NewMemoryRepo()),
		Prices:     price.NewService(price.NewMemoryRepo()),
		Hydrogen:   hydrogen.NewService(hydrogen.NewMemoryRepo()),
		Alarms:     alarm.NewService(alarm.NewMemoryRepo()),
	}

	r := gin.New()
	r.POST("/user/login", h.Login)
	r.POST("/user/logout", h.Logout)
	r.POST("/reissue", h.Reissue)

	authMW := auth.RequireAccessToken(manager)
	r.GET("/user/profile", authMW, h.Profile)
	r.GET("/user/list", authMW, rbac.RequireSupervisor(), h.ListUsers)
	r.GET("/price/map", authMW, h.PriceMap)

	return &fixture{router: r, manager: manager, users: users}
}

func (f *fixture) seedUser(t *testing.T, email, password, role string) user.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), user.RegisterRequest{
		Email: email, Password: password, Name: "Operator", OrgID: 1,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.users.UpdateStatus(context.Background(), u.ID, user.StatusActive); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if role != rbac.RoleUser {
		if _, err := f.users.UpdateRole(context.Background(), u.ID, role); err != nil {
			t.Fatalf("promote: %v", err)
		}
	}
	u, err = f.users.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	return u
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "op@genau.kr", "correct-horse", rbac.RoleUser)

	w := f.do(http.MethodPost, "/user/login", "", gin.H{"email": "op@genau.kr", "password": "correct-horse"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var reply struct {
		Success bool      `json:"success"`
		Token   string    `json:"token"`
		User    user.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reply.Success || reply.Token == "" {
		t.Fatalf("reply = %+v", reply)
	}
	if reply.User.Email != "op@genau.kr" {
		t.Fatalf("user = %+v", reply.User)
	}

	claims, err := f.manager.Verify(reply.Token, time.Now())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != reply.User.ID || claims.Role != rbac.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "op@genau.kr", "correct-horse", rbac.RoleUser)

	w := f.do(http.MethodPost, "/user/login", "", gin.H{"email": "op@genau.kr", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	var reply struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Success || reply.Message == "" {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestReissueRenewsStaleToken(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "op@genau.kr", "correct-horse", rbac.RoleUser)

	stale, err := f.manager.Issue(time.Now().Add(-48*time.Hour), u.ID, u.Email, u.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := f.manager.Verify(stale, time.Now()); err == nil {
		t.Fatal("stale token should not verify")
	}

	w := f.do(http.MethodPost, "/reissue", stale, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var reply struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := f.manager.Verify(reply.Data.AccessToken, time.Now())
	if err != nil {
		t.Fatalf("fresh token verify: %v", err)
	}
	if claims.UserID != u.ID {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestReissueRejectsForeignToken(t *testing.T) {
	f := newFixture(t)

	other, err := auth.NewManager(config.AuthConfig{JWTSecret: "other-secret", AccessTokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	forged, err := other.Issue(time.Now(), 1, "x@y", rbac.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := f.do(http.MethodPost, "/reissue", forged, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "op@genau.kr", "correct-horse", rbac.RoleUser)

	if w := f.do(http.MethodGet, "/user/profile", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", w.Code)
	}

	token, err := f.manager.Issue(time.Now(), u.ID, u.Email, u.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w := f.do(http.MethodGet, "/user/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var reply struct {
		Success bool      `json:"success"`
		Data    user.User `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Data.Email != "op@genau.kr" {
		t.Fatalf("data = %+v", reply.Data)
	}
}

func TestUserListIsSupervisorOnly(t *testing.T) {
	f := newFixture(t)
	op := f.seedUser(t, "op@genau.kr", "correct-horse", rbac.RoleUser)
	sup := f.seedUser(t, "sup@genau.kr", "correct-horse", rbac.RoleSupervisor)

	opToken, err := f.manager.Issue(time.Now(), op.ID, op.Email, op.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if w := f.do(http.MethodGet, "/user/list", opToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("operator status = %d", w.Code)
	}

	supToken, err := f.manager.Issue(time.Now(), sup.ID, sup.Email, sup.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if w := f.do(http.MethodGet, "/user/list", supToken, nil); w.Code != http.StatusOK {
		t.Fatalf("supervisor status = %d", w.Code)
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	f := newFixture(t)
	if w := f.do(http.MethodPost, "/user/logout", "", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
