package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hydrogen-dashboard/internal/alarm"
	"hydrogen-dashboard/internal/auth"
	"hydrogen-dashboard/internal/facility"
	"hydrogen-dashboard/internal/hydrogen"
	"hydrogen-dashboard/internal/price"
	"hydrogen-dashboard/internal/user"
	"hydrogen-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth       *auth.Manager
	Users      *user.Service
	Facilities *facility.Service
	Prices     *price.Service
	Hydrogen   *hydrogen.Service
	Alarms     *alarm.Service

	// RDB throttles login attempts when present. Nil disables throttling.
	RDB *redis.Client
}

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

/* ===================== AUTH ===================== */

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and issues an access token. The reply
// shape is {success, token, user}.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "email and password required")
		return
	}

	if h.RDB != nil {
		key := "login:" + strings.ToLower(req.Email)
		allowed, err := utils.AllowAttempt(c.Request.Context(), h.RDB, key, loginAttemptLimit, loginAttemptWindow)
		if err == nil && !allowed {
			fail(c, http.StatusTooManyRequests, "too many login attempts")
			return
		}
	}

	u, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, user.ErrNotActive):
			fail(c, http.StatusForbidden, "account not active")
		default:
			fail(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	token, err := h.Auth.Issue(time.Now(), u.ID, u.Email, u.Role)
	if err != nil {
		fail(c, http.StatusInternalServerError, "token issuance failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": u})
}

// Logout is stateless: tokens are not tracked server-side, so there is
// nothing to revoke. The endpoint exists so clients have somewhere to
// report the logout.
func (h Handlers) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Reissue exchanges a stale-but-authentic token for a fresh one.
func (h Handlers) Reissue(c *gin.Context) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	token := raw
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		token = strings.TrimSpace(raw[7:])
	}
	if token == "" {
		fail(c, http.StatusUnauthorized, "token required")
		return
	}

	fresh, err := h.Auth.Reissue(token, time.Now())
	if err != nil {
		fail(c, http.StatusUnauthorized, "reissue rejected")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"accessToken": fresh}})
}

/* ===================== USERS ===================== */

func (h Handlers) Profile(c *gin.Context) {
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		fail(c, http.StatusUnauthorized, "identity required")
		return
	}
	u, err := h.Users.GetByID(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	ok(c, u)
}

func (h Handlers) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "list failed")
		return
	}
	ok(c, users)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h Handlers) UpdateUserRole(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.Users.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		userError(c, err)
		return
	}
	ok(c, u)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) UpdateUserStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.Users.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		userError(c, err)
		return
	}
	ok(c, u)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	OrgID    int64  `json:"orgId"`
}

// Register creates an INVITED account; a supervisor activates it later.
func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.Users.Register(c.Request.Context(), user.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		OrgID:    req.OrgID,
	})
	if err != nil {
		userError(c, err)
		return
	}
	ok(c, u)
}

func userError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		fail(c, http.StatusNotFound, "user not found")
	case errors.Is(err, user.ErrEmailTaken):
		fail(c, http.StatusConflict, "email already registered")
	case errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrInvalidStatus),
		errors.Is(err, user.ErrInvalidRequest):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, "request failed")
	}
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
