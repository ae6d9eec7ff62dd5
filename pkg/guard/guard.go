// Package guard gates gateway routes on the derived session state: nothing
// is rendered before the first synchronization pass completes, and redirects
// depend on whether a role is absent or merely wrong.
package guard

import (
	"net/http"
	"net/url"

	"hydrogen-dashboard/pkg/authclaims"
	"hydrogen-dashboard/pkg/authsession"

	"github.com/gin-gonic/gin"
)

// Gateway routes.
const (
	LoginRoute     = "/login"
	ForbiddenRoute = "/403"
	DashboardRoute = "/dashboard"
	AdminRoute     = "/admin"
)

// RoleHome is the landing route for an authenticated role.
func RoleHome(role authclaims.Role) string {
	if role == authclaims.RoleSupervisor {
		return AdminRoute
	}
	return DashboardRoute
}

// StateSource yields the current session snapshot. *authsession.Session
// satisfies it.
type StateSource interface {
	Snapshot() authsession.State
}

// Protected admits initialized sessions with a role. Pass require="" to
// accept any role. Before initialization the guard renders nothing at all:
// no content and no redirect, so a slow first sync never flashes either.
func Protected(src StateSource, require authclaims.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := src.Snapshot()
		if !st.Initialized {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if st.Role == "" {
			redirect(c, LoginRoute+"?from="+url.QueryEscape(c.Request.URL.Path))
			return
		}
		if require != "" && st.Role != require {
			redirect(c, ForbiddenRoute)
			return
		}
		c.Next()
	}
}

// PublicOnly inverts the policy for entry pages like the login form: an
// authenticated operator is sent to their role's home instead.
func PublicOnly(src StateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := src.Snapshot()
		if !st.Initialized {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if st.Role != "" {
			redirect(c, RoleHome(st.Role))
			return
		}
		c.Next()
	}
}

func redirect(c *gin.Context, to string) {
	c.Redirect(http.StatusFound, to)
	c.Abort()
}
