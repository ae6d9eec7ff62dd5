package main

import (
	"io"
	"net/http"

	"hydrogen-dashboard/pkg/apiclient"
	"hydrogen-dashboard/pkg/authclaims"
	"hydrogen-dashboard/pkg/authsession"
	"hydrogen-dashboard/pkg/guard"

	"github.com/gin-gonic/gin"
)

// registerRoutes mounts the gateway pages behind guards and the data proxy
// behind the authorizing pipeline.
func registerRoutes(r *gin.Engine, session *authsession.Session, client *apiclient.Client, authAPI *apiclient.AuthAPI) {
	r.GET("/", func(c *gin.Context) {
		st := session.Snapshot()
		if !st.Initialized || st.Role == "" {
			c.Redirect(http.StatusFound, guard.LoginRoute)
			return
		}
		c.Redirect(http.StatusFound, guard.RoleHome(st.Role))
	})

	r.GET(guard.LoginRoute, guard.PublicOnly(session), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "login", "from": c.Query("from")})
	})

	r.POST(guard.LoginRoute, func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
			return
		}
		if _, err := authAPI.Login(c.Request.Context(), req.Email, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "next": guard.RoleHome(session.Snapshot().Role)})
	})

	r.POST("/logout", func(c *gin.Context) {
		session.Logout(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"success": true, "next": guard.LoginRoute})
	})

	r.GET(guard.ForbiddenRoute, func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"page": "403"})
	})

	r.GET(guard.DashboardRoute, guard.Protected(session, ""), func(c *gin.Context) {
		profile, err := authAPI.Profile(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "profile fetch failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": "dashboard", "profile": profile})
	})

	r.GET(guard.AdminRoute, guard.Protected(session, authclaims.RoleSupervisor), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "admin", "state": session.Snapshot()})
	})

	// Data proxy: every /api/* request rides the pipeline, which attaches
	// the credential and handles renewal and the single retry.
	proxy := r.Group("/api", guard.Protected(session, ""))
	proxy.Any("/*upstream", proxyHandler(client))
}

func proxyHandler(client *apiclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Param("upstream")
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		var body []byte
		if c.Request.Body != nil {
			b, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unreadable body"})
				return
			}
			body = b
		}

		resp, err := client.Do(c.Request.Context(), c.Request.Method, path, body)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "upstream unavailable"})
			return
		}
		defer resp.Body.Close()

		c.Status(resp.StatusCode)
		if ct := resp.Header.Get("Content-Type"); ct != "" {
			c.Header("Content-Type", ct)
		}
		_, _ = io.Copy(c.Writer, resp.Body)
	}
}
