package main

import (
	"database/sql"
	"net/http"
	"time"

	"hydrogen-dashboard/internal/httpapi"
	"hydrogen-dashboard/internal/rbac"
	"hydrogen-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc, db *sql.DB) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// auth endpoints; the client pipeline sends these without a token
	r.POST("/user/login", h.Login)
	r.POST("/user/logout", h.Logout)
	r.POST("/user/register", h.Register)
	r.POST("/reissue", h.Reissue)

	// everything below requires a verified access token
	protected := r.Group("/")
	protected.Use(authMW)
	{
		protected.GET("/user/profile", h.Profile)

		// user administration is supervisor-only
		admin := protected.Group("/user")
		admin.Use(rbac.RequireSupervisor())
		{
			admin.GET("/list", h.ListUsers)
			admin.PUT("/:id/role", h.UpdateUserRole)
			admin.PUT("/:id/status", h.UpdateUserStatus)
		}

		facilities := protected.Group("/facility")
		{
			facilities.GET("/list", h.ListFacilities)
			facilities.GET("/:id", h.GetFacility)
			facilities.POST("", rbac.RequireSupervisor(), h.CreateFacility)
			facilities.PUT("/:id", rbac.RequireSupervisor(), h.UpdateFacility)
			facilities.DELETE("/:id", rbac.RequireSupervisor(), h.DeleteFacility)
		}

		prices := protected.Group("/price")
		{
			prices.GET("/map", h.PriceMap)
			prices.GET("/:regionCode", h.PriceByRegion)
			prices.POST("", rbac.RequireSupervisor(), h.RecordPrice)
		}

		production := protected.Group("/hydrogen")
		{
			production.GET("/:facilityId/hourly", h.HydrogenHourly)
			production.GET("/:facilityId/daily", h.HydrogenDaily)
			production.GET("/:facilityId/weekly", h.HydrogenWeekly)
			production.GET("/:facilityId/monthly", h.HydrogenMonthly)
			production.GET("/:facilityId/summary", h.HydrogenSummary)
			production.POST("", rbac.RequireSupervisor(), h.RecordProduction)
		}

		alarms := protected.Group("/alarm")
		{
			alarms.GET("/:facilityId", h.ListAlarms)
			alarms.POST("", rbac.RequireSupervisor(), h.AppendAlarm)
		}
	}
}
