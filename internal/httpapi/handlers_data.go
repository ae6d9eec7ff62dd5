package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hydrogen-dashboard/internal/alarm"
	"hydrogen-dashboard/internal/auth"
	"hydrogen-dashboard/internal/facility"
	"hydrogen-dashboard/internal/hydrogen"
	"hydrogen-dashboard/internal/price"

	"github.com/gin-gonic/gin"
)

/* ===================== FACILITIES ===================== */

// orgID resolves the caller's organization through their user record.
func (h Handlers) orgID(c *gin.Context) (int64, bool) {
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		fail(c, http.StatusUnauthorized, "identity required")
		return 0, false
	}
	u, err := h.Users.GetByID(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusUnauthorized, "unknown account")
		return 0, false
	}
	return u.OrgID, true
}

func (h Handlers) ListFacilities(c *gin.Context) {
	orgID, okID := h.orgID(c)
	if !okID {
		return
	}
	list, err := h.Facilities.ListByOrg(c.Request.Context(), orgID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "list failed")
		return
	}
	ok(c, list)
}

func (h Handlers) GetFacility(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid facility id")
		return
	}
	f, err := h.Facilities.Get(c.Request.Context(), id)
	if err != nil {
		facilityError(c, err)
		return
	}
	ok(c, f)
}

func (h Handlers) CreateFacility(c *gin.Context) {
	orgID, okID := h.orgID(c)
	if !okID {
		return
	}
	var f facility.Facility
	if err := c.ShouldBindJSON(&f); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	f.OrgID = orgID
	created, err := h.Facilities.Create(c.Request.Context(), f)
	if err != nil {
		facilityError(c, err)
		return
	}
	ok(c, created)
}

func (h Handlers) UpdateFacility(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid facility id")
		return
	}
	orgID, okID := h.orgID(c)
	if !okID {
		return
	}
	var f facility.Facility
	if err := c.ShouldBindJSON(&f); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	f.ID = id
	f.OrgID = orgID
	updated, err := h.Facilities.Update(c.Request.Context(), f)
	if err != nil {
		facilityError(c, err)
		return
	}
	ok(c, updated)
}

func (h Handlers) DeleteFacility(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid facility id")
		return
	}
	if err := h.Facilities.Delete(c.Request.Context(), id); err != nil {
		facilityError(c, err)
		return
	}
	ok(c, gin.H{"deleted": id})
}

func facilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, facility.ErrNotFound):
		fail(c, http.StatusNotFound, "facility not found")
	case errors.Is(err, facility.ErrInvalid):
		fail(c, http.StatusBadRequest, "invalid facility")
	default:
		fail(c, http.StatusInternalServerError, "request failed")
	}
}

/* ===================== PRICES ===================== */

func (h Handlers) PriceMap(c *gin.Context) {
	prices, err := h.Prices.Map(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "price map failed")
		return
	}
	ok(c, prices)
}

func (h Handlers) PriceByRegion(c *gin.Context) {
	p, err := h.Prices.ByRegion(c.Request.Context(), c.Param("regionCode"))
	if err != nil {
		if errors.Is(err, price.ErrNotFound) {
			fail(c, http.StatusNotFound, "region not found")
			return
		}
		fail(c, http.StatusInternalServerError, "price lookup failed")
		return
	}
	ok(c, p)
}

func (h Handlers) RecordPrice(c *gin.Context) {
	var p price.RegionPrice
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.Prices.Record(c.Request.Context(), p); err != nil {
		if errors.Is(err, price.ErrInvalid) {
			fail(c, http.StatusBadRequest, "invalid observation")
			return
		}
		fail(c, http.StatusInternalServerError, "record failed")
		return
	}
	ok(c, p)
}

/* ===================== HYDROGEN ===================== */

// timeRange parses from/to query params; default is the trailing week.
func timeRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7)
	to := now

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid from")
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid to")
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	return from, to, true
}

func (h Handlers) production(c *gin.Context, agg func(ctxFrom, ctxTo time.Time, facilityID int64) (any, error)) {
	facilityID, err := pathID(c, "facilityId")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid facility id")
		return
	}
	from, to, okRange := timeRange(c)
	if !okRange {
		return
	}
	out, err := agg(from, to, facilityID)
	if err != nil {
		if errors.Is(err, hydrogen.ErrInvalidRange) {
			fail(c, http.StatusBadRequest, "invalid time range")
			return
		}
		fail(c, http.StatusInternalServerError, "aggregation failed")
		return
	}
	ok(c, out)
}

func (h Handlers) HydrogenHourly(c *gin.Context) {
	h.production(c, func(from, to time.Time, id int64) (any, error) {
		return h.Hydrogen.Hourly(c.Request.Context(), id, from, to)
	})
}

func (h Handlers) HydrogenDaily(c *gin.Context) {
	h.production(c, func(from, to time.Time, id int64) (any, error) {
		return h.Hydrogen.Daily(c.Request.Context(), id, from, to)
	})
}

func (h Handlers) HydrogenWeekly(c *gin.Context) {
	h.production(c, func(from, to time.Time, id int64) (any, error) {
		return h.Hydrogen.Weekly(c.Request.Context(), id, from, to)
	})
}

func (h Handlers) HydrogenMonthly(c *gin.Context) {
	h.production(c, func(from, to time.Time, id int64) (any, error) {
		return h.Hydrogen.Monthly(c.Request.Context(), id, from, to)
	})
}

func (h Handlers) HydrogenSummary(c *gin.Context) {
	h.production(c, func(from, to time.Time, id int64) (any, error) {
		return h.Hydrogen.Summary(c.Request.Context(), id, from, to)
	})
}

func (h Handlers) RecordProduction(c *gin.Context) {
	var rec hydrogen.ProductionRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.Hydrogen.Record(c.Request.Context(), rec); err != nil {
		fail(c, http.StatusBadRequest, "invalid record")
		return
	}
	ok(c, rec)
}

/* ===================== ALARMS ===================== */

func (h Handlers) ListAlarms(c *gin.Context) {
	facilityID, err := pathID(c, "facilityId")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid facility id")
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	events, err := h.Alarms.Recent(c.Request.Context(), facilityID, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "alarm lookup failed")
		return
	}
	ok(c, events)
}

func (h Handlers) AppendAlarm(c *gin.Context) {
	var e alarm.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.Alarms.Append(c.Request.Context(), e); err != nil {
		if errors.Is(err, alarm.ErrInvalidEvent) {
			fail(c, http.StatusBadRequest, "invalid event")
			return
		}
		fail(c, http.StatusInternalServerError, "append failed")
		return
	}
	ok(c, e)
}
