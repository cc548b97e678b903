package server

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/nyarko-dennis/donor-app-backend/internal/analytics/domain"
)

func parseIDParam(c *gin.Context, name string) (snowflake.ID, bool) {
	raw := c.Param(name)
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError(name, "invalid_id", "invalid identifier"))
		return 0, false
	}
	return id, true
}

// parseRange reads optional from/to query params as RFC 3339 timestamps
// or plain dates.
func parseRange(c *gin.Context) (analyticsdomain.Range, bool) {
	var r analyticsdomain.Range

	if raw := c.Query("from"); raw != "" {
		from, ok := parseTimeParam(c, "from", raw)
		if !ok {
			return r, false
		}
		r.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, ok := parseTimeParam(c, "to", raw)
		if !ok {
			return r, false
		}
		r.To = &to
	}
	return r, true
}

func parseTimeParam(c *gin.Context, name, raw string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, true
	}
	AbortWithError(c, newValidationError(name, "invalid_time", "expected RFC 3339 timestamp or YYYY-MM-DD"))
	return time.Time{}, false
}
