package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func success(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   message,
	})
}

// parseDateRange reads the startDate/endDate query parameters. Missing or
// malformed dates reject the request before any store interaction.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" || endStr == "" {
		fail(c, http.StatusBadRequest, "startDate and endDate are required")
		return time.Time{}, time.Time{}, false
	}

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		fail(c, http.StatusBadRequest, "startDate must be an ISO-8601 date (YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		fail(c, http.StatusBadRequest, "endDate must be an ISO-8601 date (YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
