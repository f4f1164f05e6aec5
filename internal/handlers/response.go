package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"remo-monitor/internal/service"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}

func methodNotAllowed(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, "Method not allowed")
}

// respondFailure renders config, upstream and store failures alike: 500 with the error text.
func respondFailure(c *gin.Context, err error) {
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, err.Error())
}

// readingQuery reads device_id, hours and limit. Missing, non-numeric or non-positive numbers fall
// back to the defaults.
func readingQuery(c *gin.Context) service.ReadingQuery {
	q := service.ReadingQuery{DeviceID: c.Query("device_id")}
	if hours, err := strconv.Atoi(c.Query("hours")); err == nil {
		q.Hours = hours
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		q.Limit = limit
	}
	return q.Normalize()
}
