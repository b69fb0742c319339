package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/taskdeck/internal/activity"
)

// handleListActivities serves the feed, newest first. Activities always
// come from the local store regardless of the current sync mode.
func (d *deps) handleListActivities(c *gin.Context) {
	limit := activity.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	activities, err := activity.List(d.db, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}
