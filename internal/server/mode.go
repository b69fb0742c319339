package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/taskdeck/internal/sync"
)

type setModeRequest struct {
	Mode *string `json:"mode"`
}

func (d *deps) handleGetMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mode":            d.facade.Mode(),
		"cloudConfigured": d.facade.HasCloudAdapter(),
	})
}

// handleSetMode pins or clears the runtime mode override. A JSON null
// mode clears it.
func (d *deps) handleSetMode(c *gin.Context) {
	var req setModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be LOCAL, CLOUD, or null"})
		return
	}

	if req.Mode == nil {
		d.facade.SetMode(nil)
	} else {
		mode, ok := sync.ParseMode(*req.Mode)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be LOCAL, CLOUD, or null"})
			return
		}
		d.facade.SetMode(&mode)
	}

	c.JSON(http.StatusOK, gin.H{
		"mode":            d.facade.Mode(),
		"cloudConfigured": d.facade.HasCloudAdapter(),
	})
}
