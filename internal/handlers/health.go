package handlers

import (
	"net/http"

	"studio-hub/internal/database"

	"github.com/gin-gonic/gin"
)

// Health: жив ли сервер и отвечает ли БД.
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := database.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
