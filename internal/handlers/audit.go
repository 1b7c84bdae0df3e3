package handlers

import (
	"net/http"
	"strconv"

	"studio-hub/internal/database"
	"studio-hub/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	auditDefaultLimit = 200
	auditMaxLimit     = 1000
)

// ListAuditLogs отдаёт журнал, новые записи сверху.
// Фильтры: entity, entity_id, action_id, user_id.
func (h *Handler) ListAuditLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = auditDefaultLimit
	}
	if limit > auditMaxLimit {
		limit = auditMaxLimit
	}

	dbq := database.DB.Preload("User").Order("created_at desc, id desc").Limit(limit)
	if entity := c.Query("entity"); entity != "" {
		dbq = dbq.Where("entity = ?", entity)
	}
	if eid, ok := queryID(c, "entity_id"); ok {
		dbq = dbq.Where("entity_id = ?", eid)
	}
	if action := c.Query("action_id"); action != "" {
		dbq = dbq.Where("action_id = ?", action)
	}
	if uid, ok := queryID(c, "user_id"); ok {
		dbq = dbq.Where("user_id = ?", uid)
	}

	var logs []models.AuditLog
	if err := dbq.Find(&logs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка загрузки журнала")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
