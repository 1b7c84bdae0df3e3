package handlers

import (
	"net/http"

	"studio-hub/internal/database"
	"studio-hub/internal/models"

	"github.com/gin-gonic/gin"
)

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TaskReport: количество задач по статусам, можно по одному проекту.
// Статусы без задач тоже попадают в ответ, с нулём.
func (h *Handler) TaskReport(c *gin.Context) {
	dbq := database.DB.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if pid, ok := queryID(c, "project_id"); ok {
		dbq = dbq.Where("project_id = ?", pid)
	}

	var rows []statusCount
	if err := dbq.Scan(&rows).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка построения отчёта")
		return
	}

	byStatus := make(map[string]int64, len(rows))
	var total int64
	for _, r := range rows {
		byStatus[r.Status] = r.Count
		total += r.Count
	}
	out := make([]statusCount, 0, len(models.TaskStatuses))
	for _, s := range models.TaskStatuses {
		out = append(out, statusCount{Status: s, Count: byStatus[s]})
	}

	c.JSON(http.StatusOK, gin.H{"statuses": out, "total": total})
}
