package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"studio-hub/internal/crew"
	"studio-hub/internal/database"
	"studio-hub/internal/gate"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// respondErr переводит ошибки crew/gate в HTTP-статус.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gate.ErrForbidden):
		respondError(c, http.StatusForbidden, "Недостаточно прав")
	case errors.Is(err, gate.ErrNotFound), errors.Is(err, crew.ErrNotFound):
		respondError(c, http.StatusNotFound, "Запись не найдена")
	case errors.Is(err, gate.ErrInvalidLabel), errors.Is(err, gate.ErrNoChanges),
		errors.Is(err, gate.ErrUnknownEntity):
		respondError(c, http.StatusBadRequest, "Некорректный статус: "+err.Error())
	case errors.Is(err, gate.ErrInvalidHolder):
		respondError(c, http.StatusBadRequest, "Получатель оборудования не найден")
	case errors.Is(err, crew.ErrValidation):
		respondError(c, http.StatusBadRequest, "Некорректные данные: "+err.Error())
	default:
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}

// parseID: :id из пути; при ошибке ответ уже отправлен.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "Некорректный ID")
		return 0, false
	}
	return uint(id), true
}

// queryID: необязательный числовой фильтр из query.
func queryID(c *gin.Context, key string) (uint, bool) {
	v := c.Query(key)
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseTime принимает "2006-01-02" или RFC3339; пустая строка: nil.
func parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// requireRef проверяет необязательную ссылку на запись. При ошибке ответ уже отправлен.
func requireRef(c *gin.Context, model any, id *uint, msg string) bool {
	if id == nil {
		return true
	}
	found, err := exists(model, *id)
	if err != nil {
		respondErr(c, err)
		return false
	}
	if !found {
		respondError(c, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// exists: есть ли запись model с таким id. Ошибку БД отдаёт наверх.
func exists(model any, id uint) (bool, error) {
	var count int64
	if err := database.DB.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
