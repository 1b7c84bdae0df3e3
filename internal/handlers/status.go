package handlers

import (
	"net/http"

	"studio-hub/internal/gate"
	"studio-hub/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statusForm struct {
	Status string `json:"status"`
}

type transitionForm struct {
	Status string `json:"status"`
	Phase  string `json:"phase"`
}

// changes собирает изменения; пустые поля пропускаются.
func (f transitionForm) changes() []gate.Change {
	var out []gate.Change
	if f.Status != "" {
		out = append(out, gate.Change{Field: gate.FieldStatus, Value: f.Status})
	}
	if f.Phase != "" {
		out = append(out, gate.Change{Field: gate.FieldPhase, Value: f.Phase})
	}
	return out
}

// applyChanges: общая часть всех эндпоинтов смены статуса/фазы.
// Права проверяет сам Gate.
func (h *Handler) applyChanges(c *gin.Context, entity gate.EntityType, id uint, changes []gate.Change) {
	h.apply(c, gate.Request{Entity: entity, EntityID: id, Changes: changes})
}

// apply отправляет req в Gate от имени текущего пользователя.
func (h *Handler) apply(c *gin.Context, req gate.Request) {
	req.ActorID = middleware.CurrentUserID(c)
	out, err := h.Gate.Apply(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// StatusRoute принимает POST {"status": ...} для сущности entity.
func (h *Handler) StatusRoute(entity gate.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var form statusForm
		if err := c.ShouldBindJSON(&form); err != nil {
			respondError(c, http.StatusBadRequest, "Некорректные данные")
			return
		}
		h.applyChanges(c, entity, id, transitionForm{Status: form.Status}.changes())
	}
}

// HistoryRoute: журнал изменений одной сущности, старые записи первыми.
func (h *Handler) HistoryRoute(entity gate.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		logs, err := h.Gate.History(c.Request.Context(), entity, id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"history": logs})
	}
}

// canChange: подсказка клиенту, показывать ли кнопки смены статуса.
func (h *Handler) canChange(c *gin.Context, entity gate.EntityType, id uint) bool {
	ok, err := h.Gate.CanChange(c.Request.Context(), entity, id, middleware.CurrentUserID(c))
	if err != nil {
		h.Log.Debug("can change check failed", zap.Error(err))
		return false
	}
	return ok
}
