package handlers

import (
	"net/http"
	"strings"

	"studio-hub/internal/database"
	"studio-hub/internal/gate"
	"studio-hub/internal/middleware"
	"studio-hub/internal/models"

	"github.com/gin-gonic/gin"
)

type eventForm struct {
	ProjectID *uint  `json:"project_id"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
}

func (h *Handler) ListEvents(c *gin.Context) {
	dbq := database.DB.Order("starts_at asc, id asc")
	if pid, ok := queryID(c, "project_id"); ok {
		dbq = dbq.Where("project_id = ?", pid)
	}
	if phase := c.Query("phase"); phase != "" {
		dbq = dbq.Where("phase = ?", phase)
	}

	var events []models.Event
	if err := dbq.Find(&events).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка загрузки событий")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var form eventForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}

	title := strings.TrimSpace(form.Title)
	if len(title) < 3 {
		respondError(c, http.StatusBadRequest, "Название события должно быть не короче 3 символов")
		return
	}
	if !requireRef(c, &models.Project{}, form.ProjectID, "Проект не найден") {
		return
	}
	starts, err := parseTime(form.StartsAt)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Неверная дата начала")
		return
	}
	ends, err := parseTime(form.EndsAt)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Неверная дата окончания")
		return
	}

	event := models.Event{
		ProjectID: form.ProjectID,
		Title:     title,
		Location:  strings.TrimSpace(form.Location),
		StartsAt:  starts,
		EndsAt:    ends,
		Status:    models.EventScheduled,
		Phase:     models.PhasePlanning,
		CreatedBy: middleware.CurrentUserID(c),
	}
	if err := database.DB.Create(&event).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения события")
		return
	}

	database.CreateAuditLog(event.CreatedBy, "event", event.ID, "create", "Создано событие: "+event.Title)
	c.JSON(http.StatusCreated, event)
}

// TransitionEvent: статус и/или фаза одним действием, с общим action_id.
func (h *Handler) TransitionEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var form transitionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}
	h.applyChanges(c, gate.EntityEvent, id, form.changes())
}
