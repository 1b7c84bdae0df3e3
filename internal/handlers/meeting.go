package handlers

import (
	"net/http"
	"strings"

	"studio-hub/internal/database"
	"studio-hub/internal/middleware"
	"studio-hub/internal/models"

	"github.com/gin-gonic/gin"
)

type meetingForm struct {
	ClientID *uint  `json:"client_id"`
	Title    string `json:"title"`
	Agenda   string `json:"agenda"`
	StartsAt string `json:"starts_at"`
}

func (h *Handler) ListMeetings(c *gin.Context) {
	dbq := database.DB.Order("starts_at asc, id asc")
	if cid, ok := queryID(c, "client_id"); ok {
		dbq = dbq.Where("client_id = ?", cid)
	}

	var meetings []models.Meeting
	if err := dbq.Find(&meetings).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка загрузки встреч")
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

func (h *Handler) CreateMeeting(c *gin.Context) {
	var form meetingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}

	title := strings.TrimSpace(form.Title)
	if title == "" {
		respondError(c, http.StatusBadRequest, "Укажите тему встречи")
		return
	}
	if !requireRef(c, &models.Client{}, form.ClientID, "Клиент не найден") {
		return
	}
	starts, err := parseTime(form.StartsAt)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Неверная дата встречи")
		return
	}

	meeting := models.Meeting{
		ClientID:  form.ClientID,
		Title:     title,
		Agenda:    strings.TrimSpace(form.Agenda),
		StartsAt:  starts,
		Status:    models.MeetingScheduled,
		CreatedBy: middleware.CurrentUserID(c),
	}
	if err := database.DB.Create(&meeting).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения встречи")
		return
	}

	database.CreateAuditLog(meeting.CreatedBy, "meeting", meeting.ID, "create", "Создана встреча: "+meeting.Title)
	c.JSON(http.StatusCreated, meeting)
}
