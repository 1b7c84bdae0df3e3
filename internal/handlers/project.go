package handlers

import (
	"errors"
	"net/http"
	"strings"

	"studio-hub/internal/database"
	"studio-hub/internal/gate"
	"studio-hub/internal/middleware"
	"studio-hub/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type projectForm struct {
	ClientID     uint   `json:"client_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PlannedStart string `json:"planned_start"`
	PlannedEnd   string `json:"planned_end"`
	ManagerID    uint   `json:"manager_id"`
}

//
// СПИСОК ПРОЕКТОВ
//

// ListProjects: список с фильтрами client_id и status.
func (h *Handler) ListProjects(c *gin.Context) {
	dbq := database.DB.Preload("Client").Order("created_at desc")

	if cid, ok := queryID(c, "client_id"); ok {
		dbq = dbq.Where("client_id = ?", cid)
	}
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}

	var projects []models.Project
	if err := dbq.Find(&projects).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка загрузки проектов")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.Preload("Client").First(&project, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Проект не найден")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project":    project,
		"can_change": h.canChange(c, gate.EntityProject, project.ID),
	})
}

//
// СОЗДАНИЕ / РЕДАКТИРОВАНИЕ
//

func (h *Handler) CreateProject(c *gin.Context) {
	var form projectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}

	project := models.Project{
		Status:    models.ProjectPlanned,
		CreatedBy: middleware.CurrentUserID(c),
	}
	if msg := fillProject(&project, form); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	if err := database.DB.Create(&project).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения проекта")
		return
	}

	database.CreateAuditLog(project.CreatedBy, "project", project.ID, "create", "Создан проект: "+project.Title)
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Проект не найден")
		return
	}

	var form projectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}
	if msg := fillProject(&project, form); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	// статус меняется только через /status
	if err := database.DB.Omit("status").Save(&project).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения проекта")
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "project", project.ID, "update", "Проект обновлён: "+project.Title)
	c.JSON(http.StatusOK, project)
}

// fillProject проверяет форму и переносит её в проект. Возвращает текст ошибки.
func fillProject(p *models.Project, form projectForm) string {
	title := strings.TrimSpace(form.Title)
	if len(title) < 3 {
		return "Название проекта должно быть не короче 3 символов"
	}

	var client models.Client
	if form.ClientID == 0 {
		return "Выберите клиента"
	}
	if err := database.DB.First(&client, form.ClientID).Error; err != nil {
		return "Клиент не найден"
	}

	if form.ManagerID != 0 {
		var manager models.User
		if err := database.DB.First(&manager, form.ManagerID).Error; err != nil {
			return "Менеджер не найден"
		}
	}

	start, err := parseTime(form.PlannedStart)
	if err != nil {
		return "Неверная дата начала"
	}
	end, err := parseTime(form.PlannedEnd)
	if err != nil {
		return "Неверная дата окончания"
	}
	if start != nil && end != nil && end.Before(*start) {
		return "Дата окончания раньше даты начала"
	}

	p.Title = title
	p.ClientID = client.ID
	p.Description = strings.TrimSpace(form.Description)
	p.PlannedStart = start
	p.PlannedEnd = end
	p.ManagerID = form.ManagerID
	return ""
}

//
// УДАЛЕНИЕ ПРОЕКТА
//

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var project models.Project
	err := database.DB.First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "Проект не найден")
		return
	}
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := database.DB.Delete(&project).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "project", project.ID, "delete", "Удалён проект: "+project.Title)
	c.Status(http.StatusNoContent)
}
