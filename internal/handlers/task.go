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

type taskForm struct {
	ProjectID   *uint  `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	AssigneeID  *uint  `json:"assignee_id"`
}

// ListTasks фильтрует по project_id, assignee_id и status.
// mine=1 оставляет задачи, созданные мной или назначенные мне.
func (h *Handler) ListTasks(c *gin.Context) {
	dbq := database.DB.Order("created_at desc")

	if pid, ok := queryID(c, "project_id"); ok {
		dbq = dbq.Where("project_id = ?", pid)
	}
	if aid, ok := queryID(c, "assignee_id"); ok {
		dbq = dbq.Where("assignee_id = ?", aid)
	}
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	if c.Query("mine") == "1" {
		uid := middleware.CurrentUserID(c)
		dbq = dbq.Where("created_by = ? OR assignee_id = ?", uid, uid)
	}

	var tasks []models.Task
	if err := dbq.Find(&tasks).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка загрузки задач")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Задача не найдена")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task":       task,
		"can_change": h.canChange(c, gate.EntityTask, task.ID),
	})
}

func (h *Handler) CreateTask(c *gin.Context) {
	var form taskForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}

	title := strings.TrimSpace(form.Title)
	if len(title) < 3 {
		respondError(c, http.StatusBadRequest, "Название задачи должно быть не короче 3 символов")
		return
	}
	if !requireRef(c, &models.Project{}, form.ProjectID, "Проект не найден") ||
		!requireRef(c, &models.User{}, form.AssigneeID, "Исполнитель не найден") {
		return
	}
	due, err := parseTime(form.DueDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Неверный срок")
		return
	}

	task := models.Task{
		ProjectID:   form.ProjectID,
		Title:       title,
		Description: strings.TrimSpace(form.Description),
		Status:      models.TaskTodo,
		DueDate:     due,
		AssigneeID:  form.AssigneeID,
		CreatedBy:   middleware.CurrentUserID(c),
	}
	if err := database.DB.Create(&task).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения задачи")
		return
	}

	database.CreateAuditLog(task.CreatedBy, "task", task.ID, "create", "Создана задача: "+task.Title)
	c.JSON(http.StatusCreated, task)
}
