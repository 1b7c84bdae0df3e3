package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"studio-hub/internal/crew"
	"studio-hub/internal/database"
	"studio-hub/internal/gate"
	"studio-hub/internal/middleware"
	"studio-hub/internal/models"

	"github.com/gin-gonic/gin"
)

type shootingForm struct {
	ProjectID *uint  `json:"project_id"`
	TaskID    *uint  `json:"task_id"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	ShootAt   string `json:"shoot_at"`
	Notes     string `json:"notes"`
}

//
// ЗАЯВКИ НА СЪЁМКУ
//

func (h *Handler) ListShootings(c *gin.Context) {
	dbq := database.DB.Order("shoot_at asc, id asc")
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	if pid, ok := queryID(c, "project_id"); ok {
		dbq = dbq.Where("project_id = ?", pid)
	}

	var shootings []models.ShootingRequest
	if err := dbq.Find(&shootings).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка загрузки заявок")
		return
	}
	c.JSON(http.StatusOK, gin.H{"shootings": shootings})
}

func (h *Handler) GetShooting(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var s models.ShootingRequest
	if err := database.DB.Preload("Crew.User").First(&s, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Заявка не найдена")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shooting":   s,
		"can_change": h.canChange(c, gate.EntityShooting, s.ID),
	})
}

func (h *Handler) CreateShooting(c *gin.Context) {
	var form shootingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}

	title := strings.TrimSpace(form.Title)
	if len(title) < 3 {
		respondError(c, http.StatusBadRequest, "Название съёмки должно быть не короче 3 символов")
		return
	}
	if !requireRef(c, &models.Project{}, form.ProjectID, "Проект не найден") ||
		!requireRef(c, &models.Task{}, form.TaskID, "Связанная задача не найдена") {
		return
	}
	shootAt, err := parseTime(form.ShootAt)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Неверная дата съёмки")
		return
	}

	s := models.ShootingRequest{
		ProjectID: form.ProjectID,
		TaskID:    form.TaskID,
		Title:     title,
		Location:  strings.TrimSpace(form.Location),
		ShootAt:   shootAt,
		Notes:     strings.TrimSpace(form.Notes),
		Status:    models.ShootingPending,
		CreatedBy: middleware.CurrentUserID(c),
	}
	if err := database.DB.Create(&s).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения заявки")
		return
	}

	database.CreateAuditLog(s.CreatedBy, "shooting", s.ID, "create", "Создана заявка на съёмку: "+s.Title)
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) ApproveShooting(c *gin.Context) {
	h.decideShooting(c, models.ShootingApproved)
}

func (h *Handler) RejectShooting(c *gin.Context) {
	h.decideShooting(c, models.ShootingRejected)
}

func (h *Handler) decideShooting(c *gin.Context, verdict models.ShootingStatus) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.applyChanges(c, gate.EntityShooting, id, []gate.Change{
		{Field: gate.FieldStatus, Value: string(verdict)},
	})
}

//
// СОСТАВ СЪЁМОЧНОЙ ГРУППЫ
//

// canEditCrew: автор заявки, HR или супер-админ.
func canEditCrew(user models.User, s models.ShootingRequest) bool {
	if s.CreatedBy == user.ID {
		return true
	}
	return user.Role == models.RoleHR || user.Role == models.RoleSuperAdmin
}

// ReplaceCrew сохраняет весь диалог состава группы одним действием.
func (h *Handler) ReplaceCrew(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var s models.ShootingRequest
	if err := database.DB.Select("id", "created_by").First(&s, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Заявка не найдена")
		return
	}
	user, _ := middleware.CurrentUser(c)
	if !canEditCrew(user, s) {
		respondError(c, http.StatusForbidden, "Недостаточно прав")
		return
	}

	var plan crew.Plan
	if err := c.ShouldBindJSON(&plan); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}
	plan.ShootingID = s.ID

	res, err := h.Crew.Apply(c.Request.Context(), plan)
	if err != nil {
		respondErr(c, err)
		return
	}

	rows, err := h.Crew.Crew(c.Request.Context(), s.ID)
	if err != nil {
		respondErr(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "shooting", s.ID, "crew_update",
		"Обновлён состав группы, строк: "+strconv.Itoa(len(rows)))
	c.JSON(http.StatusOK, gin.H{"result": res, "crew": rows})
}

func (h *Handler) GetCrew(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rows, err := h.Crew.Crew(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"crew": rows})
}

func (h *Handler) CrewSummary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sum, err := h.Crew.Summary(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// ListFreelancers: подсказки для формы по началу имени.
func (h *Handler) ListFreelancers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.Crew.Directory(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"freelancers": list})
}
