package handlers

import (
	"net/http"
	"strings"

	"studio-hub/internal/database"
	"studio-hub/internal/middleware"
	"studio-hub/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type clientForm struct {
	Name         string `json:"name"`
	Company      string `json:"company"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Notes        string `json:"notes"`
}

func (f *clientForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Company = strings.TrimSpace(f.Company)
	f.ContactName = strings.TrimSpace(f.ContactName)
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)
	f.ContactPhone = strings.TrimSpace(f.ContactPhone)
	f.Notes = strings.TrimSpace(f.Notes)
}

//
// СПИСОК / СОЗДАНИЕ
//

func (h *Handler) ListClients(c *gin.Context) {
	var clients []models.Client
	q := database.DB.Order("name asc")
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(name) LIKE ?", strings.ToLower(s)+"%")
	}
	if err := q.Find(&clients).Error; err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (h *Handler) CreateClient(c *gin.Context) {
	var form clientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}
	form.trim()

	if len(form.Name) < 2 {
		respondError(c, http.StatusBadRequest, "Название клиента должно быть не короче 2 символов")
		return
	}
	msg, err := clientConflict(form, 0)
	if err != nil {
		respondErr(c, err)
		return
	}
	if msg != "" {
		respondError(c, http.StatusConflict, msg)
		return
	}

	client := models.Client{
		Name:         form.Name,
		Company:      form.Company,
		ContactName:  form.ContactName,
		ContactEmail: form.ContactEmail,
		ContactPhone: form.ContactPhone,
		Notes:        form.Notes,
	}
	if err := database.DB.Create(&client).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения клиента в БД")
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "client", client.ID, "create", "Создан клиент: "+client.Name)
	c.JSON(http.StatusCreated, client)
}

// GetClient: карточка клиента вместе с его проектами.
func (h *Handler) GetClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var client models.Client
	err := database.DB.
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		First(&client, id).Error
	if err != nil {
		respondError(c, http.StatusNotFound, "Клиент не найден")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Клиент не найден")
		return
	}

	var form clientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}
	form.trim()

	if len(form.Name) < 2 {
		respondError(c, http.StatusBadRequest, "Название клиента должно быть не короче 2 символов")
		return
	}
	msg, err := clientConflict(form, client.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if msg != "" {
		respondError(c, http.StatusConflict, msg)
		return
	}

	client.Name = form.Name
	client.Company = form.Company
	client.ContactName = form.ContactName
	client.ContactEmail = form.ContactEmail
	client.ContactPhone = form.ContactPhone
	client.Notes = form.Notes

	if err := database.DB.Save(&client).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения клиента")
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "client", client.ID, "update", "Изменён клиент: "+client.Name)
	c.JSON(http.StatusOK, client)
}

// clientConflict: проверка уникальности имени, e-mail и телефона (кроме самого клиента).
func clientConflict(form clientForm, selfID uint) (string, error) {
	checks := []struct {
		value string
		where string
		msg   string
	}{
		{form.Name, "LOWER(name) = LOWER(?)", "Клиент с таким названием уже существует"},
		{form.ContactEmail, "LOWER(contact_email) = LOWER(?)", "Клиент с таким e-mail уже существует"},
		{form.ContactPhone, "contact_phone = ?", "Клиент с таким номером телефона уже существует"},
	}
	for _, ch := range checks {
		if ch.value == "" {
			continue
		}
		var count int64
		if err := database.DB.Model(&models.Client{}).
			Where(ch.where, ch.value).
			Where("id <> ?", selfID).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count > 0 {
			return ch.msg, nil
		}
	}
	return "", nil
}
