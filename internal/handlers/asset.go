package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"studio-hub/internal/database"
	"studio-hub/internal/gate"
	"studio-hub/internal/middleware"
	"studio-hub/internal/models"

	"github.com/gin-gonic/gin"
)

type assetForm struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Serial      string `json:"serial"`
	Description string `json:"description"`
}

func (f *assetForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Serial = strings.TrimSpace(f.Serial)
	f.Description = strings.TrimSpace(f.Description)
}

// check проверяет форму; при ошибке ответ уже отправлен.
func (f assetForm) check(c *gin.Context, selfID uint) bool {
	if len(f.Name) < 2 {
		respondError(c, http.StatusBadRequest, "Название оборудования должно быть не короче 2 символов")
		return false
	}
	if f.Serial == "" {
		respondError(c, http.StatusBadRequest, "Укажите серийный номер")
		return false
	}
	var count int64
	if err := database.DB.Model(&models.Asset{}).
		Where("serial = ? AND id <> ?", f.Serial, selfID).
		Count(&count).Error; err != nil {
		respondErr(c, err)
		return false
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "Оборудование с таким серийным номером уже есть")
		return false
	}
	return true
}

// СПИСОК ОБОРУДОВАНИЯ

func (h *Handler) ListAssets(c *gin.Context) {
	dbq := database.DB.Order("category asc, name asc")
	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}

	var assets []models.Asset
	if err := dbq.Find(&assets).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка загрузки оборудования")
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var form assetForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}
	form.trim()
	if !form.check(c, 0) {
		return
	}

	asset := models.Asset{
		Name:        form.Name,
		Category:    form.Category,
		Serial:      form.Serial,
		Description: form.Description,
		Status:      models.AssetAvailable,
	}
	if err := database.DB.Create(&asset).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения оборудования в БД")
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "asset", asset.ID, "create", "Добавлено оборудование: "+asset.Name)
	c.JSON(http.StatusCreated, asset)
}

// UpdateAsset меняет описание; статус и держатель: только через checkout/return.
func (h *Handler) UpdateAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Оборудование не найдено")
		return
	}

	var form assetForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}
	form.trim()
	if !form.check(c, asset.ID) {
		return
	}

	asset.Name = form.Name
	asset.Category = form.Category
	asset.Serial = form.Serial
	asset.Description = form.Description

	if err := database.DB.Omit("status", "holder_id").Save(&asset).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения оборудования в БД")
		return
	}

	database.CreateAuditLog(middleware.CurrentUserID(c), "asset", asset.ID, "update", "Изменено оборудование: "+asset.Name)
	c.JSON(http.StatusOK, asset)
}

type checkoutForm struct {
	HolderID uint `json:"holder_id"`
}

// CheckoutAsset выдаёт оборудование пользователю holder_id.
// Без тела запроса получателем считается тот, кто выдаёт.
func (h *Handler) CheckoutAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var form checkoutForm
	if err := c.ShouldBindJSON(&form); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}
	if form.HolderID != 0 && !requireRef(c, &models.User{}, &form.HolderID, "Получатель оборудования не найден") {
		return
	}

	h.apply(c, gate.Request{
		Entity:   gate.EntityAsset,
		EntityID: id,
		Changes:  []gate.Change{{Field: gate.FieldStatus, Value: string(models.AssetCheckedOut)}},
		HolderID: form.HolderID,
	})
}

func (h *Handler) ReturnAsset(c *gin.Context) {
	h.moveAsset(c, models.AssetAvailable)
}

func (h *Handler) moveAsset(c *gin.Context, status models.AssetStatus) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.applyChanges(c, gate.EntityAsset, id, []gate.Change{
		{Field: gate.FieldStatus, Value: string(status)},
	})
}
