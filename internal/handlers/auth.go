package handlers

import (
	"net/http"
	"strings"
	"time"

	"studio-hub/internal/database"
	"studio-hub/internal/middleware"
	"studio-hub/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerForm struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// Register: самостоятельная регистрация, только с ролью employee.
// Остальные роли назначает администратор.
func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}

	form.Username = strings.TrimSpace(form.Username)
	if len(form.Username) < 3 || len(form.Password) < 6 {
		respondError(c, http.StatusBadRequest, "Слишком короткий логин или пароль")
		return
	}

	var count int64
	if err := database.DB.Model(&models.User{}).Where("username = ?", form.Username).Count(&count).Error; err != nil {
		respondErr(c, err)
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "Пользователь уже существует")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		respondErr(c, err)
		return
	}
	user := models.User{
		Username:     form.Username,
		FullName:     strings.TrimSpace(form.FullName),
		PasswordHash: string(hash),
		Role:         models.RoleEmployee,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Ошибка сохранения пользователя")
		return
	}

	database.CreateAuditLog(user.ID, "user", user.ID, "create", "Зарегистрирован пользователь "+user.Username)
	c.JSON(http.StatusCreated, user)
}

type loginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login открывает сессию и заодно выдаёт токен для API-клиентов.
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Некорректные данные")
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", strings.TrimSpace(form.Username)).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Неверный логин или пароль")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Неверный логин или пароль")
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	if err := sess.Save(); err != nil {
		h.Log.Warn("session save failed", zap.Error(err))
	}

	resp := gin.H{"user": user}
	if h.Tokens != nil {
		raw, exp, err := h.Tokens.Issue(user)
		if err != nil {
			respondErr(c, err)
			return
		}
		resp["token"] = raw
		resp["expires_at"] = exp.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Требуется вход в систему")
		return
	}
	c.JSON(http.StatusOK, user)
}
