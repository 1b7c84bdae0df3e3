package middleware

import (
	"net/http"
	"strings"

	"studio-hub/internal/database"
	"studio-hub/internal/models"
	"studio-hub/internal/token"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth пускает по сессии браузера или по Bearer-токену.
// Пользователь каждый раз перечитывается из БД: роль могли поменять.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := identify(c, tokens)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется вход в систему"})
			return
		}

		var user models.User
		if err := database.DB.WithContext(c.Request.Context()).First(&user, uid).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не найден"})
			return
		}

		c.Set(userIDKey, user.ID)
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func identify(c *gin.Context, tokens *token.Service) (uint, bool) {
	if h := c.GetHeader("Authorization"); h != "" {
		raw, found := strings.CutPrefix(h, "Bearer ")
		if !found || tokens == nil {
			return 0, false
		}
		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			return 0, false
		}
		uid, err := claims.UserID()
		return uid, err == nil
	}

	sess := sessions.Default(c)
	uid, ok := sess.Get("user_id").(uint)
	return uid, ok && uid > 0
}

// RequireRole: только после RequireAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется вход в систему"})
			return
		}
		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Недостаточно прав"})
			return
		}
		c.Next()
	}
}
