package middleware

import (
	"studio-hub/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	// userIDKey читает и logging.Middleware.
	userIDKey      = "UserID"
	currentUserKey = "CurrentUser"
)

// CurrentUserID: id вошедшего пользователя, 0 если анонимный.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if uid, ok := v.(uint); ok {
			return uid
		}
	}
	return 0
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
