package gate

import (
	"context"
	"errors"
	"fmt"

	"studio-hub/internal/models"

	"gorm.io/gorm"
)

// UserRoles берёт роль из таблицы users. У неизвестного пользователя ролей нет.
type UserRoles struct {
	DB *gorm.DB
}

func (u UserRoles) Roles(ctx context.Context, actorID uint) ([]models.UserRole, error) {
	if actorID == 0 {
		return nil, nil
	}
	var user models.User
	err := u.DB.WithContext(ctx).Select("id", "role").First(&user, actorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", actorID, err)
	}
	return []models.UserRole{user.Role}, nil
}
