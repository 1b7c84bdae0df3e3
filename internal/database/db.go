package database

import (
	"fmt"
	"time"

	"studio-hub/internal/config"
	"studio-hub/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

// Init подключается к postgres (с повторами), мигрирует схему и создаёт стартовых пользователей.
func Init(cfg *config.Config, log *zap.Logger) error {
	var (
		db  *gorm.DB
		err error
	)

	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to db", zap.Int("attempt", i), zap.Int("max", maxAttempts))

		db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}

		log.Warn("failed to connect to db", zap.Error(err))
		time.Sleep(retryBackoff)
	}
	if err != nil {
		return fmt.Errorf("connect after %d attempts: %w", maxAttempts, err)
	}

	if err := Migrate(db); err != nil {
		return err
	}

	Seed(db, cfg, log)
	DB = db
	return nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.Task{},
		&models.Event{},
		&models.Meeting{},
		&models.ShootingRequest{},
		&models.CrewAssignment{},
		&models.Freelancer{},
		&models.Asset{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Seed создаёт super_admin (если его нет) и пару демо-аккаунтов.
func Seed(db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	createDefaultAdmin(db, cfg, log)
	seedDefaultUsers(db, log)
}

// админ только из конфига
func createDefaultAdmin(db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	password := cfg.AdminPassword
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleSuperAdmin).
		Count(&count).Error; err != nil {
		log.Warn("failed to check admin user", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	if err := createUser(db, cfg.AdminUsername, "Administrator", password, models.RoleSuperAdmin); err != nil {
		log.Warn("failed to create default admin", zap.Error(err))
		return
	}
	log.Info("created default admin user", zap.String("username", cfg.AdminUsername))
}

// демо-аккаунты для hr и менеджера проектов
func seedDefaultUsers(db *gorm.DB, log *zap.Logger) {
	type seedUser struct {
		Username string
		FullName string
		Password string
		Role     models.UserRole
	}

	users := []seedUser{
		{Username: "hr@studio.local", FullName: "HR", Password: "Hr123456!", Role: models.RoleHR},
		{Username: "pm@studio.local", FullName: "Project Manager", Password: "Pm123456!", Role: models.RoleProjectManager},
	}

	for _, u := range users {
		var count int64
		if err := db.Model(&models.User{}).
			Where("username = ?", u.Username).
			Count(&count).Error; err != nil {
			log.Warn("failed to check seed user", zap.String("username", u.Username), zap.Error(err))
			continue
		}
		if count > 0 {
			continue
		}

		if err := createUser(db, u.Username, u.FullName, u.Password, u.Role); err != nil {
			log.Warn("failed to create seed user", zap.String("username", u.Username), zap.Error(err))
			continue
		}
		log.Info("created seed user", zap.String("username", u.Username), zap.String("role", string(u.Role)))
	}
}

func createUser(db *gorm.DB, username, fullName, password string, role models.UserRole) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Username:     username,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         role,
	}
	return db.Create(&user).Error
}
