package database_test

import (
	"testing"
	"time"

	"studio-hub/internal/config"
	"studio-hub/internal/database"
	"studio-hub/internal/models"
	"studio-hub/internal/testutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := &config.Config{AdminUsername: "root@studio.local", AdminPassword: "s3cret!"}

	database.Seed(db, cfg, zap.NewNop())
	database.Seed(db, cfg, zap.NewNop())

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 3 {
		t.Errorf("users = %d, want admin + 2 demo users", count)
	}

	var admin models.User
	if err := db.Where("username = ?", cfg.AdminUsername).First(&admin).Error; err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.Role != models.RoleSuperAdmin {
		t.Errorf("admin role = %q", admin.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret!")); err != nil {
		t.Errorf("admin password not hashed from config: %v", err)
	}
}

func TestEntityHistory_Ordered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	u := fx.CreateUser("u", models.RoleHR)

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := []models.AuditLog{
		{CreatedAt: base.Add(time.Minute), UserID: u.ID, Entity: "task", EntityID: 1, Action: "second"},
		{CreatedAt: base, UserID: u.ID, Entity: "task", EntityID: 1, Action: "first"},
		{CreatedAt: base, UserID: u.ID, Entity: "task", EntityID: 2, Action: "other task"},
		{CreatedAt: base, UserID: u.ID, Entity: "event", EntityID: 1, Action: "other entity"},
	}
	for i := range rows {
		if err := database.WriteAudit(db, &rows[i]); err != nil {
			t.Fatalf("WriteAudit: %v", err)
		}
	}

	got, err := database.EntityHistory(db, "task", 1)
	if err != nil {
		t.Fatalf("EntityHistory: %v", err)
	}
	if len(got) != 2 || got[0].Action != "first" || got[1].Action != "second" {
		t.Fatalf("history = %+v", got)
	}
	if got[0].User == nil || got[0].User.Username != "u" {
		t.Errorf("user not preloaded: %+v", got[0].User)
	}
}

func TestCreateAuditLog_UsesGlobalDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	u := testutil.NewFixtures(t, db).CreateUser("pm", models.RoleProjectManager)
	database.CreateAuditLog(u.ID, "client", 3, "create", "Создан клиент: Acme")

	var rec models.AuditLog
	if err := db.First(&rec).Error; err != nil {
		t.Fatalf("no audit row: %v", err)
	}
	if rec.Entity != "client" || rec.EntityID != 3 || rec.Action != "create" || rec.OldValue != nil {
		t.Errorf("record = %+v", rec)
	}
}
