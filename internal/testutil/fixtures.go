package testutil

import (
	"testing"
	"time"

	"studio-hub/internal/models"

	"gorm.io/gorm"
)

// Fixtures создаёт тестовые данные.
type Fixtures struct {
	db *gorm.DB
	t  *testing.T
}

// NewFixtures: фикстуры поверх тестовой БД.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

func (f *Fixtures) create(v any, what string) {
	f.t.Helper()
	if err := f.db.Create(v).Error; err != nil {
		f.t.Fatalf("failed to create test %s: %v", what, err)
	}
}

// CreateUser создаёт пользователя с ролью. Хеш пароля заглушка; для входа
// нужен CreateUserWithHash.
func (f *Fixtures) CreateUser(username string, role models.UserRole) models.User {
	f.t.Helper()
	u := models.User{Username: username, FullName: username, PasswordHash: "x", Role: role}
	f.create(&u, "user")
	return u
}

// CreateUserWithHash создаёт пользователя с готовым bcrypt-хешем.
func (f *Fixtures) CreateUserWithHash(username, hash string, role models.UserRole) models.User {
	f.t.Helper()
	u := models.User{Username: username, FullName: username, PasswordHash: hash, Role: role}
	f.create(&u, "user")
	return u
}

func (f *Fixtures) CreateClient(name string) models.Client {
	f.t.Helper()
	c := models.Client{Name: name}
	f.create(&c, "client")
	return c
}

func (f *Fixtures) CreateProject(title string, clientID, createdBy uint) models.Project {
	f.t.Helper()
	p := models.Project{ClientID: clientID, Title: title, Status: models.ProjectPlanned, CreatedBy: createdBy}
	f.create(&p, "project")
	return p
}

func (f *Fixtures) CreateTask(title string, createdBy uint) models.Task {
	f.t.Helper()
	task := models.Task{Title: title, Status: models.TaskTodo, CreatedBy: createdBy}
	f.create(&task, "task")
	return task
}

func (f *Fixtures) CreateEvent(title string, createdBy uint) models.Event {
	f.t.Helper()
	e := models.Event{Title: title, Status: models.EventScheduled, Phase: models.PhasePlanning, CreatedBy: createdBy}
	f.create(&e, "event")
	return e
}

func (f *Fixtures) CreateMeeting(title string, createdBy uint) models.Meeting {
	f.t.Helper()
	m := models.Meeting{Title: title, Status: models.MeetingScheduled, CreatedBy: createdBy}
	f.create(&m, "meeting")
	return m
}

// CreateShooting создаёт заявку в статусе pending, можно со связанной задачей.
func (f *Fixtures) CreateShooting(title string, createdBy uint, taskID *uint) models.ShootingRequest {
	f.t.Helper()
	at := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)
	s := models.ShootingRequest{
		Title:     title,
		TaskID:    taskID,
		ShootAt:   &at,
		Status:    models.ShootingPending,
		CreatedBy: createdBy,
	}
	f.create(&s, "shooting request")
	return s
}

func (f *Fixtures) CreateAsset(name, serial string) models.Asset {
	f.t.Helper()
	a := models.Asset{Name: name, Category: "camera", Serial: serial, Status: models.AssetAvailable}
	f.create(&a, "asset")
	return a
}

// CreateInternalCrew вставляет внутренние строки состава напрямую, минуя Reconciler.
func (f *Fixtures) CreateInternalCrew(shootingID uint, role models.CrewRole, userIDs ...uint) {
	f.t.Helper()
	for _, id := range userIDs {
		uid := id
		row := models.CrewAssignment{ShootingID: shootingID, Role: role, Kind: models.KindInternal, UserID: &uid}
		f.create(&row, "crew row")
	}
}

// CreateFreelanceCrew вставляет одну строку фрилансера напрямую.
func (f *Fixtures) CreateFreelanceCrew(shootingID uint, role models.CrewRole, name string, cost float64) models.CrewAssignment {
	f.t.Helper()
	row := models.CrewAssignment{ShootingID: shootingID, Role: role, Kind: models.KindFreelance, Name: name, Cost: cost}
	f.create(&row, "freelance crew row")
	return row
}
