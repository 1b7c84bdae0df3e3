package gate

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"studio-hub/internal/models"

	"gorm.io/gorm"
)

// HookEvent передаётся хукам внутри транзакции Apply.
type HookEvent struct {
	Tx       *gorm.DB
	Request  Request
	ActionID string
	At       time.Time
	Applied  []Transition
}

// Hook выполняет побочные эффекты смены для конкретной сущности.
// Возвращённые переходы попадают в Outcome и публикуются вместе с прямыми.
type Hook func(ev HookEvent) ([]Transition, error)

// Policy: правила смены меток для одного типа сущности.
type Policy struct {
	Entity EntityType
	// New отдаёт новый указатель на модель таблицы сущности.
	New func() any
	// Labels: закрытый набор меток для каждого поля.
	Labels map[Field][]string
	// Roles могут менять любую сущность этого типа.
	Roles []models.UserRole
	// CreatorAllowed: автор сущности может менять её при любой роли.
	CreatorAllowed bool
	Hooks          []Hook
	// Describe заполняет details строки журнала для прямого изменения.
	Describe func(req Request, ch Change) string
}

// DefaultPolicies: кто что может менять.
func DefaultPolicies() []Policy {
	return []Policy{
		{
			Entity:         EntityTask,
			New:            func() any { return &models.Task{} },
			Labels:         map[Field][]string{FieldStatus: models.TaskStatuses},
			Roles:          []models.UserRole{models.RoleSuperAdmin, models.RoleProjectManager},
			CreatorAllowed: true,
		},
		{
			Entity: EntityEvent,
			New:    func() any { return &models.Event{} },
			Labels: map[Field][]string{
				FieldStatus: models.EventStatuses,
				FieldPhase:  models.EventPhases,
			},
			Roles: []models.UserRole{models.RoleSuperAdmin, models.RoleHR, models.RoleProjectManager},
		},
		{
			Entity:         EntityMeeting,
			New:            func() any { return &models.Meeting{} },
			Labels:         map[Field][]string{FieldStatus: models.MeetingStatuses},
			Roles:          []models.UserRole{models.RoleSuperAdmin, models.RoleHR},
			CreatorAllowed: true,
		},
		{
			Entity: EntityShooting,
			New:    func() any { return &models.ShootingRequest{} },
			Labels: map[Field][]string{FieldStatus: models.ShootingStatuses},
			Roles:  []models.UserRole{models.RoleHR, models.RoleSuperAdmin},
			Hooks:  []Hook{ShootingApprovalHook},
		},
		{
			Entity: EntityProject,
			New:    func() any { return &models.Project{} },
			Labels: map[Field][]string{FieldStatus: models.ProjectStatuses},
			Roles:  []models.UserRole{models.RoleSuperAdmin, models.RoleProjectManager},
		},
		{
			Entity:   EntityAsset,
			New:      func() any { return &models.Asset{} },
			Labels:   map[Field][]string{FieldStatus: models.AssetStatuses},
			Roles:    []models.UserRole{models.RoleSuperAdmin, models.RoleHR},
			Hooks:    []Hook{AssetHolderHook},
			Describe: describeCheckout,
		},
	}
}

func (p Policy) describe(req Request, ch Change) string {
	if p.Describe == nil {
		return ""
	}
	return p.Describe(req, ch)
}

func (p Policy) validate(changes []Change) error {
	if len(changes) == 0 {
		return ErrNoChanges
	}
	seen := make(map[Field]bool, len(changes))
	for _, ch := range changes {
		labels, ok := p.Labels[ch.Field]
		if !ok {
			return fmt.Errorf("%w: %s has no field %q", ErrInvalidLabel, p.Entity, ch.Field)
		}
		if seen[ch.Field] {
			return fmt.Errorf("%w: field %q changed twice", ErrInvalidLabel, ch.Field)
		}
		seen[ch.Field] = true
		if !slices.Contains(labels, ch.Value) {
			return fmt.Errorf("%w: %q is not a %s %s", ErrInvalidLabel, ch.Value, p.Entity, ch.Field)
		}
	}
	return nil
}

func (p Policy) allows(roles []models.UserRole, createdBy, actorID uint) bool {
	if p.CreatorAllowed && actorID != 0 && createdBy == actorID {
		return true
	}
	for _, r := range roles {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

type snapshot struct {
	ID        uint
	Status    string
	Phase     string
	CreatedBy uint
}

func (s snapshot) value(f Field) string {
	switch f {
	case FieldPhase:
		return s.Phase
	default:
		return s.Status
	}
}

func (p Policy) load(db *gorm.DB, id uint) (snapshot, error) {
	cols := []string{"id"}
	for _, f := range []Field{FieldStatus, FieldPhase} {
		if _, ok := p.Labels[f]; ok {
			cols = append(cols, string(f))
		}
	}
	if p.CreatorAllowed {
		cols = append(cols, "created_by")
	}

	var snap snapshot
	err := db.Model(p.New()).Select(cols).Where("id = ?", id).Take(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return snapshot{}, fmt.Errorf("%w: %s %d", ErrNotFound, p.Entity, id)
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("load %s %d: %w", p.Entity, id, err)
	}
	return snap, nil
}
