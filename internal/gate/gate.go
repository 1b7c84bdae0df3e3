// Package gate меняет статус или фазу задач, событий, встреч, заявок на
// съёмку, проектов и оборудования.
//
// Смена метки безусловная: любая метка из набора может заменить любую другую.
// Права проверяются здесь же, до записи. На каждое изменённое поле пишется
// строка журнала, затем выполняются хуки сущности. Всё это в одной транзакции.
package gate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"studio-hub/internal/database"
	"studio-hub/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EntityType string

const (
	EntityTask     EntityType = "task"
	EntityEvent    EntityType = "event"
	EntityMeeting  EntityType = "meeting"
	EntityShooting EntityType = "shooting"
	EntityProject  EntityType = "project"
	EntityAsset    EntityType = "asset"
)

type Field string

const (
	FieldStatus Field = "status"
	FieldPhase  Field = "phase"
)

var (
	ErrForbidden     = errors.New("gate: actor may not change this entity")
	ErrInvalidLabel  = errors.New("gate: invalid label")
	ErrNotFound      = errors.New("gate: entity not found")
	ErrUnknownEntity = errors.New("gate: unknown entity type")
	ErrNoChanges     = errors.New("gate: no changes requested")
	ErrInvalidHolder = errors.New("gate: holder does not exist")
)

type Change struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Request: одно действие пользователя, одно или несколько полей одной сущности.
type Request struct {
	Entity   EntityType
	EntityID uint
	ActorID  uint
	Changes  []Change
	// HolderID: кому выдаётся оборудование при checked_out. 0 означает самого ActorID.
	HolderID uint
}

// Transition: одно применённое изменение поля.
type Transition struct {
	Entity   EntityType `json:"entity"`
	EntityID uint       `json:"entity_id"`
	Field    Field      `json:"field"`
	Old      string     `json:"old"`
	New      string     `json:"new"`
	ActorID  uint       `json:"actor_id"`
	ActionID string     `json:"action_id"`
	At       time.Time  `json:"at"`
}

// Outcome: переходы, записанные Apply, вместе с переходами из хуков.
// Изменения, совпавшие с текущим значением, сюда не попадают.
type Outcome struct {
	ActionID string       `json:"action_id"`
	Applied  []Transition `json:"applied"`
}

// RoleSource отдаёт текущие роли пользователя.
type RoleSource interface {
	Roles(ctx context.Context, actorID uint) ([]models.UserRole, error)
}

// Publisher получает переходы после коммита.
type Publisher interface {
	Publish(t Transition)
}

type Gate struct {
	db       *gorm.DB
	roles    RoleSource
	log      *zap.Logger
	pub      Publisher
	now      func() time.Time
	policies map[EntityType]Policy
}

// New создаёт Gate со стандартной таблицей правил.
func New(db *gorm.DB, roles RoleSource, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gate{
		db:       db,
		roles:    roles,
		log:      log,
		now:      time.Now,
		policies: make(map[EntityType]Policy),
	}
	for _, p := range DefaultPolicies() {
		g.Register(p)
	}
	return g
}

// Register добавляет или заменяет правила для p.Entity.
func (g *Gate) Register(p Policy) {
	g.policies[p.Entity] = p
}

func (g *Gate) SetPublisher(p Publisher) {
	g.pub = p
}

func (g *Gate) Policy(entity EntityType) (Policy, bool) {
	p, ok := g.policies[entity]
	return p, ok
}

// Apply проверяет права и применяет req.
func (g *Gate) Apply(ctx context.Context, req Request) (Outcome, error) {
	p, ok := g.policies[req.Entity]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownEntity, req.Entity)
	}
	if err := p.validate(req.Changes); err != nil {
		return Outcome{}, err
	}

	roles, err := g.roles.Roles(ctx, req.ActorID)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve roles for %d: %w", req.ActorID, err)
	}

	out := Outcome{ActionID: uuid.NewString()}
	at := g.now()

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		out.Applied = nil

		snap, err := p.load(tx, req.EntityID)
		if err != nil {
			return err
		}
		if !p.allows(roles, snap.CreatedBy, req.ActorID) {
			return fmt.Errorf("%w: %s %d", ErrForbidden, req.Entity, req.EntityID)
		}

		for _, ch := range req.Changes {
			old := snap.value(ch.Field)
			if old == ch.Value {
				continue
			}

			err := tx.Model(p.New()).
				Where("id = ?", req.EntityID).
				Update(string(ch.Field), ch.Value).Error
			if err != nil {
				return fmt.Errorf("update %s %d %s: %w", req.Entity, req.EntityID, ch.Field, err)
			}

			t := Transition{
				Entity:   req.Entity,
				EntityID: req.EntityID,
				Field:    ch.Field,
				Old:      old,
				New:      ch.Value,
				ActorID:  req.ActorID,
				ActionID: out.ActionID,
				At:       at,
			}
			if err := database.WriteAudit(tx, auditRow(t, p.describe(req, ch))); err != nil {
				return err
			}
			out.Applied = append(out.Applied, t)
		}

		if len(out.Applied) == 0 {
			return nil
		}

		direct := slices.Clone(out.Applied)
		for _, hook := range p.Hooks {
			extra, err := hook(HookEvent{Tx: tx, Request: req, ActionID: out.ActionID, At: at, Applied: direct})
			if err != nil {
				return fmt.Errorf("%s hook: %w", req.Entity, err)
			}
			out.Applied = append(out.Applied, extra...)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	for _, t := range out.Applied {
		g.log.Info("label changed",
			zap.String("entity", string(t.Entity)),
			zap.Uint("entity_id", t.EntityID),
			zap.String("field", string(t.Field)),
			zap.String("old", t.Old),
			zap.String("new", t.New),
			zap.Uint("actor_id", t.ActorID),
			zap.String("action_id", t.ActionID),
		)
		if g.pub != nil {
			g.pub.Publish(t)
		}
	}
	return out, nil
}

// CanChange: может ли пользователь менять сущность. Нужно только клиенту,
// чтобы решить, показывать ли кнопки; Apply проверяет заново.
func (g *Gate) CanChange(ctx context.Context, entity EntityType, entityID, actorID uint) (bool, error) {
	p, ok := g.policies[entity]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	roles, err := g.roles.Roles(ctx, actorID)
	if err != nil {
		return false, fmt.Errorf("resolve roles for %d: %w", actorID, err)
	}
	snap, err := p.load(g.db.WithContext(ctx), entityID)
	if err != nil {
		return false, err
	}
	return p.allows(roles, snap.CreatedBy, actorID), nil
}

// History: журнал одной сущности, старые записи первыми.
func (g *Gate) History(ctx context.Context, entity EntityType, entityID uint) ([]models.AuditLog, error) {
	if _, ok := g.policies[entity]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	return database.EntityHistory(g.db.WithContext(ctx), string(entity), entityID)
}

func auditRow(t Transition, details string) *models.AuditLog {
	old, next := t.Old, t.New
	return &models.AuditLog{
		CreatedAt: t.At,
		UserID:    t.ActorID,
		Entity:    string(t.Entity),
		EntityID:  t.EntityID,
		Action:    string(t.Field) + "_change",
		Field:     string(t.Field),
		OldValue:  &old,
		NewValue:  &next,
		ActionID:  t.ActionID,
		Details:   details,
	}
}
