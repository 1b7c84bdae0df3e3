package gate

import (
	"errors"
	"fmt"

	"studio-hub/internal/database"
	"studio-hub/internal/models"

	"gorm.io/gorm"
)

// ShootingApprovalHook ведёт связанную задачу вслед за согласованием съёмки:
// approved -> in_progress, rejected -> on_hold. Без задачи ничего не делает.
func ShootingApprovalHook(ev HookEvent) ([]Transition, error) {
	var target models.TaskStatus
	var verdict string
	for _, t := range ev.Applied {
		if t.Field != FieldStatus {
			continue
		}
		switch models.ShootingStatus(t.New) {
		case models.ShootingApproved:
			target, verdict = models.TaskInProgress, "approved"
		case models.ShootingRejected:
			target, verdict = models.TaskOnHold, "rejected"
		}
	}
	if target == "" {
		return nil, nil
	}

	var shooting models.ShootingRequest
	if err := ev.Tx.Select("id", "task_id").First(&shooting, ev.Request.EntityID).Error; err != nil {
		return nil, fmt.Errorf("load shooting %d: %w", ev.Request.EntityID, err)
	}
	if shooting.TaskID == nil {
		return nil, nil
	}

	var task models.Task
	err := ev.Tx.Select("id", "status").First(&task, *shooting.TaskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// задачу могли удалить, заявка при этом живёт
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load task %d: %w", *shooting.TaskID, err)
	}
	if task.Status == target {
		return nil, nil
	}

	if err := ev.Tx.Model(&models.Task{}).
		Where("id = ?", task.ID).
		Update("status", target).Error; err != nil {
		return nil, fmt.Errorf("update task %d: %w", task.ID, err)
	}

	t := Transition{
		Entity:   EntityTask,
		EntityID: task.ID,
		Field:    FieldStatus,
		Old:      string(task.Status),
		New:      string(target),
		ActorID:  ev.Request.ActorID,
		ActionID: ev.ActionID,
		At:       ev.At,
	}
	details := fmt.Sprintf("shooting #%d %s", shooting.ID, verdict)
	if err := database.WriteAudit(ev.Tx, auditRow(t, details)); err != nil {
		return nil, err
	}
	return []Transition{t}, nil
}

// holderOf: кому выдаётся оборудование; без явного держателя сам актор.
func holderOf(req Request) uint {
	if req.HolderID != 0 {
		return req.HolderID
	}
	return req.ActorID
}

func describeCheckout(req Request, ch Change) string {
	if ch.Field != FieldStatus || models.AssetStatus(ch.Value) != models.AssetCheckedOut {
		return ""
	}
	return fmt.Sprintf("holder #%d", holderOf(req))
}

// AssetHolderHook: при выдаче оборудование закрепляется за HolderID (или за
// тем, кто выдал), при любом другом статусе держатель сбрасывается.
func AssetHolderHook(ev HookEvent) ([]Transition, error) {
	for _, t := range ev.Applied {
		if t.Field != FieldStatus {
			continue
		}

		var holder any = gorm.Expr("NULL")
		if models.AssetStatus(t.New) == models.AssetCheckedOut {
			id := holderOf(ev.Request)
			var count int64
			if err := ev.Tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("check holder %d: %w", id, err)
			}
			if count == 0 {
				return nil, fmt.Errorf("%w: user %d", ErrInvalidHolder, id)
			}
			holder = id
		}
		if err := ev.Tx.Model(&models.Asset{}).
			Where("id = ?", ev.Request.EntityID).
			Update("holder_id", holder).Error; err != nil {
			return nil, fmt.Errorf("asset %d holder: %w", ev.Request.EntityID, err)
		}
	}
	return nil, nil
}
