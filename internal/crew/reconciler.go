// Package crew приводит состав съёмочной группы к тому, что выбрали в форме:
// сотрудники по ролям и фрилансеры.
//
// Внутренние строки (одна группа на съёмку и роль) при каждом сохранении
// пересоздаются целиком: всё удаляется, затем вставляется по строке на
// выбранного сотрудника. Это намеренно не минимальный diff. Строки фрилансеров
// хранят свои данные, поэтому их сравнивают: новые вставляются, известные
// обновляются на месте, выброшенные удаляются.
//
// Каждая операция идёт в одной транзакции. Ошибка на любом шаге оставляет
// таблицу в прежнем виде.
package crew

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"studio-hub/internal/models"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("crew: invalid input")
	ErrNotFound   = errors.New("crew: shooting request not found")
)

// FreelanceInput: строка фрилансера в том виде, как её хотят сохранить.
// ID == 0 означает новую строку.
type FreelanceInput struct {
	ID      uint            `json:"id,omitempty"`
	Role    models.CrewRole `json:"role"`
	Name    string          `json:"name"`
	Contact string          `json:"contact,omitempty"`
	Company string          `json:"company,omitempty"`
	Cost    float64         `json:"cost"`
}

// Plan: полное состояние формы состава группы.
//
// Internal: роль -> нужные id сотрудников. Роли, которых нет в map, не
// трогаются; роль с пустым списком очищается.
// Freelancers: полный нужный список фрилансеров съёмки. Removed: id строк,
// убранных в форме; сохранённые строки, которых нет в Freelancers, тоже
// удаляются.
type Plan struct {
	ShootingID  uint                       `json:"-"`
	Internal    map[models.CrewRole][]uint `json:"internal"`
	Freelancers []FreelanceInput           `json:"freelancers"`
	Removed     []uint                     `json:"removed,omitempty"`
}

// Result: сколько строк записал Apply.
type Result struct {
	InternalRows   int `json:"internal_rows"`
	Inserted       int `json:"inserted"`
	Updated        int `json:"updated"`
	Deleted        int `json:"deleted"`
	DirectoryAdded int `json:"directory_added"`
}

type Reconciler struct {
	db     *gorm.DB
	log    *zap.Logger
	strict *bluemonday.Policy
}

func New(db *gorm.DB, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{db: db, log: log, strict: bluemonday.StrictPolicy()}
}

// ReplacePartition делает внутренние строки (shootingID, role) равными userIDs.
// Все строки группы удаляются и создаются заново, даже неизменённые.
func (r *Reconciler) ReplacePartition(ctx context.Context, shootingID uint, role models.CrewRole, userIDs []uint) error {
	if !models.ValidCrewRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	ids, err := uniqueUserIDs(role, userIDs)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireShooting(tx, shootingID); err != nil {
			return err
		}
		if err := requireUsers(tx, ids); err != nil {
			return err
		}
		_, err := replacePartition(tx, shootingID, role, ids)
		return err
	})
}

// Apply сводит все роли из плана и строки фрилансеров.
func (r *Reconciler) Apply(ctx context.Context, plan Plan) (Result, error) {
	p, err := r.prepare(plan)
	if err != nil {
		return Result{}, err
	}

	var res Result
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res = Result{}

		if err := requireShooting(tx, p.shootingID); err != nil {
			return err
		}
		if err := requireUsers(tx, p.allUserIDs()); err != nil {
			return err
		}

		for _, role := range models.CrewRoles {
			ids, ok := p.internal[role]
			if !ok {
				continue
			}
			n, err := replacePartition(tx, p.shootingID, role, ids)
			if err != nil {
				return err
			}
			res.InternalRows += n
		}

		if err := r.applyFreelancers(tx, p, &res); err != nil {
			return err
		}

		for _, in := range p.freelancers {
			added, err := rememberFreelancer(tx, in)
			if err != nil {
				return err
			}
			if added {
				res.DirectoryAdded++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	r.log.Info("crew reconciled",
		zap.Uint("shooting_id", p.shootingID),
		zap.Int("internal_rows", res.InternalRows),
		zap.Int("freelance_inserted", res.Inserted),
		zap.Int("freelance_updated", res.Updated),
		zap.Int("freelance_deleted", res.Deleted),
		zap.Int("directory_added", res.DirectoryAdded),
	)
	return res, nil
}

// Crew: сохранённый состав съёмки, у внутренних строк подгружен пользователь.
func (r *Reconciler) Crew(ctx context.Context, shootingID uint) ([]models.CrewAssignment, error) {
	db := r.db.WithContext(ctx)
	if err := requireShooting(db, shootingID); err != nil {
		return nil, err
	}

	var rows []models.CrewAssignment
	err := db.Where("shooting_id = ?", shootingID).
		Preload("User").
		Order("role asc, kind asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load crew: %w", err)
	}
	return rows, nil
}

func (r *Reconciler) applyFreelancers(tx *gorm.DB, p prepared, res *Result) error {
	var persisted []models.CrewAssignment
	if err := tx.Select("id").
		Where("shooting_id = ? AND kind = ?", p.shootingID, models.KindFreelance).
		Find(&persisted).Error; err != nil {
		return fmt.Errorf("load freelance rows: %w", err)
	}

	known := make(map[uint]bool, len(persisted))
	for _, row := range persisted {
		known[row.ID] = true
	}

	keep := make(map[uint]bool)
	for _, in := range p.freelancers {
		if in.ID == 0 {
			continue
		}
		if !known[in.ID] {
			return fmt.Errorf("%w: freelance row %d does not belong to shooting %d", ErrValidation, in.ID, p.shootingID)
		}
		keep[in.ID] = true
	}

	var drop []uint
	for _, row := range persisted {
		if !keep[row.ID] || p.removed[row.ID] {
			drop = append(drop, row.ID)
		}
	}
	if len(drop) > 0 {
		q := tx.Where("id IN ? AND shooting_id = ? AND kind = ?", drop, p.shootingID, models.KindFreelance).
			Delete(&models.CrewAssignment{})
		if q.Error != nil {
			return fmt.Errorf("delete freelance rows: %w", q.Error)
		}
		res.Deleted = int(q.RowsAffected)
	}

	var fresh []models.CrewAssignment
	for _, in := range p.freelancers {
		if in.ID == 0 {
			fresh = append(fresh, models.CrewAssignment{
				ShootingID: p.shootingID,
				Role:       in.Role,
				Kind:       models.KindFreelance,
				Name:       in.Name,
				Contact:    in.Contact,
				Company:    in.Company,
				Cost:       in.Cost,
			})
			continue
		}

		// в строке меняются только имя, ставка и роль
		err := tx.Model(&models.CrewAssignment{}).
			Where("id = ?", in.ID).
			Updates(map[string]any{
				"name": in.Name,
				"cost": in.Cost,
				"role": in.Role,
			}).Error
		if err != nil {
			return fmt.Errorf("update freelance row %d: %w", in.ID, err)
		}
		res.Updated++
	}

	if len(fresh) > 0 {
		if err := tx.Create(&fresh).Error; err != nil {
			return fmt.Errorf("insert freelance rows: %w", err)
		}
		res.Inserted = len(fresh)
	}
	return nil
}

func replacePartition(tx *gorm.DB, shootingID uint, role models.CrewRole, ids []uint) (int, error) {
	err := tx.Where("shooting_id = ? AND role = ? AND kind = ?", shootingID, role, models.KindInternal).
		Delete(&models.CrewAssignment{}).Error
	if err != nil {
		return 0, fmt.Errorf("clear %s partition: %w", role, err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	rows := make([]models.CrewAssignment, 0, len(ids))
	for _, id := range ids {
		uid := id
		rows = append(rows, models.CrewAssignment{
			ShootingID: shootingID,
			Role:       role,
			Kind:       models.KindInternal,
			UserID:     &uid,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("insert %s partition: %w", role, err)
	}
	return len(rows), nil
}

// rememberFreelancer добавляет имя в справочник, если его там ещё нет.
func rememberFreelancer(tx *gorm.DB, in FreelanceInput) (bool, error) {
	var n int64
	if err := tx.Model(&models.Freelancer{}).Where("name = ?", in.Name).Count(&n).Error; err != nil {
		return false, fmt.Errorf("freelancer directory %q: %w", in.Name, err)
	}
	if n > 0 {
		return false, nil
	}

	entry := models.Freelancer{Name: in.Name, Contact: in.Contact, Company: in.Company, LastCost: in.Cost}
	if err := tx.Create(&entry).Error; err != nil {
		return false, fmt.Errorf("freelancer directory %q: %w", in.Name, err)
	}
	return true, nil
}

func requireShooting(db *gorm.DB, id uint) error {
	var s models.ShootingRequest
	err := db.Select("id").First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("load shooting %d: %w", id, err)
	}
	return nil
}

func requireUsers(db *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := db.Model(&models.User{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if int(n) != len(ids) {
		return fmt.Errorf("%w: unknown user in crew selection", ErrValidation)
	}
	return nil
}

type prepared struct {
	shootingID  uint
	internal    map[models.CrewRole][]uint
	freelancers []FreelanceInput
	removed     map[uint]bool
}

func (p prepared) allUserIDs() []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, role := range models.CrewRoles {
		for _, id := range p.internal[role] {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// prepare проверяет и нормализует план до любой записи.
func (r *Reconciler) prepare(plan Plan) (prepared, error) {
	if plan.ShootingID == 0 {
		return prepared{}, fmt.Errorf("%w: shooting id is required", ErrValidation)
	}

	p := prepared{
		shootingID: plan.ShootingID,
		internal:   make(map[models.CrewRole][]uint, len(plan.Internal)),
		removed:    make(map[uint]bool, len(plan.Removed)),
	}

	for role, ids := range plan.Internal {
		if !models.ValidCrewRole(role) {
			return prepared{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
		}
		clean, err := uniqueUserIDs(role, ids)
		if err != nil {
			return prepared{}, err
		}
		p.internal[role] = clean
	}

	for _, id := range plan.Removed {
		p.removed[id] = true
	}

	seenIDs := make(map[uint]bool)
	for i, in := range plan.Freelancers {
		if !models.ValidCrewRole(in.Role) {
			return prepared{}, fmt.Errorf("%w: freelancer %d: unknown role %q", ErrValidation, i+1, in.Role)
		}
		in.Name = r.clean(in.Name)
		in.Contact = r.clean(in.Contact)
		in.Company = r.clean(in.Company)
		if in.Name == "" {
			return prepared{}, fmt.Errorf("%w: freelancer %d: name is required", ErrValidation, i+1)
		}
		if in.Cost < 0 {
			return prepared{}, fmt.Errorf("%w: freelancer %q: negative cost", ErrValidation, in.Name)
		}
		if in.ID != 0 {
			if seenIDs[in.ID] {
				return prepared{}, fmt.Errorf("%w: freelance row %d listed twice", ErrValidation, in.ID)
			}
			if p.removed[in.ID] {
				return prepared{}, fmt.Errorf("%w: freelance row %d is both kept and removed", ErrValidation, in.ID)
			}
			seenIDs[in.ID] = true
		}
		p.freelancers = append(p.freelancers, in)
	}

	return p, nil
}

func (r *Reconciler) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(s)))
}

func uniqueUserIDs(role models.CrewRole, ids []uint) ([]uint, error) {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, fmt.Errorf("%w: %s: empty user id", ErrValidation, role)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}
