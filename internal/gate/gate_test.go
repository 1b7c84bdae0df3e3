package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"studio-hub/internal/models"
	"studio-hub/internal/testutil"

	"gorm.io/gorm"
)

type recorder struct {
	got []Transition
}

func (r *recorder) Publish(t Transition) { r.got = append(r.got, t) }

type failingRoles struct{}

func (failingRoles) Roles(context.Context, uint) ([]models.UserRole, error) {
	return nil, errors.New("directory down")
}

func newGate(t *testing.T, db *gorm.DB) (*Gate, *recorder) {
	t.Helper()
	g := New(db, UserRoles{DB: db}, nil)
	rec := &recorder{}
	g.SetPublisher(rec)
	return g, rec
}

func auditRows(t *testing.T, db *gorm.DB, entity EntityType, id uint) []models.AuditLog {
	t.Helper()
	var rows []models.AuditLog
	if err := db.Where("entity = ? AND entity_id = ?", string(entity), id).Order("id asc").Find(&rows).Error; err != nil {
		t.Fatalf("load audit: %v", err)
	}
	return rows
}

func TestApply_RejectsActorOutsideAllowList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	g, rec := newGate(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser("pm", models.RoleProjectManager)
	employee := fx.CreateUser("emp", models.RoleEmployee)
	ev := fx.CreateEvent("Launch", owner.ID)

	// вызов напрямую, в обход UI
	_, err := g.Apply(ctx, Request{
		Entity:   EntityEvent,
		EntityID: ev.ID,
		ActorID:  employee.ID,
		Changes:  []Change{{Field: FieldStatus, Value: string(models.EventCancelled)}},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	var reloaded models.Event
	db.First(&reloaded, ev.ID)
	if reloaded.Status != models.EventScheduled {
		t.Errorf("status = %q, want unchanged", reloaded.Status)
	}
	if rows := auditRows(t, db, EntityEvent, ev.ID); len(rows) != 0 {
		t.Errorf("audit rows = %d, want 0", len(rows))
	}
	if len(rec.got) != 0 {
		t.Errorf("published %d transitions, want 0", len(rec.got))
	}
}

func TestApply_AuthorizationMatrix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	g, _ := newGate(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser("admin", models.RoleSuperAdmin)
	hr := fx.CreateUser("hr", models.RoleHR)
	pm := fx.CreateUser("pm", models.RoleProjectManager)
	creator := fx.CreateUser("creator", models.RoleEmployee)
	other := fx.CreateUser("other", models.RoleEmployee)

	task := fx.CreateTask("Edit reel", creator.ID)
	meeting := fx.CreateMeeting("Kickoff", creator.ID)
	event := fx.CreateEvent("Expo", creator.ID)
	shooting := fx.CreateShooting("Promo", creator.ID, nil)
	client := fx.CreateClient("Acme")
	project := fx.CreateProject("Campaign", client.ID, creator.ID)
	asset := fx.CreateAsset("FX3", "SN-1")

	tests := []struct {
		name    string
		entity  EntityType
		id      uint
		actor   uint
		value   string
		allowed bool
	}{
		{"task creator", EntityTask, task.ID, creator.ID, string(models.TaskInProgress), true},
		{"task pm", EntityTask, task.ID, pm.ID, string(models.TaskReview), true},
		{"task other employee", EntityTask, task.ID, other.ID, string(models.TaskDone), false},
		{"task hr", EntityTask, task.ID, hr.ID, string(models.TaskDone), false},
		{"meeting creator", EntityMeeting, meeting.ID, creator.ID, string(models.MeetingInProgress), true},
		{"meeting hr", EntityMeeting, meeting.ID, hr.ID, string(models.MeetingCompleted), true},
		{"meeting pm", EntityMeeting, meeting.ID, pm.ID, string(models.MeetingCancelled), false},
		{"event creator without role", EntityEvent, event.ID, creator.ID, string(models.EventOngoing), false},
		{"event pm", EntityEvent, event.ID, pm.ID, string(models.EventOngoing), true},
		{"shooting hr", EntityShooting, shooting.ID, hr.ID, string(models.ShootingApproved), true},
		{"shooting pm", EntityShooting, shooting.ID, pm.ID, string(models.ShootingRejected), false},
		{"shooting creator", EntityShooting, shooting.ID, creator.ID, string(models.ShootingRejected), false},
		{"project pm", EntityProject, project.ID, pm.ID, string(models.ProjectInProgress), true},
		{"project hr", EntityProject, project.ID, hr.ID, string(models.ProjectCancelled), false},
		{"asset admin", EntityAsset, asset.ID, admin.ID, string(models.AssetMaintenance), true},
		{"asset employee", EntityAsset, asset.ID, other.ID, string(models.AssetCheckedOut), false},
		{"unknown actor", EntityTask, task.ID, 9999, string(models.TaskDone), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			can, err := g.CanChange(ctx, tt.entity, tt.id, tt.actor)
			if err != nil {
				t.Fatalf("CanChange: %v", err)
			}
			if can != tt.allowed {
				t.Errorf("CanChange = %v, want %v", can, tt.allowed)
			}

			_, err = g.Apply(ctx, Request{
				Entity:   tt.entity,
				EntityID: tt.id,
				ActorID:  tt.actor,
				Changes:  []Change{{Field: FieldStatus, Value: tt.value}},
			})
			if tt.allowed && err != nil {
				t.Errorf("Apply: %v", err)
			}
			if !tt.allowed && !errors.Is(err, ErrForbidden) {
				t.Errorf("Apply err = %v, want ErrForbidden", err)
			}
		})
	}
}

func TestApply_StatusAndPhaseProduceTwoAuditRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	g, rec := newGate(t, db)
	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pm := fx.CreateUser("pm", models.RoleProjectManager)
	ev := fx.CreateEvent("Expo", pm.ID)

	out, err := g.Apply(ctx, Request{
		Entity:   EntityEvent,
		EntityID: ev.ID,
		ActorID:  pm.ID,
		Changes: []Change{
			{Field: FieldStatus, Value: string(models.EventOngoing)},
			{Field: FieldPhase, Value: string(models.PhaseProduction)},
		},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Applied) != 2 {
		t.Fatalf("applied = %d, want 2", len(out.Applied))
	}

	rows := auditRows(t, db, EntityEvent, ev.ID)
	if len(rows) != 2 {
		t.Fatalf("audit rows = %d, want 2", len(rows))
	}

	want := []struct {
		field, old, new string
	}{
		{"status", string(models.EventScheduled), string(models.EventOngoing)},
		{"phase", string(models.PhasePlanning), string(models.PhaseProduction)},
	}
	for i, w := range want {
		r := rows[i]
		if r.Field != w.field || *r.OldValue != w.old || *r.NewValue != w.new {
			t.Errorf("row %d = %s %s->%s, want %s %s->%s", i, r.Field, *r.OldValue, *r.NewValue, w.field, w.old, w.new)
		}
		if r.Action != w.field+"_change" {
			t.Errorf("row %d action = %q", i, r.Action)
		}
		if r.UserID != pm.ID {
			t.Errorf("row %d actor = %d, want %d", i, r.UserID, pm.ID)
		}
		if r.ActionID != out.ActionID || r.ActionID == "" {
			t.Errorf("row %d action id = %q, want %q", i, r.ActionID, out.ActionID)
		}
		if !r.CreatedAt.Equal(fixed) {
			t.Errorf("row %d created_at = %v, want %v", i, r.CreatedAt, fixed)
		}
	}

	var reloaded models.Event
	db.First(&reloaded, ev.ID)
	if reloaded.Status != models.EventOngoing || reloaded.Phase != models.PhaseProduction {
		t.Errorf("event = %s/%s", reloaded.Status, reloaded.Phase)
	}
	if len(rec.got) != 2 {
		t.Errorf("published = %d, want 2", len(rec.got))
	}
}

func TestApply_AnyLabelToAnyLabel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	g, _ := newGate(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pm := fx.CreateUser("pm", models.RoleProjectManager)
	ev := fx.CreateEvent("Expo", pm.ID)

	for _, phase := range []models.EventPhase{models.PhaseDelivered, models.PhasePlanning, models.PhasePostProduction} {
		_, err := g.Apply(ctx, Request{
			Entity:   EntityEvent,
			EntityID: ev.ID,
			ActorID:  pm.ID,
			Changes:  []Change{{Field: FieldPhase, Value: string(phase)}},
		})
		if err != nil {
			t.Fatalf("phase %s: %v", phase, err)
		}
	}
	if rows := auditRows(t, db, EntityEvent, ev.ID); len(rows) != 3 {
		t.Errorf("audit rows = %d, want 3", len(rows))
	}
}

func TestApply_UnchangedValueWritesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	g, _ := newGate(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pm := fx.CreateUser("pm", models.RoleProjectManager)
	task := fx.CreateTask("Color", pm.ID)

	out, err := g.Apply(ctx, Request{
		Entity:   EntityTask,
		EntityID: task.ID,
		ActorID:  pm.ID,
		Changes:  []Change{{Field: FieldStatus, Value: string(models.TaskTodo)}},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Applied) != 0 {
		t.Errorf("applied = %d, want 0", len(out.Applied))
	}
	if rows := auditRows(t, db, EntityTask, task.ID); len(rows) != 0 {
		t.Errorf("audit rows = %d, want 0", len(rows))
	}
}

func TestApply_InvalidRequests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	g, _ := newGate(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser("admin", models.RoleSuperAdmin)
	task := fx.CreateTask("Color", admin.ID)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{
			name: "unknown label",
			req:  Request{Entity: EntityTask, EntityID: task.ID, ActorID: admin.ID, Changes: []Change{{Field: FieldStatus, Value: "archived"}}},
			want: ErrInvalidLabel,
		},
		{
			name: "field the entity does not have",
			req:  Request{Entity: EntityTask, EntityID: task.ID, ActorID: admin.ID, Changes: []Change{{Field: FieldPhase, Value: string(models.PhasePlanning)}}},
			want: ErrInvalidLabel,
		},
		{
			name: "field twice",
			req: Request{Entity: EntityTask, EntityID: task.ID, ActorID: admin.ID, Changes: []Change{
				{Field: FieldStatus, Value: string(models.TaskDone)},
				{Field: FieldStatus, Value: string(models.TaskReview)},
			}},
			want: ErrInvalidLabel,
		},
		{
			name: "no changes",
			req:  Request{Entity: EntityTask, EntityID: task.ID, ActorID: admin.ID},
			want: ErrNoChanges,
		},
		{
			name: "unknown entity type",
			req:  Request{Entity: "payroll", EntityID: 1, ActorID: admin.ID, Changes: []Change{{Field: FieldStatus, Value: "x"}}},
			want: ErrUnknownEntity,
		},
		{
			name: "missing entity",
			req:  Request{Entity: EntityTask, EntityID: 9999, ActorID: admin.ID, Changes: []Change{{Field: FieldStatus, Value: string(models.TaskDone)}}},
			want: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Apply(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApply_RoleLookupFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	g := New(db, failingRoles{}, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pm := fx.CreateUser("pm", models.RoleProjectManager)
	task := fx.CreateTask("Color", pm.ID)

	_, err := g.Apply(ctx, Request{
		Entity:   EntityTask,
		EntityID: task.ID,
		ActorID:  pm.ID,
		Changes:  []Change{{Field: FieldStatus, Value: string(models.TaskDone)}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var reloaded models.Task
	db.First(&reloaded, task.ID)
	if reloaded.Status != models.TaskTodo {
		t.Errorf("status = %q, want unchanged", reloaded.Status)
	}
}

func TestApply_HookFailureRollsBackFieldAndAudit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	g, rec := newGate(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, _ := g.Policy(EntityMeeting)
	p.Hooks = []Hook{func(HookEvent) ([]Transition, error) { return nil, errors.New("calendar sync failed") }}
	g.Register(p)

	hr := fx.CreateUser("hr", models.RoleHR)
	m := fx.CreateMeeting("Review", hr.ID)

	_, err := g.Apply(ctx, Request{
		Entity:   EntityMeeting,
		EntityID: m.ID,
		ActorID:  hr.ID,
		Changes:  []Change{{Field: FieldStatus, Value: string(models.MeetingCompleted)}},
	})
	if err == nil {
		t.Fatal("expected hook error")
	}

	var reloaded models.Meeting
	db.First(&reloaded, m.ID)
	if reloaded.Status != models.MeetingScheduled {
		t.Errorf("status = %q, want rollback", reloaded.Status)
	}
	if rows := auditRows(t, db, EntityMeeting, m.ID); len(rows) != 0 {
		t.Errorf("audit rows = %d, want 0", len(rows))
	}
	if len(rec.got) != 0 {
		t.Errorf("published %d, want 0", len(rec.got))
	}
}

func TestHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	g, _ := newGate(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pm := fx.CreateUser("pm", models.RoleProjectManager)
	task := fx.CreateTask("Color", pm.ID)

	for _, s := range []models.TaskStatus{models.TaskInProgress, models.TaskDone} {
		if _, err := g.Apply(ctx, Request{
			Entity: EntityTask, EntityID: task.ID, ActorID: pm.ID,
			Changes: []Change{{Field: FieldStatus, Value: string(s)}},
		}); err != nil {
			t.Fatalf("Apply %s: %v", s, err)
		}
	}

	logs, err := g.History(ctx, EntityTask, task.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("history = %d rows, want 2", len(logs))
	}
	if *logs[0].NewValue != string(models.TaskInProgress) || *logs[1].NewValue != string(models.TaskDone) {
		t.Errorf("history order wrong: %s, %s", *logs[0].NewValue, *logs[1].NewValue)
	}
	if logs[0].User == nil || logs[0].User.Username != "pm" {
		t.Errorf("history user not preloaded")
	}

	if _, err := g.History(ctx, "payroll", 1); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("err = %v, want ErrUnknownEntity", err)
	}
}

func TestUserRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fx.CreateUser("hr", models.RoleHR)
	src := UserRoles{DB: db}

	roles, err := src.Roles(ctx, hr.ID)
	if err != nil {
		t.Fatalf("Roles: %v", err)
	}
	if len(roles) != 1 || roles[0] != models.RoleHR {
		t.Errorf("roles = %v, want [hr]", roles)
	}

	roles, err = src.Roles(ctx, 4242)
	if err != nil || len(roles) != 0 {
		t.Errorf("unknown actor: roles = %v, err = %v", roles, err)
	}
}
