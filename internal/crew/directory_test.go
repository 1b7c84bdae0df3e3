package crew_test

import (
	"testing"

	"studio-hub/internal/crew"
	"studio-hub/internal/models"
	"studio-hub/internal/testutil"
)

func TestDirectory_PrefixLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := crew.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"Jane Doe", "Janet King", "Bob Stone"} {
		if err := db.Create(&models.Freelancer{Name: name}).Error; err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	tests := []struct {
		name   string
		prefix string
		limit  int
		want   []string
	}{
		{name: "case insensitive prefix", prefix: "jan", want: []string{"Jane Doe", "Janet King"}},
		{name: "empty prefix lists all", prefix: "", want: []string{"Bob Stone", "Jane Doe", "Janet King"}},
		{name: "limit", prefix: "", limit: 1, want: []string{"Bob Stone"}},
		{name: "no match", prefix: "zed", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Directory(ctx, tt.prefix, tt.limit)
			if err != nil {
				t.Fatalf("Directory: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestDirectory_PrefixIsLiteral(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := crew.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"50% Films", "a_b", "axb"} {
		if err := db.Create(&models.Freelancer{Name: name}).Error; err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "%", want: nil},
		{prefix: "_", want: nil},
		{prefix: "a_", want: []string{"a_b"}},
		{prefix: "50%", want: []string{"50% Films"}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := r.Directory(ctx, tt.prefix, 0)
			if err != nil {
				t.Fatalf("Directory: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestSummary_FromDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	r := crew.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser("owner", models.RoleHR)
	u1 := fx.CreateUser("u1", models.RoleEmployee)
	s := fx.CreateShooting("Promo", owner.ID, nil)
	fx.CreateInternalCrew(s.ID, models.CrewCamper, u1.ID)
	fx.CreateFreelanceCrew(s.ID, models.CrewRunner, "Runner", 40)

	sum, err := r.Summary(ctx, s.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.HeadCount != 2 || sum.TotalCost != 40 {
		t.Errorf("summary = %+v, want 2 heads, cost 40", sum)
	}

	rows, err := r.Crew(ctx, s.ID)
	if err != nil {
		t.Fatalf("Crew: %v", err)
	}
	for _, row := range rows {
		if row.Kind == models.KindInternal && (row.User == nil || row.User.Username != "u1") {
			t.Errorf("internal row without preloaded user: %+v", row)
		}
	}
}
