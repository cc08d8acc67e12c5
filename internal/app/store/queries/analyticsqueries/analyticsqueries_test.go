package analyticsqueries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/policy/requestpolicy"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/analyticsqueries"
	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	reqs   *requeststore.MemStore
	users  *userstore.MemDirectory
	alice  models.User
	bob    models.User
	ghost  primitive.ObjectID
	report *analyticsqueries.Reporter
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		reqs:  requeststore.NewMem(),
		users: userstore.NewMem(),
		alice: models.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com", Role: models.RoleUser},
		bob:   models.User{ID: primitive.NewObjectID(), Name: "Bob", Email: "bob@example.com", Role: models.RoleUser},
		ghost: primitive.NewObjectID(),
	}
	f.users.Put(f.alice)
	f.users.Put(f.bob)

	at := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()
	f.reqs.Insert(ctx, testutil.NewRequest(f.alice.ID, "a1", "Kyiv Oblast", at))
	f.reqs.Insert(ctx, testutil.NewRequest(f.alice.ID, "a2", "Kyiv Oblast", at.Add(time.Minute)))
	off := testutil.NewRequest(f.bob.ID, "b1", "Lviv Oblast", at.Add(2*time.Minute))
	off.IsActive = false
	f.reqs.Insert(ctx, off)
	f.reqs.Insert(ctx, testutil.NewRequest(f.ghost, "g1", "Odesa Oblast", at.Add(3*time.Minute)))

	f.report = analyticsqueries.New(f.reqs, f.users, nil, requestpolicy.Default())
	return f
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	s, err := f.report.Summary(context.Background(), testutil.AdminActor())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.TotalUsers != 2 {
		t.Errorf("TotalUsers: got %d, want 2", s.TotalUsers)
	}
	if s.ActiveRequests != 3 || s.DeactivatedRequests != 1 {
		t.Errorf("active/deactivated: got %d/%d, want 3/1", s.ActiveRequests, s.DeactivatedRequests)
	}
	if len(s.LocationStats) != 3 || s.LocationStats[0].Location != "Kyiv Oblast" || s.LocationStats[0].Count != 2 {
		t.Errorf("LocationStats: got %+v", s.LocationStats)
	}
	want := []analyticsqueries.StatusCount{{Status: "Active", Count: 3}, {Status: "Deactivated", Count: 1}}
	if len(s.StatusStats) != 2 || s.StatusStats[0] != want[0] || s.StatusStats[1] != want[1] {
		t.Errorf("StatusStats: got %+v, want %+v", s.StatusStats, want)
	}
}

func TestRequestsPerUser_DropsUnknownUsers(t *testing.T) {
	f := newFixture(t)
	rows, err := f.report.RequestsPerUser(context.Background(), testutil.AdminActor())
	if err != nil {
		t.Fatalf("RequestsPerUser: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2 (%+v)", len(rows), rows)
	}
	if rows[0].UserID != f.alice.ID || rows[0].Count != 2 || rows[0].UserInfo.Name != "Alice" {
		t.Errorf("first row: got %+v", rows[0])
	}
	for _, r := range rows {
		if r.UserID == f.ghost {
			t.Error("requester without a user document should be dropped")
		}
	}
}

func TestReporter_AdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		call  func() error
		actor string
	}{
		{"summary", func() error { _, err := f.report.Summary(ctx, testutil.UserActor()); return err }, "user"},
		{"status", func() error { _, err := f.report.RequestsStatus(ctx, nil); return err }, "anonymous"},
		{"location", func() error { _, err := f.report.RequestsByLocation(ctx, testutil.UserActor()); return err }, "user"},
		{"total users", func() error { _, err := f.report.TotalUsers(ctx, nil); return err }, "anonymous"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			want := apperr.ErrForbidden
			if tc.actor == "anonymous" {
				want = apperr.ErrUnauthorized
			}
			if !errors.Is(err, want) {
				t.Errorf("err: got %v, want %v", err, want)
			}
		})
	}
}

func TestRequestsStatusAndTotals(t *testing.T) {
	f := newFixture(t)
	admin := testutil.AdminActor()
	ctx := context.Background()

	st, err := f.report.RequestsStatus(ctx, admin)
	if err != nil {
		t.Fatalf("RequestsStatus: %v", err)
	}
	if st.ActiveCount != 3 || st.InactiveCount != 1 {
		t.Errorf("RequestsStatus: got %+v", st)
	}
	n, err := f.report.TotalUsers(ctx, admin)
	if err != nil || n != 2 {
		t.Errorf("TotalUsers: got (%d, %v), want 2", n, err)
	}
}

func TestMongoRequestsPerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "Alice", "alice@example.com", models.RoleUser)
	at := time.Now().UTC()
	fixtures.CreateRequest(ctx, alice.ID, "one", "Kyiv Oblast", at)
	fixtures.CreateRequest(ctx, alice.ID, "two", "Kyiv Oblast", at.Add(time.Second))
	fixtures.CreateRequest(ctx, primitive.NewObjectID(), "orphan", "Lviv Oblast", at)

	rows, err := analyticsqueries.MongoRequestsPerUser(db)(ctx)
	if err != nil {
		t.Fatalf("MongoRequestsPerUser: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1 (%+v)", len(rows), rows)
	}
	if rows[0].Count != 2 || rows[0].UserInfo.Email != "alice@example.com" {
		t.Errorf("row: got %+v", rows[0])
	}
}
