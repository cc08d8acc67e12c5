package analytics_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/features/analytics"
	"github.com/dalemusser/volunteerhub/internal/app/policy/requestpolicy"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/analyticsqueries"
	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (http.Handler, *actor.Actor) {
	t.Helper()
	store := requeststore.NewMem()
	users := userstore.NewMem()
	alice := testutil.UserActor()
	users.Put(models.User{ID: alice.ID, Name: "Alice", Email: "alice@example.com", Role: models.RoleUser})

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	store.Insert(ctx, testutil.NewRequest(alice.ID, "a", "Kyiv Oblast", base))
	store.Insert(ctx, testutil.NewRequest(alice.ID, "b", "Kyiv Oblast", base.Add(time.Minute)))
	off := testutil.NewRequest(alice.ID, "c", "Lviv Oblast", base.Add(2*time.Minute))
	off.IsActive = false
	store.Insert(ctx, off)

	rp := analyticsqueries.New(store, users, nil, requestpolicy.Default())
	return analytics.Routes(analytics.NewHandler(rp, zap.NewNop())), alice
}

func get(t *testing.T, h http.Handler, a *actor.Actor, path string) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodGet, path, nil)
	if a != nil {
		req = testutil.WithActor(req, a)
	}
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalytics_AdminOnly(t *testing.T) {
	h, alice := newRouter(t)

	paths := []string{"/", "/requests-status", "/requests-location", "/total-users", "/requests-per-user"}
	for _, p := range paths {
		if rec := get(t, h, nil, p); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s anonymous: got %d, want 401", p, rec.Code)
		}
		if rec := get(t, h, alice, p); rec.Code != http.StatusForbidden {
			t.Errorf("%s user: got %d, want 403", p, rec.Code)
		}
		if rec := get(t, h, testutil.AdminActor(), p); rec.Code != http.StatusOK {
			t.Errorf("%s admin: got %d, want 200", p, rec.Code)
		}
	}
}

func TestAnalytics_Views(t *testing.T) {
	h, alice := newRouter(t)
	admin := testutil.AdminActor()

	var summary analyticsqueries.Summary
	get(t, h, admin, "/").DecodeJSON(t, &summary)
	if summary.TotalUsers != 1 || summary.ActiveRequests != 2 || summary.DeactivatedRequests != 1 {
		t.Errorf("summary: got %+v", summary)
	}
	if len(summary.LocationStats) != 2 || summary.LocationStats[0].Location != "Kyiv Oblast" {
		t.Errorf("locationStats: got %+v", summary.LocationStats)
	}

	var status analyticsqueries.RequestsStatus
	get(t, h, admin, "/requests-status").DecodeJSON(t, &status)
	if status.ActiveCount != 2 || status.InactiveCount != 1 {
		t.Errorf("requests-status: got %+v", status)
	}

	rec := get(t, h, admin, "/total-users")
	rec.AssertContains(t, `"totalUsers":1`)

	var perUser []analyticsqueries.UserRequestCount
	get(t, h, admin, "/requests-per-user").DecodeJSON(t, &perUser)
	if len(perUser) != 1 || perUser[0].UserID != alice.ID || perUser[0].Count != 3 || perUser[0].UserInfo.Name != "Alice" {
		t.Errorf("requests-per-user: got %+v", perUser)
	}
}
