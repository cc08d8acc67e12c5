package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_LogAndForRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reqID := primitive.NewObjectID()
	actorID := primitive.NewObjectID()
	before := time.Now().Add(-time.Second)

	for _, et := range []string{audit.EventRequestCreated, audit.EventVolunteerAccepted} {
		err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryLifecycle,
			EventType: et,
			ActorID:   &actorID,
			RequestID: &reqID,
			Success:   true,
		})
		if err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
	other := primitive.NewObjectID()
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryLifecycle, EventType: audit.EventRequestCreated, RequestID: &other, Success: true})

	events, err := store.ForRequest(ctx, reqID, 10)
	if err != nil {
		t.Fatalf("ForRequest failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, e := range events {
		if e.ID.IsZero() {
			t.Error("expected ID to be auto-generated")
		}
		if e.Timestamp.Before(before) {
			t.Errorf("Timestamp %v is before %v", e.Timestamp, before)
		}
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{EventType: audit.EventRequestCreated})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountByFilter: got %d, want 2", n)
	}
}

func TestStore_Query_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actorID := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_ = store.Log(ctx, audit.Event{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Category:  audit.CategoryChat,
			EventType: audit.EventChatMessagePosted,
			ActorID:   &actorID,
			Success:   true,
		})
	}

	page, err := store.Query(ctx, audit.QueryFilter{ActorID: &actorID, Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 events, got %d", len(page))
	}
	if !page[0].Timestamp.After(page[1].Timestamp) {
		t.Error("expected newest first")
	}
}
