package notifications_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/features/notifications"
	"github.com/dalemusser/taskhub/internal/app/system/apierr"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*notifications.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return notifications.NewHandler(db, apierr.NewLogger(logger), logger), db
}

func TestServeList_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/notifications", nil)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestServeList_ReturnsTwentyNewestFirst(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "Alice Doe", "alice", "alice@example.com", "secret1")
	bob := f.CreateUser(ctx, "Bob Roe", "bob", "bob@example.com", "secret1")

	for i := 0; i < 25; i++ {
		f.CreateNotification(ctx, alice.ID, models.NotifyTaskCreated, fmt.Sprintf("note %d", i))
	}
	f.CreateNotification(ctx, bob.ID, models.NotifyTaskCreated, "bob-only")

	req := testutil.WithUser(httptest.NewRequest("GET", "/api/notifications", nil), alice)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)

	var got []models.Notification
	testutil.DecodeJSON(t, rec, &got)
	if len(got) != 20 {
		t.Fatalf("notification count: got %d, want 20", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Errorf("notifications not in newest-first order at %d", i)
		}
	}
	for _, n := range got {
		if n.UserID != alice.ID {
			t.Errorf("listed a notification belonging to another user: %+v", n)
		}
	}
}

func TestServeMarkRead_MarkAllIsScopedToCaller(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "Alice Doe", "alice", "alice@example.com", "secret1")
	bob := f.CreateUser(ctx, "Bob Roe", "bob", "bob@example.com", "secret1")

	f.CreateNotification(ctx, alice.ID, models.NotifyTaskCreated, "a1")
	f.CreateNotification(ctx, alice.ID, models.NotifyTaskCreated, "a2")
	f.CreateNotification(ctx, bob.ID, models.NotifyTaskCreated, "b1")

	req := testutil.WithUser(
		testutil.NewJSONRequest(t, "PUT", "/api/notifications", map[string]any{"markAll": true}),
		alice)
	rec := httptest.NewRecorder()
	h.ServeMarkRead(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)

	unreadAlice, err := db.Collection("notifications").CountDocuments(ctx, bson.M{"user_id": alice.ID, "read": false})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if unreadAlice != 0 {
		t.Errorf("alice unread after markAll: got %d, want 0", unreadAlice)
	}

	unreadBob, err := db.Collection("notifications").CountDocuments(ctx, bson.M{"user_id": bob.ID, "read": false})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if unreadBob != 1 {
		t.Errorf("bob unread after alice markAll: got %d, want 1", unreadBob)
	}
}

func TestServeMarkRead_IDsScopedToCaller(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "Alice Doe", "alice", "alice@example.com", "secret1")
	bob := f.CreateUser(ctx, "Bob Roe", "bob", "bob@example.com", "secret1")

	mine := f.CreateNotification(ctx, alice.ID, models.NotifyTaskCreated, "mine")
	other := f.CreateNotification(ctx, bob.ID, models.NotifyTaskCreated, "not-mine")

	req := testutil.WithUser(
		testutil.NewJSONRequest(t, "PUT", "/api/notifications", map[string]any{
			"ids": []string{mine.ID.Hex(), other.ID.Hex()},
		}),
		alice)
	rec := httptest.NewRecorder()
	h.ServeMarkRead(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)

	var stored models.Notification
	if err := db.Collection("notifications").FindOne(ctx, bson.M{"_id": mine.ID}).Decode(&stored); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !stored.Read {
		t.Error("caller's notification not marked read")
	}

	if err := db.Collection("notifications").FindOne(ctx, bson.M{"_id": other.ID}).Decode(&stored); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if stored.Read {
		t.Error("another user's notification was marked read")
	}
}

func TestServeMarkRead_InvalidID(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "Alice Doe", "alice", "alice@example.com", "secret1")

	req := testutil.WithUser(
		testutil.NewJSONRequest(t, "PUT", "/api/notifications", map[string]any{"ids": []string{"nope"}}),
		alice)
	rec := httptest.NewRecorder()
	h.ServeMarkRead(rec, req)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}
