package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/system/notify"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeWriter struct {
	inserted []models.Notification
	batches  [][]models.Notification
	fail     error
}

func (f *fakeWriter) Insert(_ context.Context, n models.Notification) error {
	if f.fail != nil {
		return f.fail
	}
	f.inserted = append(f.inserted, n)
	return nil
}

func (f *fakeWriter) InsertMany(_ context.Context, ns []models.Notification) error {
	if f.fail != nil {
		return f.fail
	}
	f.batches = append(f.batches, ns)
	return nil
}

type fakeAccounts struct {
	existing []primitive.ObjectID
	fail     error
}

func (f *fakeAccounts) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	if f.fail != nil {
		return false, f.fail
	}
	for _, e := range f.existing {
		if e == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccounts) ListIDsExcept(_ context.Context, exclude primitive.ObjectID) ([]primitive.ObjectID, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	var out []primitive.ObjectID
	for _, e := range f.existing {
		if e != exclude {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestNotifyOne_InsertsForExistingRecipient(t *testing.T) {
	recipient := primitive.NewObjectID()
	w := &fakeWriter{}
	a := &fakeAccounts{existing: []primitive.ObjectID{recipient}}
	d := notify.New(w, a, zap.NewNop())

	d.NotifyOne(context.Background(), recipient, models.NotifyTaskAssigned,
		"New Task Assigned", `You have been assigned to task "Ship it"`, "/dashboard/projects/p1")

	if len(w.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(w.inserted))
	}
	n := w.inserted[0]
	if n.UserID != recipient {
		t.Errorf("recipient: got %s", n.UserID.Hex())
	}
	if n.Type != models.NotifyTaskAssigned {
		t.Errorf("type: got %q", n.Type)
	}
	if n.Read {
		t.Error("new notification must be unread")
	}
}

func TestNotifyOne_SkipsMissingRecipient(t *testing.T) {
	w := &fakeWriter{}
	a := &fakeAccounts{} // no accounts exist
	d := notify.New(w, a, zap.NewNop())

	d.NotifyOne(context.Background(), primitive.NewObjectID(), models.NotifyTaskAssigned, "t", "m", "")

	if len(w.inserted) != 0 {
		t.Errorf("expected insert to be skipped, got %d", len(w.inserted))
	}
}

func TestNotifyOne_AbsorbsWriteFailure(t *testing.T) {
	recipient := primitive.NewObjectID()
	w := &fakeWriter{fail: errors.New("write unavailable")}
	a := &fakeAccounts{existing: []primitive.ObjectID{recipient}}
	d := notify.New(w, a, zap.NewNop())

	// Must not panic or surface the error in any way.
	d.NotifyOne(context.Background(), recipient, models.NotifyTaskCreated, "t", "m", "")
}

func TestNotifyAllExcept_BatchesEveryoneButActor(t *testing.T) {
	actor := primitive.NewObjectID()
	others := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	w := &fakeWriter{}
	a := &fakeAccounts{existing: append([]primitive.ObjectID{actor}, others...)}
	d := notify.New(w, a, zap.NewNop())

	d.NotifyAllExcept(context.Background(), actor, models.NotifyTaskCreated,
		"New Task Created", `Bo created task "Ship it" in Apollo`, "/dashboard/projects/p1")

	if len(w.batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(w.batches))
	}
	batch := w.batches[0]
	if len(batch) != len(others) {
		t.Fatalf("expected %d recipients, got %d", len(others), len(batch))
	}
	for _, n := range batch {
		if n.UserID == actor {
			t.Error("actor must not receive the fan-out notification")
		}
	}
}

func TestNotifyAllExcept_EmptySetIsNoop(t *testing.T) {
	actor := primitive.NewObjectID()
	w := &fakeWriter{}
	a := &fakeAccounts{existing: []primitive.ObjectID{actor}}
	d := notify.New(w, a, zap.NewNop())

	d.NotifyAllExcept(context.Background(), actor, models.NotifyProjectCreated, "t", "m", "")

	if len(w.batches) != 0 {
		t.Errorf("expected no batch for empty recipient set, got %d", len(w.batches))
	}
}

func TestNotifyAllExcept_AbsorbsListFailure(t *testing.T) {
	w := &fakeWriter{}
	a := &fakeAccounts{fail: errors.New("find failed")}
	d := notify.New(w, a, zap.NewNop())

	d.NotifyAllExcept(context.Background(), primitive.NewObjectID(), models.NotifyTaskCreated, "t", "m", "")

	if len(w.batches) != 0 {
		t.Errorf("expected no batch after list failure, got %d", len(w.batches))
	}
}
