// Package notify is the notification dispatcher. Delivery is best-effort:
// every failure is logged and absorbed here, so a notification problem can
// never fail or roll back the operation that triggered it.
package notify

import (
	"context"

	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NotificationWriter persists notification rows.
type NotificationWriter interface {
	Insert(ctx context.Context, n models.Notification) error
	InsertMany(ctx context.Context, ns []models.Notification) error
}

// AccountReader answers the account-set questions the dispatcher needs.
type AccountReader interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListIDsExcept(ctx context.Context, exclude primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Dispatcher fans events out to notification rows.
type Dispatcher struct {
	notes    NotificationWriter
	accounts AccountReader
	log      *zap.Logger
}

// New constructs a Dispatcher.
func New(notes NotificationWriter, accounts AccountReader, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{notes: notes, accounts: accounts, log: logger}
}

// NotifyOne inserts a single notification for the recipient. If the
// recipient does not reference an existing account the insert is skipped
// and logged.
func (d *Dispatcher) NotifyOne(ctx context.Context, recipientID primitive.ObjectID, typ, title, message, linkURL string) {
	ok, err := d.accounts.Exists(ctx, recipientID)
	if err != nil {
		d.log.Error("notification skipped: recipient check failed",
			zap.String("recipient_id", recipientID.Hex()),
			zap.String("type", typ),
			zap.Error(err))
		return
	}
	if !ok {
		d.log.Warn("notification skipped: recipient does not exist",
			zap.String("recipient_id", recipientID.Hex()),
			zap.String("type", typ))
		return
	}

	n := models.Notification{
		UserID:  recipientID,
		Type:    typ,
		Title:   htmlsanitize.Strict(title),
		Message: htmlsanitize.Strict(message),
		LinkURL: linkURL,
	}
	if err := d.notes.Insert(ctx, n); err != nil {
		d.log.Error("notification insert failed",
			zap.String("recipient_id", recipientID.Hex()),
			zap.String("type", typ),
			zap.Error(err))
	}
}

// NotifyAllExcept inserts one notification per account other than the
// actor, in a single batch. An empty account set is a no-op. The read is
// O(total accounts), which is acceptable at this system's scale.
func (d *Dispatcher) NotifyAllExcept(ctx context.Context, actorID primitive.ObjectID, typ, title, message, linkURL string) {
	ids, err := d.accounts.ListIDsExcept(ctx, actorID)
	if err != nil {
		d.log.Error("notification fan-out skipped: account list failed",
			zap.String("actor_id", actorID.Hex()),
			zap.String("type", typ),
			zap.Error(err))
		return
	}
	if len(ids) == 0 {
		return
	}

	title = htmlsanitize.Strict(title)
	message = htmlsanitize.Strict(message)
	ns := make([]models.Notification, len(ids))
	for i, id := range ids {
		ns[i] = models.Notification{
			UserID:  id,
			Type:    typ,
			Title:   title,
			Message: message,
			LinkURL: linkURL,
		}
	}
	if err := d.notes.InsertMany(ctx, ns); err != nil {
		d.log.Error("notification batch insert failed",
			zap.String("actor_id", actorID.Hex()),
			zap.String("type", typ),
			zap.Int("recipients", len(ids)),
			zap.Error(err))
	}
}
