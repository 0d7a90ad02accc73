// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types understood by the client panel.
const (
	NotifyTaskAssigned   = "TASK_ASSIGNED"
	NotifyTaskCreated    = "TASK_CREATED"
	NotifyProjectCreated = "PROJECT_CREATED"
	NotifyDeadline       = "DEADLINE"
	NotifySuccess        = "success"
)

// Notification is created only by the dispatcher and mutated only by its
// recipient marking it read.
type Notification struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"userId"`
	Type    string             `bson:"type" json:"type"`
	Title   string             `bson:"title" json:"title"`
	Message string             `bson:"message" json:"message"`
	LinkURL string             `bson:"link_url,omitempty" json:"linkUrl,omitempty"`
	Read    bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
