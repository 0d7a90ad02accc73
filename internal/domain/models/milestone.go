// internal/domain/models/milestone.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Milestone is a dated marker on a project timeline. Milestones are
// deleted with their project.
type Milestone struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"projectId"`
	Title     string             `bson:"title" json:"title"`
	Date      time.Time          `bson:"date" json:"date"`
	Completed bool               `bson:"completed" json:"completed"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
