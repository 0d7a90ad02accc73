// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses.
const (
	TaskTodo       = "TODO"
	TaskInProgress = "IN_PROGRESS"
	TaskInReview   = "IN_REVIEW"
	TaskDone       = "DONE"
)

// Task priorities.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskInReview, TaskDone:
		return true
	}
	return false
}

// ValidTaskPriority reports whether p is a known priority.
func ValidTaskPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task belongs to a project and is deleted with it. Assignee is optional
// and may be reassigned after creation.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	ProjectID   primitive.ObjectID  `bson:"project_id" json:"projectId"`
	CreatorID   primitive.ObjectID  `bson:"creator_id" json:"creatorId"`
	AssigneeID  *primitive.ObjectID `bson:"assignee_id,omitempty" json:"assigneeId,omitempty"`
	Status      string              `bson:"status" json:"status"`
	Priority    string              `bson:"priority" json:"priority"`
	StartDate   *time.Time          `bson:"start_date,omitempty" json:"startDate,omitempty"`
	DueDate     *time.Time          `bson:"due_date,omitempty" json:"dueDate,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// TaskView is a task with the nested project/assignee/creator summaries
// returned by the tasks API.
type TaskView struct {
	Task     `bson:",inline"`
	Project  *ProjectSummary `bson:"project,omitempty" json:"project,omitempty"`
	Assignee *UserSummary    `bson:"assignee,omitempty" json:"assignee,omitempty"`
	Creator  *UserSummary    `bson:"creator,omitempty" json:"creator,omitempty"`
}
