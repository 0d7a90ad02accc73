package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a password-auth user with the given credentials.
// The password is bcrypt-hashed the way the registration handler does it.
func (f *Fixtures) CreateUser(ctx context.Context, name, username, email, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}
	hashStr := string(hash)

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Username:     username,
		UsernameCI:   text.Fold(username),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: &hashStr,
		AuthMethod:   models.AuthPassword,
		Role:         models.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateGoogleUser creates a user that authenticates via Google and has
// no password hash.
func (f *Fixtures) CreateGoogleUser(ctx context.Context, name, username, email, googleID string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Username:   username,
		UsernameCI: text.Fold(username),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: models.AuthGoogle,
		GoogleID:   &googleID,
		Role:       models.RoleMember,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test google user: %v", err)
	}

	return user
}

// CreateProject creates a project owned by ownerID with the given members.
func (f *Fixtures) CreateProject(ctx context.Context, name string, ownerID primitive.ObjectID, memberIDs ...primitive.ObjectID) models.Project {
	f.t.Helper()

	if memberIDs == nil {
		memberIDs = []primitive.ObjectID{}
	}

	now := time.Now().UTC()
	project := models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test project description",
		Status:      models.ProjectPlanning,
		OwnerID:     ownerID,
		MemberIDs:   memberIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("projects").InsertOne(ctx, project)
	if err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// CreateTask creates a task in the given project. assigneeID may be nil.
func (f *Fixtures) CreateTask(ctx context.Context, title string, projectID, creatorID primitive.ObjectID, assigneeID *primitive.ObjectID) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: "Test task description",
		ProjectID:   projectID,
		CreatorID:   creatorID,
		AssigneeID:  assigneeID,
		Status:      models.TaskTodo,
		Priority:    models.PriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("tasks").InsertOne(ctx, task)
	if err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}

	return task
}

// CreateNotification creates an unread notification for userID.
func (f *Fixtures) CreateNotification(ctx context.Context, userID primitive.ObjectID, typ, title string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   "Test notification message",
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("notifications").InsertOne(ctx, n)
	if err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}

	return n
}

// CreateMilestone creates a milestone on the given project.
func (f *Fixtures) CreateMilestone(ctx context.Context, projectID primitive.ObjectID, title string, date time.Time) models.Milestone {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Milestone{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Title:     title,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("milestones").InsertOne(ctx, m)
	if err != nil {
		f.t.Fatalf("failed to create test milestone: %v", err)
	}

	return m
}
