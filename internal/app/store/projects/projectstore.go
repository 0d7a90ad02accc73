package projectstore

import (
	"context"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists projects and owns the cascade to tasks and milestones.
type Store struct {
	projects   *mongo.Collection
	tasks      *mongo.Collection
	milestones *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		projects:   db.Collection("projects"),
		tasks:      db.Collection("tasks"),
		milestones: db.Collection("milestones"),
	}
}

// Create inserts a project with the caller as owner. Status defaults to
// PLANNING, matching the creation flow.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	p.Name = htmlsanitize.Strict(normalize.Name(p.Name))
	p.NameCI = text.Fold(p.Name)
	p.Description = htmlsanitize.Sanitize(p.Description)
	if p.Status == "" {
		p.Status = models.ProjectPlanning
	}
	if p.MemberIDs == nil {
		p.MemberIDs = []primitive.ObjectID{}
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.projects.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByID loads a project. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListForUser returns the projects the user owns or is a member of,
// newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner_id": userID},
		{"member_ids": userID},
	}}
	cur, err := s.projects.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update holds the mutable project fields. Empty strings leave a field
// unchanged.
type Update struct {
	Name        string
	Description *string
	Status      string
}

// Apply updates a project's fields.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != "" {
		name := htmlsanitize.Strict(normalize.Name(upd.Name))
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Description != nil {
		set["description"] = htmlsanitize.Sanitize(*upd.Description)
	}
	if upd.Status != "" {
		set["status"] = upd.Status
	}

	_, err := s.projects.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// AddMember appends a user to the project's member set. Adding an
// existing member is a no-op.
func (s *Store) AddMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	_, err := s.projects.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{
			"$addToSet": bson.M{"member_ids": userID},
			"$set":      bson.M{"updated_at": time.Now()},
		})
	return err
}

// Delete removes a project and cascades to its tasks and milestones.
// The three deletes are not transactional: a crash mid-way can orphan
// task or milestone rows, which is accepted for this design.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.projects.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount == 0 {
		return 0, nil
	}
	if _, err := s.tasks.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
		return res.DeletedCount, err
	}
	if _, err := s.milestones.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
		return res.DeletedCount, err
	}
	return res.DeletedCount, nil
}

// Summaries loads {id, name} projections for the given project ids.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) ([]models.ProjectSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.projects.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1, "name": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectSummary
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Milestones returns a project's milestones ordered by date ascending.
func (s *Store) Milestones(ctx context.Context, projectID primitive.ObjectID) ([]models.Milestone, error) {
	cur, err := s.milestones.Find(ctx, bson.M{"project_id": projectID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Milestone
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
