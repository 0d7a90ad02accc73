// Package projectpolicy provides the authorization rule shared by project
// and task write operations.
//
// Authorization rules:
//   - A caller may write under a project iff they are its owner or a
//     listed member.
//   - Only the owner may delete a project or change its member set.
//   - Reads of task lists are deliberately unrestricted beyond requiring
//     a session.
package projectpolicy

import (
	"context"

	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectInfo contains the minimal project data needed for authorization
// checks.
type ProjectInfo struct {
	ID        primitive.ObjectID
	Name      string
	OwnerID   primitive.ObjectID
	MemberIDs []primitive.ObjectID
}

// FetchProjectInfo retrieves the minimal project information needed for
// authorization. Returns nil if the project is not found.
func FetchProjectInfo(ctx context.Context, db *mongo.Database, projectID primitive.ObjectID) (*ProjectInfo, error) {
	var result struct {
		ID        primitive.ObjectID   `bson:"_id"`
		Name      string               `bson:"name"`
		OwnerID   primitive.ObjectID   `bson:"owner_id"`
		MemberIDs []primitive.ObjectID `bson:"member_ids"`
	}

	proj := options.FindOne().SetProjection(bson.M{
		"_id":        1,
		"name":       1,
		"owner_id":   1,
		"member_ids": 1,
	})

	err := db.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}, proj).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ProjectInfo{
		ID:        result.ID,
		Name:      result.Name,
		OwnerID:   result.OwnerID,
		MemberIDs: result.MemberIDs,
	}, nil
}

// CanWrite reports whether the session user may perform write operations
// under the project: true iff they are the owner or a listed member.
func CanWrite(u *auth.SessionUser, info *ProjectInfo) bool {
	if u == nil || info == nil {
		return false
	}
	uid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return false
	}
	if info.OwnerID == uid {
		return true
	}
	for _, m := range info.MemberIDs {
		if m == uid {
			return true
		}
	}
	return false
}

// IsOwner reports whether the session user owns the project. Deleting a
// project and changing its member set are owner-only.
func IsOwner(u *auth.SessionUser, info *ProjectInfo) bool {
	if u == nil || info == nil {
		return false
	}
	uid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return false
	}
	return info.OwnerID == uid
}
