package oauthstate

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store persists one-time OAuth state tokens. States are deleted on
// first validation and expire on their own after ten minutes via the
// TTL index created in bootstrap.EnsureSchema.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("oauth_states")}
}

type stateDoc struct {
	State     string    `bson:"state"`
	ReturnURL string    `bson:"return_url"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Save stores a state token with its return URL and expiry.
func (s *Store) Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error {
	_, err := s.c.InsertOne(ctx, stateDoc{
		State:     state,
		ReturnURL: returnURL,
		ExpiresAt: expiresAt,
	})
	return err
}

// Validate consumes a state token. Returns the stored return URL and
// whether the state was valid (present and unexpired). A state can only
// be validated once.
func (s *Store) Validate(ctx context.Context, state string) (string, bool, error) {
	var doc stateDoc
	err := s.c.FindOneAndDelete(ctx, bson.M{"state": state}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if time.Now().After(doc.ExpiresAt) {
		return "", false, nil
	}
	return doc.ReturnURL, true, nil
}
