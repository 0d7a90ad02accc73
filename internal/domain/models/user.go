// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold.
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// Auth methods for an account.
const (
	AuthPassword = "password"
	AuthGoogle   = "google"
)

// User is an account. Email and username are unique (enforced by indexes
// created in bootstrap.EnsureSchema). PasswordHash is nil for accounts
// that authenticate externally (Google OAuth).
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`

	PasswordHash *string `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string  `bson:"auth_method" json:"-"` // password | google
	GoogleID     *string `bson:"google_id,omitempty" json:"-"`

	Role string `bson:"role" json:"role"` // MEMBER | ADMIN

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// UserSummary is the projection embedded in task and project responses.
type UserSummary struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}
