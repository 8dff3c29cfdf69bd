package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the registered-user document stored in the profiledetails collection.
// Password holds a bcrypt hash; the submitted repeat password is a request-time
// equality check and is never persisted.
type Profile struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Password    string             `json:"-" bson:"password"`
	Bio         string             `json:"bio" bson:"bio"`
	Phone       int64              `json:"phone" bson:"phone"`
	Email       string             `json:"email" bson:"email"`
	Photo       string             `json:"photo" bson:"photo"`
	ProfileType string             `json:"profileType" bson:"profile_type"`
	Role        string             `json:"-" bson:"role"`
	IsDeleted   bool               `json:"isDeleted" bson:"is_deleted"`
	CreatedAt   time.Time          `json:"-" bson:"created_at"`
	UpdatedAt   time.Time          `json:"-" bson:"updated_at"`
}

// ProfileRequest is the register/update payload. Pointer fields distinguish
// an absent key from a zero value so the validator can name the missing field.
type ProfileRequest struct {
	Username       *string `json:"username"`
	Password       *string `json:"password"`
	RepeatPassword *string `json:"repeatPassword"`
	Bio            *string `json:"bio"`
	Phone          *int64  `json:"phone"`
	Email          *string `json:"email"`
	Photo          *string `json:"photo"`
	ProfileType    *string `json:"profileType"`
}

// ProfileView is the redacted projection returned to callers. Password,
// repeat password, role and timestamps are excluded by the store projection.
type ProfileView struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Username    string             `json:"username" bson:"username"`
	Bio         string             `json:"bio" bson:"bio"`
	Phone       int64              `json:"phone" bson:"phone"`
	Email       string             `json:"email" bson:"email"`
	Photo       string             `json:"photo" bson:"photo"`
	ProfileType string             `json:"profileType" bson:"profile_type"`
	IsDeleted   bool               `json:"isDeleted" bson:"is_deleted"`
}

// Roles assigned by the server. Registration always assigns RoleUser; admins
// are promoted out of band.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	ProfileTypePublic  = "public"
	ProfileTypePrivate = "private"
)
