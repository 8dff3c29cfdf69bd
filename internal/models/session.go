package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is the server-side record behind an authenticated browser session.
// The cookie only carries the session id inside a signed token.
type Session struct {
	ID        string             `bson:"_id"`
	ProfileID primitive.ObjectID `bson:"profile_id"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at"`
}
