package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whoami1432/voosh-authentication/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the session-persistence capability behind login, logout and
// the authentication gate.
type SessionStore interface {
	Create(ctx context.Context, sess *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// MongoSessionStore keeps session records in the sessions collection with a
// TTL index on expires_at.
type MongoSessionStore struct {
	sessionsCol *mongo.Collection
}

func NewMongoSessionStore(ctx context.Context, db *mongo.Database) *MongoSessionStore {
	col := db.Collection("sessions")

	// Best-effort TTL index; expired sessions are also rejected on read
	// because the reaper runs on a delay.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})

	return &MongoSessionStore{sessionsCol: col}
}

func (s *MongoSessionStore) Create(ctx context.Context, sess *models.Session) error {
	_, err := s.sessionsCol.InsertOne(ctx, sess)
	return err
}

func (s *MongoSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.sessionsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		_, _ = s.sessionsCol.DeleteOne(ctx, bson.M{"_id": id})
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Delete removes the session record. Store failures are returned to the
// caller rather than swallowed so logout can surface them.
func (s *MongoSessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.sessionsCol.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
