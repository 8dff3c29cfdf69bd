package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whoami1432/voosh-authentication/internal/models"
)

// viewProjection excludes everything the redacted profile projection must
// never expose.
var viewProjection = bson.M{
	"password":   0,
	"created_at": 0,
	"role":       0,
	"updated_at": 0,
}

// MongoProfileStore implements ProfileStore against the profiledetails
// collection.
type MongoProfileStore struct {
	client      *mongo.Client
	db          *mongo.Database
	profilesCol *mongo.Collection
}

func NewMongoProfileStore(ctx context.Context, mongoURI, dbName string) (*MongoProfileStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("profiledetails")

	// Best-effort indexes. The unique email index narrows the
	// check-then-act race between concurrent registrations.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoProfileStore{
		client:      client,
		db:          db,
		profilesCol: col,
	}, nil
}

func (s *MongoProfileStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Database exposes the underlying handle so sibling stores can share the
// connection pool.
func (s *MongoProfileStore) Database() *mongo.Database {
	return s.db
}

func (s *MongoProfileStore) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := s.profilesCol.FindOne(ctx, bson.M{"email": email}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoProfileStore) GetView(ctx context.Context, id primitive.ObjectID) (*models.ProfileView, error) {
	var v models.ProfileView
	err := s.profilesCol.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(viewProjection)).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (s *MongoProfileStore) GetRole(ctx context.Context, id primitive.ObjectID) (string, error) {
	var doc struct {
		Role string `bson:"role"`
	}
	err := s.profilesCol.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"_id": 1, "role": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	return doc.Role, nil
}

func (s *MongoProfileStore) Insert(ctx context.Context, p *models.Profile) (primitive.ObjectID, error) {
	res, err := s.profilesCol.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid, nil
}

func (s *MongoProfileStore) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (bool, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoProfileStore) ListVisible(ctx context.Context, publicOnly bool) ([]models.ProfileView, error) {
	filter := bson.M{"is_deleted": false}
	if publicOnly {
		filter["role"] = models.RoleUser
		filter["profile_type"] = models.ProfileTypePublic
	}

	cur, err := s.profilesCol.Find(ctx, filter, options.Find().SetProjection(viewProjection))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	views := make([]models.ProfileView, 0)
	if err := cur.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}
