package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/whoami1432/voosh-authentication/internal/models"
	"github.com/whoami1432/voosh-authentication/internal/validation"
)

var (
	ErrInvalidID       = errors.New("not a valid identifier")
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailExists     = errors.New("email already registered")
)

// ValidationError reports the first violated rule of a register/update payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProfileStore is the document-store capability the profile service depends
// on. The Mongo implementation lives in mongo_profile_store.go; tests supply
// an in-memory fake.
type ProfileStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetView(ctx context.Context, id primitive.ObjectID) (*models.ProfileView, error)
	GetRole(ctx context.Context, id primitive.ObjectID) (string, error)
	Insert(ctx context.Context, p *models.Profile) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (bool, error)
	ListVisible(ctx context.Context, publicOnly bool) ([]models.ProfileView, error)
}

// ProfileService encodes the business rules around registration, profile
// retrieval/update and role-based listing. It holds no state of its own.
type ProfileService struct {
	store ProfileStore
}

func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// Register validates the payload and inserts a new profile unless the email
// is already taken. The duplicate pre-check and the insert are not atomic;
// the store's unique email index narrows the race window.
func (s *ProfileService) Register(ctx context.Context, req *models.ProfileRequest) error {
	if res := validation.ValidateProfile(req); !res.Valid {
		return &ValidationError{Message: res.Message}
	}

	existing, err := s.store.FindByEmail(ctx, *req.Email)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return err
	}
	if existing != nil {
		return ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		Username:    *req.Username,
		Password:    string(hash),
		Bio:         *req.Bio,
		Phone:       *req.Phone,
		Email:       *req.Email,
		Photo:       *req.Photo,
		ProfileType: *req.ProfileType,
		Role:        models.RoleUser,
		IsDeleted:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = s.store.Insert(ctx, profile)
	return err
}

// FetchByID returns the redacted projection for the given 24-hex identifier.
func (s *ProfileService) FetchByID(ctx context.Context, id string) (*models.ProfileView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return s.store.GetView(ctx, oid)
}

// Update validates the identifier and payload, rejects email collisions with
// a different record, and merges the remaining fields. A role supplied in the
// request body is never part of the merge. The returned bool reports whether
// the store actually modified a record.
func (s *ProfileService) Update(ctx context.Context, id string, req *models.ProfileRequest) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidID
	}
	if res := validation.ValidateProfile(req); !res.Valid {
		return false, &ValidationError{Message: res.Message}
	}

	existing, err := s.store.FindByEmail(ctx, *req.Email)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return false, err
	}
	if existing != nil && existing.ID != oid {
		return false, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	fields := map[string]interface{}{
		"username":     *req.Username,
		"password":     string(hash),
		"bio":          *req.Bio,
		"phone":        *req.Phone,
		"email":        *req.Email,
		"photo":        *req.Photo,
		"profile_type": *req.ProfileType,
		"is_deleted":   false,
		"updated_at":   time.Now().UTC(),
	}
	return s.store.Update(ctx, oid, fields)
}

// ListVisible resolves the requester's role and returns the profiles that
// role may see: admins see every non-deleted profile, users see non-deleted
// public profiles with role user. An unknown requester or role yields
// ErrProfileNotFound.
func (s *ProfileService) ListVisible(ctx context.Context, requesterID string) ([]models.ProfileView, error) {
	oid, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return nil, ErrInvalidID
	}

	role, err := s.store.GetRole(ctx, oid)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleAdmin:
		return s.store.ListVisible(ctx, false)
	case models.RoleUser:
		return s.store.ListVisible(ctx, true)
	default:
		return nil, ErrProfileNotFound
	}
}

// HasProfileForEmail reports whether a registered profile exists for the
// given email. Used by the OAuth callback to gate session establishment.
func (s *ProfileService) HasProfileForEmail(ctx context.Context, email string) (*models.Profile, error) {
	p, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return p, nil
}
