package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pestguide-backend-go/internal/models"
)

const usersCollection = "users"

// ErrNotFound is returned (wrapped) when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrProfileRead marks failures on the profile read path (connectivity,
// permission). ErrProfileWrite marks the same causes on the write path.
var (
	ErrProfileRead  = errors.New("profile read failed")
	ErrProfileWrite = errors.New("profile write failed")
)

// firestoreProfileRepository implements ProfileRepository using Firestore.
type firestoreProfileRepository struct {
	client *firestore.Client
}

// NewFirestoreProfileRepository creates a ProfileRepository backed by the
// given Firestore client.
func NewFirestoreProfileRepository(client *firestore.Client) ProfileRepository {
	return &firestoreProfileRepository{client: client}
}

// GetByUID retrieves a profile document by its identity UID.
func (r *firestoreProfileRepository) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for GetByUID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("profile for uid '%s': %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: uid '%s': %v", ErrProfileRead, uid, err)
	}

	var profile models.UserProfile
	if err := docSnap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode profile for uid '%s': %v", ErrProfileRead, uid, err)
	}
	profile.UID = docSnap.Ref.ID

	return &profile, nil
}

// Create adds a new profile document, using the identity UID as the
// document ID. Fails with AlreadyExists if a profile is already stored.
func (r *firestoreProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile.UID == "" {
		return errors.New("profile UID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(profile.UID).Create(ctx, profile)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%w: profile for uid '%s' already exists", ErrProfileWrite, profile.UID)
		}
		return fmt.Errorf("%w: uid '%s': %v", ErrProfileWrite, profile.UID, err)
	}
	return nil
}

// Set writes the profile with merge semantics so the write updates only
// the fields it carries. The upgrade flow relies on this: the merged
// {isPremium:true} write must not clobber unrelated fields. MergeAll
// requires map data, so the struct is flattened here.
func (r *firestoreProfileRepository) Set(ctx context.Context, profile *models.UserProfile) error {
	if profile.UID == "" {
		return errors.New("profile UID cannot be empty for Set operation")
	}
	data := map[string]interface{}{
		"email":     profile.Email,
		"isPremium": profile.IsPremium,
	}
	if profile.PhotoURL != "" {
		data["photoURL"] = profile.PhotoURL
	}
	_, err := r.client.Collection(usersCollection).Doc(profile.UID).Set(ctx, data, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("%w: uid '%s': %v", ErrProfileWrite, profile.UID, err)
	}
	return nil
}
