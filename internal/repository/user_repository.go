package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/techincepto/portal-backend/internal/config"
	"github.com/techincepto/portal-backend/internal/model"
)

// UserRepository handles portal user data access.
type UserRepository struct {
	client *firestore.Client
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) col() *firestore.CollectionRef {
	return r.client.Collection(config.Collection.Users)
}

// GetByID retrieves a user. Returns nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return decodeUser(snap)
}

// GetByUsername retrieves a user by username. Returns nil when absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	iter := r.col().Where("username", "==", username).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return decodeUser(doc)
}

// List returns every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	docs, err := r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		u, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// Create writes the user document and reserves its username in one transaction.
// createdAt, updatedAt and lastActive all receive the same commit timestamp.
// Returns ErrUsernameTaken if the reservation already exists.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	userRef := r.col().Doc(u.ID)
	nameRef := r.client.Collection(config.Collection.Usernames).Doc(u.Username)

	data := map[string]any{
		"firstName":        u.FirstName,
		"lastName":         u.LastName,
		"username":         u.Username,
		"email":            u.Email,
		"enrolledCourses":  []string{},
		"completedCourses": []string{},
		"role":             u.Role,
		"createdAt":        firestore.ServerTimestamp,
		"updatedAt":        firestore.ServerTimestamp,
		"lastActive":       firestore.ServerTimestamp,
	}
	if u.Phone != "" {
		data["phone"] = u.Phone
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(nameRef); err == nil {
			return ErrUsernameTaken
		} else if !isNotFound(err) {
			return err
		}
		if err := tx.Create(nameRef, map[string]any{
			"uid":       u.ID,
			"createdAt": firestore.ServerTimestamp,
		}); err != nil {
			return err
		}
		return tx.Create(userRef, data)
	})
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return ErrUsernameTaken
	case isAlreadyExists(err):
		return ErrUsernameTaken
	case err != nil:
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateProfile applies only the provided fields and refreshes updatedAt.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, req *model.UpdateProfileRequest) error {
	var updates []firestore.Update
	if req.FirstName != nil {
		updates = append(updates, firestore.Update{Path: "firstName", Value: *req.FirstName})
	}
	if req.LastName != nil {
		updates = append(updates, firestore.Update{Path: "lastName", Value: *req.LastName})
	}
	if req.Phone != nil {
		updates = append(updates, firestore.Update{Path: "phone", Value: *req.Phone})
	}
	if req.PhotoURL != nil {
		updates = append(updates, firestore.Update{Path: "photoURL", Value: *req.PhotoURL})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	return r.update(ctx, id, updates, "update profile")
}

// Enroll adds courseID to the enrolled set. Re-enrolling leaves one occurrence.
func (r *UserRepository) Enroll(ctx context.Context, id, courseID string) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "enrolledCourses", Value: firestore.ArrayUnion(courseID)},
		{Path: "lastActive", Value: firestore.ServerTimestamp},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}, "enroll")
}

// TouchLastActive stamps lastActive with the store time.
func (r *UserRepository) TouchLastActive(ctx context.Context, id string) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "lastActive", Value: firestore.ServerTimestamp},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}, "touch last active")
}

func (r *UserRepository) update(ctx context.Context, id string, updates []firestore.Update, op string) error {
	_, err := r.col().Doc(id).Update(ctx, updates)
	if isNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	return nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (*model.User, error) {
	u, err := decode[model.User](snap)
	if err != nil {
		return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
	}
	if u != nil {
		u.ID = snap.Ref.ID
		if u.EnrolledCourses == nil {
			u.EnrolledCourses = []string{}
		}
		if u.CompletedCourses == nil {
			u.CompletedCourses = []string{}
		}
	}
	return u, nil
}
