package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/techincepto/portal-backend/internal/config"
	"github.com/techincepto/portal-backend/internal/model"
)

// AdminRepository handles admin data access.
type AdminRepository struct {
	client *firestore.Client
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(client *firestore.Client) *AdminRepository {
	return &AdminRepository{client: client}
}

// GetByUsername retrieves an admin by username. Returns nil when absent.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return r.findOne(ctx, "username", username)
}

// GetByEmail retrieves an admin by email. Returns nil when absent.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.findOne(ctx, "admin_email", email)
}

func (r *AdminRepository) findOne(ctx context.Context, field, value string) (*model.Admin, error) {
	iter := r.client.Collection(config.Collection.Admins).
		Where(field, "==", value).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query admin by %s: %w", field, err)
	}
	a, err := decode[model.Admin](doc)
	if err != nil {
		return nil, fmt.Errorf("decode admin: %w", err)
	}
	if a.AdminID == "" {
		a.AdminID = doc.Ref.ID
	}
	return a, nil
}

// Create stores a new admin keyed by AdminID. Fails with ErrAlreadyExists on collision.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	_, err := r.client.Collection(config.Collection.Admins).Doc(a.AdminID).Create(ctx, a)
	if isAlreadyExists(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
