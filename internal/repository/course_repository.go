package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/techincepto/portal-backend/internal/config"
	"github.com/techincepto/portal-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	client *firestore.Client
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(client *firestore.Client) *CourseRepository {
	return &CourseRepository{client: client}
}

func (r *CourseRepository) col() *firestore.CollectionRef {
	return r.client.Collection(config.Collection.Courses)
}

// List returns all courses, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	docs, err := r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	courses := make([]model.Course, 0, len(docs))
	for _, doc := range docs {
		c, err := decodeCourse(doc)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, nil
}

// GetByID retrieves a course. Returns nil when absent.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get course %s: %w", id, err)
	}
	return decodeCourse(snap)
}

// GetByIDs fetches several courses in one round trip, skipping missing ones.
// Order follows ids.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	if len(ids) == 0 {
		return []model.Course{}, nil
	}
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = r.col().Doc(id)
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("get courses: %w", err)
	}
	courses := make([]model.Course, 0, len(snaps))
	for _, snap := range snaps {
		c, err := decodeCourse(snap)
		if err != nil {
			return nil, err
		}
		if c != nil {
			courses = append(courses, *c)
		}
	}
	return courses, nil
}

// Create stores a course under a generated id with store-side timestamps.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) (string, error) {
	ref, _, err := r.col().Add(ctx, map[string]any{
		"title":          c.Title,
		"description":    c.Description,
		"courseIncludes": c.CourseIncludes,
		"price":          c.Price,
		"thumbnailURL":   c.ThumbnailURL,
		"createdAt":      firestore.ServerTimestamp,
		"updatedAt":      firestore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("create course: %w", err)
	}
	return ref.ID, nil
}

func decodeCourse(snap *firestore.DocumentSnapshot) (*model.Course, error) {
	c, err := decode[model.Course](snap)
	if err != nil {
		return nil, fmt.Errorf("decode course %s: %w", snap.Ref.ID, err)
	}
	if c != nil {
		c.ID = snap.Ref.ID
		if c.CourseIncludes == nil {
			c.CourseIncludes = []string{}
		}
	}
	return c, nil
}
